package matching

import (
	"sort"
	"strings"

	"contesthub/pkg/domain"
)

// MaxHits caps the number of free-text results.
const MaxHits = 5

type Hit struct {
	Event domain.Event
	Score int
}

// Tokenize lowercases query and splits it on whitespace.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Haystack is the lowercase searchable text of an event.
func Haystack(e domain.Event) string {
	parts := []string{e.Title, e.Description, e.City, e.Reason}
	parts = append(parts, e.Branches...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Score counts the tokens that occur as substrings of the event haystack.
func Score(e domain.Event, tokens []string) int {
	text := Haystack(e)
	score := 0
	for _, t := range tokens {
		if strings.Contains(text, t) {
			score++
		}
	}
	return score
}

// Search ranks events by keyword overlap with query. Only events with a
// positive score are kept, equal scores keep their input order, and at most
// MaxHits results are returned.
func Search(events []domain.Event, query string) []Hit {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	hits := make([]Hit, 0, len(events))
	for _, e := range events {
		if s := Score(e, tokens); s > 0 {
			hits = append(hits, Hit{Event: e, Score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > MaxHits {
		hits = hits[:MaxHits]
	}
	return hits
}

// Events strips the scores from hits.
func Events(hits []Hit) []domain.Event {
	out := make([]domain.Event, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Event)
	}
	return out
}
