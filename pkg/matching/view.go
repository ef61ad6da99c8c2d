package matching

import "contesthub/pkg/domain"

// View is the discovery state of the event list: structured filters plus the
// picks of the last free-text search.
type View struct {
	Filter Filter
	Picks  []domain.Event
}

// Resolve returns the visible events. Non-empty picks replace the filtered
// list entirely.
func Resolve(events []domain.Event, v View) []domain.Event {
	if len(v.Picks) > 0 {
		return v.Picks
	}
	return Apply(events, v.Filter)
}

// WithSearch runs query and stores its results as picks. A query without
// hits leaves the view on the structured filter.
func (v View) WithSearch(events []domain.Event, query string) View {
	v.Picks = Events(Search(events, query))
	return v
}

func (v View) ClearPicks() View {
	v.Picks = nil
	return v
}
