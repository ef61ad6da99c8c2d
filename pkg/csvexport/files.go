package csvexport

import (
	"fmt"
	"strconv"
	"strings"

	"contesthub/pkg/domain"
)

const ContentType = "text/csv;charset=utf-8"

// File is a named CSV document ready to hand to a sink.
type File struct {
	Name    string
	Content []byte
}

func Users(users []domain.User) (File, error) {
	return encodeFile("users.csv", users)
}

func Events(events []domain.Event) (File, error) {
	return encodeFile("events.csv", events)
}

func Applications(apps []domain.Application) (File, error) {
	return encodeFile("applications.csv", apps)
}

// MyDetails exports the single current user. A nil user is empty input.
func MyDetails(u *domain.User) (File, error) {
	if u == nil {
		return File{}, ErrEmptyInput
	}
	return encodeFile("my-details.csv", []domain.User{*u})
}

// FilteredEvents exports the condensed event listing shown after filtering.
func FilteredEvents(events []domain.Event) (File, error) {
	rows := make([]EventListing, 0, len(events))
	for _, e := range events {
		rows = append(rows, NewEventListing(e))
	}
	return encodeFile("events-filtered.csv", rows)
}

// EventListing is the projection of an Event used by FilteredEvents.
type EventListing struct {
	ID       string
	Title    string
	Branches string
	Fee      string
	City     string
	Team     string
	Contact  string
}

func NewEventListing(e domain.Event) EventListing {
	return EventListing{
		ID:       e.ID,
		Title:    e.Title,
		Branches: strings.Join(e.Branches, "|"),
		Fee:      domain.FormatFee(e.Fee),
		City:     e.City,
		Team:     strconv.Itoa(e.TeamMin) + "-" + strconv.Itoa(e.TeamMax),
		Contact:  e.Contact,
	}
}

func (l EventListing) CSVHeader() []string {
	return []string{"id", "title", "branches", "fee", "city", "team", "contact"}
}

func (l EventListing) CSVRecord() []string {
	return []string{l.ID, l.Title, l.Branches, l.Fee, l.City, l.Team, l.Contact}
}

func encodeFile[R Row](name string, rows []R) (File, error) {
	text, err := Encode(rows)
	if err != nil {
		return File{}, fmt.Errorf("export %s: %w", name, err)
	}
	return File{Name: name, Content: []byte(text)}, nil
}
