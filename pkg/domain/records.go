package domain

import (
	"fmt"
	"strings"
)

// NewEventDraft returns the composer defaults for a conductor: open to all
// branches, single-member teams, free entry, contact and city taken from the
// conductor's profile.
func NewEventDraft(conductor *User) EventDraft {
	draft := EventDraft{
		Branches: []string{OpenBranch},
		TeamMin:  1,
		TeamMax:  1,
	}
	if conductor != nil && conductor.Role == RoleConductor {
		draft.Contact = conductor.Contact
		draft.City = conductor.City
	}
	return draft
}

// AddEvent publishes a draft on behalf of actor and prepends it to events.
func AddEvent(events []Event, actor *User, draft EventDraft, stamp Stamp) ([]Event, Event, error) {
	if actor == nil || actor.Role != RoleConductor {
		return events, Event{}, fmt.Errorf("%w: only conductors can create events", ErrNotAuthorized)
	}
	if err := checkDraft(draft); err != nil {
		return events, Event{}, err
	}
	evt := Event{
		ID:          stamp.ID,
		CreatedAt:   stamp.At,
		Title:       draft.Title,
		Description: draft.Description,
		Branches:    append([]string(nil), draft.Branches...),
		TeamMin:     draft.TeamMin,
		TeamMax:     draft.TeamMax,
		Fee:         draft.Fee,
		Prize:       draft.Prize,
		Reason:      draft.Reason,
		Contact:     draft.Contact,
		City:        draft.City,
		Deadline:    draft.Deadline,
		OwnerEmail:  actor.Email,
	}
	if evt.Branches == nil {
		evt.Branches = []string{}
	}
	return prepend(events, evt), evt, nil
}

// AddGroup creates a group from draft and prepends it to groups. The owner is
// always the first member and member emails are deduplicated.
func AddGroup(groups []Group, draft GroupDraft, stamp Stamp) ([]Group, Group, error) {
	if err := checkDraft(draft); err != nil {
		return groups, Group{}, err
	}
	g := Group{
		ID:           stamp.ID,
		CreatedAt:    stamp.At,
		Name:         draft.Name,
		OwnerEmail:   draft.OwnerEmail,
		MemberEmails: uniqueEmails(append([]string{draft.OwnerEmail}, draft.MemberEmails...)),
	}
	return prepend(groups, g), g, nil
}

// ResolveGroupForApplication picks the first group user belongs to. When there
// is none it creates a singleton group owned by user, prepended to the
// returned groups; created reports that case.
func ResolveGroupForApplication(user User, groups []Group, stamp Stamp) (next []Group, g Group, created bool, err error) {
	if mine := GroupsContaining(groups, user.Email); len(mine) > 0 {
		return groups, mine[0], false, nil
	}
	name := user.Name
	if name == "" {
		name = "My"
	}
	next, g, err = AddGroup(groups, GroupDraft{
		Name:         name + " Team",
		OwnerEmail:   user.Email,
		MemberEmails: []string{user.Email},
	}, stamp)
	if err != nil {
		return groups, Group{}, false, err
	}
	return next, g, true, nil
}

// ApplyToEvent records that groupID applies to eventID. References are not
// checked: the event or group may be missing.
func ApplyToEvent(apps []Application, actor *User, eventID, groupID, message string, stamp Stamp) ([]Application, Application, error) {
	if actor == nil {
		return apps, Application{}, fmt.Errorf("%w: login required", ErrNotAuthorized)
	}
	if strings.TrimSpace(eventID) == "" {
		return apps, Application{}, fmt.Errorf("%w: select an event", ErrValidation)
	}
	app := Application{
		ID:        stamp.ID,
		CreatedAt: stamp.At,
		EventID:   eventID,
		GroupID:   groupID,
		Message:   message,
	}
	return prepend(apps, app), app, nil
}

func FindEvent(events []Event, id string) (Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

func FindGroup(groups []Group, id string) (Group, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

func prepend[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

func uniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
