package domain

import (
	"fmt"
	"slices"
	"time"
)

// Eligibility decides whether group may apply to event. The event is nil when
// the application references an event that is not in the snapshot. members
// holds the known user records of the group's member emails.
type Eligibility func(event *Event, group Group, members []User) error

// AllowAll accepts every application. This is the default policy.
func AllowAll(*Event, Group, []User) error { return nil }

// DeadlineLayout is the date format of Event.Deadline.
const DeadlineLayout = "2006-01-02"

// StrictEligibility enforces team size, branch and deadline. Members without a
// branch are skipped by the branch check, and events missing from the
// snapshot are accepted.
func StrictEligibility(now func() time.Time) Eligibility {
	return func(event *Event, group Group, members []User) error {
		if event == nil {
			return nil
		}
		size := len(group.MemberEmails)
		if event.TeamMin > 0 && size < event.TeamMin {
			return fmt.Errorf("%w: team of %d below minimum %d", ErrNotEligible, size, event.TeamMin)
		}
		if event.TeamMax > 0 && size > event.TeamMax {
			return fmt.Errorf("%w: team of %d above maximum %d", ErrNotEligible, size, event.TeamMax)
		}
		if !slices.Contains(event.Branches, OpenBranch) {
			for _, u := range members {
				if u.Branch != "" && !slices.Contains(event.Branches, u.Branch) {
					return fmt.Errorf("%w: branch %s not accepted", ErrNotEligible, u.Branch)
				}
			}
		}
		if event.Deadline != "" {
			deadline, err := time.Parse(DeadlineLayout, event.Deadline)
			if err == nil && !now().Before(deadline.AddDate(0, 0, 1)) {
				return fmt.Errorf("%w: deadline %s passed", ErrNotEligible, event.Deadline)
			}
		}
		return nil
	}
}

// Members resolves group member emails to user records, skipping unknown emails.
func Members(users []User, group Group) []User {
	out := make([]User, 0, len(group.MemberEmails))
	for _, email := range group.MemberEmails {
		if u, ok := FindUser(users, email); ok {
			out = append(out, u)
		}
	}
	return out
}
