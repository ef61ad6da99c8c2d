package matching

import (
	"fmt"
	"slices"
	"strings"

	"contesthub/pkg/domain"
)

// FeeBucket selects events by entry fee.
type FeeBucket string

const (
	FeeAny  FeeBucket = "any"
	FeeFree FeeBucket = "free"
	FeePaid FeeBucket = "paid"
)

// ParseFeeBucket accepts "", any, free and paid in any case.
func ParseFeeBucket(s string) (FeeBucket, error) {
	switch FeeBucket(strings.ToLower(strings.TrimSpace(s))) {
	case "", FeeAny:
		return FeeAny, nil
	case FeeFree:
		return FeeFree, nil
	case FeePaid:
		return FeePaid, nil
	default:
		return "", fmt.Errorf("unknown fee bucket %q", s)
	}
}

// Filter holds the structured discovery filters. Zero values disable a
// predicate: empty or "any" branch, empty city, non-positive team size and
// an empty or FeeAny bucket.
type Filter struct {
	Branch   string
	City     string
	TeamSize int
	Fee      FeeBucket
}

// BranchOK accepts events listing the branch or open to all branches.
func BranchOK(e domain.Event, f Filter) bool {
	if f.Branch == "" || strings.EqualFold(f.Branch, "any") {
		return true
	}
	return slices.Contains(e.Branches, f.Branch) || slices.Contains(e.Branches, domain.OpenBranch)
}

// CityOK is a case-insensitive substring match on the event city.
func CityOK(e domain.Event, f Filter) bool {
	if f.City == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.City), strings.ToLower(f.City))
}

func TeamOK(e domain.Event, f Filter) bool {
	if f.TeamSize <= 0 {
		return true
	}
	return e.TeamMax >= f.TeamSize
}

func FeeOK(e domain.Event, f Filter) bool {
	switch f.Fee {
	case FeeFree:
		return e.Fee == 0
	case FeePaid:
		return e.Fee > 0
	default:
		return true
	}
}

func Matches(e domain.Event, f Filter) bool {
	return BranchOK(e, f) && CityOK(e, f) && TeamOK(e, f) && FeeOK(e, f)
}

// Apply returns the events matching f in their original order.
func Apply(events []domain.Event, f Filter) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if Matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}
