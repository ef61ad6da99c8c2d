package domain

import (
	"strconv"
	"strings"
	"time"
)

// CSV columns follow the JSON field order of each record.

func (u User) CSVHeader() []string {
	return []string{"email", "name", "role", "branch", "year", "institution", "city", "contact", "password"}
}

func (u User) CSVRecord() []string {
	return []string{u.Email, u.Name, string(u.Role), u.Branch, u.Year, u.Institution, u.City, u.Contact, u.Password}
}

func (e Event) CSVHeader() []string {
	return []string{"id", "createdAt", "title", "description", "branches", "teamMin", "teamMax", "fee", "prize", "reason", "contact", "city", "deadline", "ownerEmail"}
}

func (e Event) CSVRecord() []string {
	return []string{
		e.ID,
		FormatTime(e.CreatedAt),
		e.Title,
		e.Description,
		strings.Join(e.Branches, ","),
		strconv.Itoa(e.TeamMin),
		strconv.Itoa(e.TeamMax),
		FormatFee(e.Fee),
		e.Prize,
		e.Reason,
		e.Contact,
		e.City,
		e.Deadline,
		e.OwnerEmail,
	}
}

func (a Application) CSVHeader() []string {
	return []string{"id", "createdAt", "eventId", "groupId", "message"}
}

func (a Application) CSVRecord() []string {
	return []string{a.ID, FormatTime(a.CreatedAt), a.EventID, a.GroupID, a.Message}
}

// FormatFee renders a fee in its shortest decimal form (0, 49.5).
func FormatFee(fee float64) string {
	return strconv.FormatFloat(fee, 'f', -1, 64)
}

// FormatTime renders t as RFC 3339 in UTC; the zero time renders empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
