package domain

import "slices"

const (
	// MissingEventTitle is shown for an application whose event is gone.
	MissingEventTitle = "Event removed"
	MissingGroupName  = "—"
)

// CurrentUser resolves the active user; nil when email is empty or unknown.
func CurrentUser(users []User, email string) *User {
	if email == "" {
		return nil
	}
	u, ok := FindUser(users, email)
	if !ok {
		return nil
	}
	return &u
}

func Students(users []User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role == RoleStudent {
			out = append(out, u)
		}
	}
	return out
}

// OtherStudents lists the students that email may invite into a group.
func OtherStudents(users []User, email string) []User {
	out := make([]User, 0, len(users))
	for _, u := range Students(users) {
		if u.Email != email {
			out = append(out, u)
		}
	}
	return out
}

func GroupsContaining(groups []Group, email string) []Group {
	out := make([]Group, 0)
	for _, g := range groups {
		if slices.Contains(g.MemberEmails, email) {
			out = append(out, g)
		}
	}
	return out
}

// ApplicationsVisibleTo keeps the applications whose group lists email as a
// member. Applications referencing a missing group are never visible.
func ApplicationsVisibleTo(apps []Application, groups []Group, email string) []Application {
	out := make([]Application, 0)
	if email == "" {
		return out
	}
	for _, a := range apps {
		g, ok := FindGroup(groups, a.GroupID)
		if ok && slices.Contains(g.MemberEmails, email) {
			out = append(out, a)
		}
	}
	return out
}

// ApplicationSummary is an application joined with the names of what it
// references.
type ApplicationSummary struct {
	Application
	EventTitle string
	GroupName  string
}

func DescribeApplications(apps []Application, events []Event, groups []Group) []ApplicationSummary {
	out := make([]ApplicationSummary, 0, len(apps))
	for _, a := range apps {
		s := ApplicationSummary{Application: a, EventTitle: MissingEventTitle, GroupName: MissingGroupName}
		if e, ok := FindEvent(events, a.EventID); ok && e.Title != "" {
			s.EventTitle = e.Title
		}
		if g, ok := FindGroup(groups, a.GroupID); ok && g.Name != "" {
			s.GroupName = g.Name
		}
		out = append(out, s)
	}
	return out
}
