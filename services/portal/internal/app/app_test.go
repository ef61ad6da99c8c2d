package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"contesthub/pkg/csvexport"
	"contesthub/pkg/domain"
	"contesthub/pkg/matching"
	"contesthub/pkg/storage"
	"contesthub/pkg/store"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestApp(t *testing.T, backend store.Backend, opts ...func(*Config)) *App {
	t.Helper()
	cfg := Config{
		Store: backend,
		Now:   func() time.Time { return fixedNow },
		NewID: sequentialIDs(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestSignUpPersistsUserAndSession(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryStore()
	a := newTestApp(t, backend)

	s, u, err := a.SignUp(ctx, domain.User{Email: "a@x.com", Role: domain.RoleConductor})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if s.UserEmail != "a@x.com" || u.Role != domain.RoleConductor {
		t.Fatalf("unexpected session %+v user %+v", s, u)
	}

	users := store.Load(ctx, backend, store.KeyUsers, []domain.User(nil))
	if len(users) != 1 || users[0].Email != "a@x.com" {
		t.Fatalf("users slot = %+v", users)
	}
	current := store.Load[*string](ctx, backend, store.KeyCurrentUserEmail, nil)
	if current == nil || *current != "a@x.com" {
		t.Fatalf("session slot = %v", current)
	}

	restored := newTestApp(t, backend).RestoreSession()
	if restored.UserEmail != "a@x.com" {
		t.Fatalf("restored session = %+v", restored)
	}
}

func TestSignUpTwiceMergesRecord(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())
	if _, _, err := a.SignUp(ctx, domain.User{Email: "s@x.com", Name: "Asha", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := a.SignUp(ctx, domain.User{Email: "s@x.com", City: "Delhi"}); err != nil {
		t.Fatalf("signup again: %v", err)
	}
	users := a.Users()
	if len(users) != 1 {
		t.Fatalf("expected one user, got %d", len(users))
	}
	if users[0].Name != "Asha" || users[0].City != "Delhi" || users[0].Role != domain.RoleStudent {
		t.Fatalf("merge lost fields: %+v", users[0])
	}
}

func TestSignUpRequiresEmail(t *testing.T) {
	a := newTestApp(t, store.NewMemoryStore())
	s, _, err := a.SignUp(context.Background(), domain.User{Name: "nobody"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.LoggedIn() {
		t.Fatalf("session should stay anonymous")
	}
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryStore()
	a := newTestApp(t, backend)
	if _, _, err := a.SignUp(ctx, domain.User{Email: "s@x.com", Password: "pw", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	s := a.Logout(ctx, Session{UserEmail: "s@x.com"})
	if s.LoggedIn() {
		t.Fatalf("logout should return anonymous session")
	}
	if cur := store.Load[*string](ctx, backend, store.KeyCurrentUserEmail, nil); cur != nil {
		t.Fatalf("session slot should be null, got %q", *cur)
	}
	if len(a.Users()) != 1 {
		t.Fatalf("logout must keep the user record")
	}

	if _, _, err := a.Login(ctx, "s@x.com", "wrong"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if _, _, err := a.Login(ctx, "other@x.com", ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	s, u, err := a.Login(ctx, "s@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.UserEmail != "s@x.com" || u.Role != domain.RoleStudent {
		t.Fatalf("unexpected login result %+v %+v", s, u)
	}
}

func TestPublishEvent(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryStore()
	a := newTestApp(t, backend)
	s, _, err := a.SignUp(ctx, domain.User{Email: "a@x.com", Role: domain.RoleConductor, City: "Delhi", Contact: "99"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	draft := a.NewEventDraft(s)
	if draft.City != "Delhi" || draft.Contact != "99" || draft.TeamMin != 1 {
		t.Fatalf("unexpected draft defaults %+v", draft)
	}
	draft.Title = "Hack"
	draft.TeamMax = 4
	first, err := a.PublishEvent(ctx, s, draft)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if first.OwnerEmail != "a@x.com" || !first.CreatedAt.Equal(fixedNow) || first.ID == "" {
		t.Fatalf("unexpected event %+v", first)
	}
	second, err := a.PublishEvent(ctx, s, domain.EventDraft{Title: "Second"})
	if err != nil {
		t.Fatalf("publish second: %v", err)
	}
	events := store.Load(ctx, backend, store.KeyEvents, []domain.Event(nil))
	if len(events) != 2 || events[0].ID != second.ID || events[1].ID != first.ID {
		t.Fatalf("events not prepended: %+v", events)
	}
}

func TestPublishEventRefused(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())

	if _, err := a.PublishEvent(ctx, Anonymous(), domain.EventDraft{Title: "X"}); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("anonymous publish: expected not authorized, got %v", err)
	}
	student, _, err := a.SignUp(ctx, domain.User{Email: "s@x.com", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := a.PublishEvent(ctx, student, domain.EventDraft{Title: "X"}); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("student publish: expected not authorized, got %v", err)
	}
	conductor, _, err := a.SignUp(ctx, domain.User{Email: "c@x.com", Role: domain.RoleConductor})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := a.PublishEvent(ctx, conductor, domain.EventDraft{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank title: expected validation error, got %v", err)
	}
	if len(a.Events()) != 0 {
		t.Fatalf("refused publishes must not change events")
	}
}

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())
	if _, err := a.CreateGroup(ctx, Anonymous(), "Team", nil); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	s, _, err := a.SignUp(ctx, domain.User{Email: "s@x.com", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := a.CreateGroup(ctx, s, "", nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	g, err := a.CreateGroup(ctx, s, "Rockets", []string{"t@x.com", "s@x.com", " "})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.OwnerEmail != "s@x.com" || strings.Join(g.MemberEmails, ",") != "s@x.com,t@x.com" {
		t.Fatalf("unexpected group %+v", g)
	}
	if mine := a.MyGroups(s); len(mine) != 1 || mine[0].ID != g.ID {
		t.Fatalf("my groups = %+v", mine)
	}
}

func TestApplyCreatesSingletonGroup(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryStore()
	a := newTestApp(t, backend)
	s, _, err := a.SignUp(ctx, domain.User{Email: "s@x.com", Name: "Asha", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	app, g, err := a.Apply(ctx, s, "evt-1", "count us in")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if g.Name != "Asha Team" || g.OwnerEmail != "s@x.com" || len(g.MemberEmails) != 1 {
		t.Fatalf("unexpected implicit group %+v", g)
	}
	if app.GroupID != g.ID || app.EventID != "evt-1" || app.Message != "count us in" {
		t.Fatalf("unexpected application %+v", app)
	}

	groups := store.Load(ctx, backend, store.KeyGroups, []domain.Group(nil))
	if len(groups) != 1 || groups[0].ID != g.ID {
		t.Fatalf("implicit group not persisted: %+v", groups)
	}
	apps := store.Load(ctx, backend, store.KeyApplications, []domain.Application(nil))
	if len(apps) != 1 || apps[0].ID != app.ID {
		t.Fatalf("application not persisted: %+v", apps)
	}

	// A second application reuses the group.
	if _, again, err := a.Apply(ctx, s, "evt-2", ""); err != nil || again.ID != g.ID {
		t.Fatalf("second apply: group %+v err %v", again, err)
	}
	if len(a.MyGroups(s)) != 1 {
		t.Fatalf("second apply should not create another group")
	}
}

func TestApplyRefusals(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())
	if _, _, err := a.Apply(ctx, Anonymous(), "evt-1", ""); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	s, _, err := a.SignUp(ctx, domain.User{Email: "s@x.com", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := a.Apply(ctx, s, " ", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(a.Snapshot().Applications) != 0 || len(a.Snapshot().Groups) != 0 {
		t.Fatalf("refused applies must not change state")
	}
}

func TestApplyWithGroup(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())
	owner, _, _ := a.SignUp(ctx, domain.User{Email: "s@x.com", Role: domain.RoleStudent})
	g, err := a.CreateGroup(ctx, owner, "Rockets", []string{"t@x.com"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if _, err := a.ApplyWithGroup(ctx, owner, "evt-1", "missing", ""); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected unknown group, got %v", err)
	}
	outsider, _, _ := a.SignUp(ctx, domain.User{Email: "o@x.com", Role: domain.RoleStudent})
	if _, err := a.ApplyWithGroup(ctx, outsider, "evt-1", g.ID, ""); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected not authorized for outsider, got %v", err)
	}
	app, err := a.ApplyWithGroup(ctx, owner, "evt-1", g.ID, "hi")
	if err != nil {
		t.Fatalf("apply with group: %v", err)
	}
	if app.GroupID != g.ID {
		t.Fatalf("application group = %q", app.GroupID)
	}
}

func TestApplyStrictEligibility(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore(), func(c *Config) {
		c.Eligibility = domain.StrictEligibility(func() time.Time { return fixedNow })
	})
	conductor, _, _ := a.SignUp(ctx, domain.User{Email: "c@x.com", Role: domain.RoleConductor})
	evt, err := a.PublishEvent(ctx, conductor, domain.EventDraft{Title: "Duo", TeamMin: 2, TeamMax: 2, Branches: []string{"CSE"}})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	student, _, _ := a.SignUp(ctx, domain.User{Email: "s@x.com", Role: domain.RoleStudent, Branch: "CSE"})
	if _, _, err := a.Apply(ctx, student, evt.ID, ""); !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("expected not eligible for solo team, got %v", err)
	}
	if len(a.Snapshot().Groups) != 0 {
		t.Fatalf("ineligible apply must not persist the implicit group")
	}
	if _, err := a.CreateGroup(ctx, student, "Pair", []string{"t@x.com"}); err != nil {
		t.Fatalf("create group: %v", err)
	}
	if _, _, err := a.Apply(ctx, student, evt.ID, ""); err != nil {
		t.Fatalf("apply as pair: %v", err)
	}
}

func TestMyApplicationsPlaceholders(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())
	conductor, _, _ := a.SignUp(ctx, domain.User{Email: "c@x.com", Role: domain.RoleConductor})
	evt, err := a.PublishEvent(ctx, conductor, domain.EventDraft{Title: "Hack"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	s, _, _ := a.SignUp(ctx, domain.User{Email: "s@x.com", Role: domain.RoleStudent})
	if _, _, err := a.Apply(ctx, s, evt.ID, ""); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, _, err := a.Apply(ctx, s, "gone", ""); err != nil {
		t.Fatalf("apply to missing event: %v", err)
	}

	got := a.MyApplications(s)
	if len(got) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(got))
	}
	if got[0].EventTitle != domain.MissingEventTitle || got[1].EventTitle != "Hack" {
		t.Fatalf("unexpected titles %q %q", got[0].EventTitle, got[1].EventTitle)
	}
	if got[1].GroupName != "My Team" {
		t.Fatalf("group name = %q", got[1].GroupName)
	}
	if len(a.MyApplications(Anonymous())) != 0 {
		t.Fatalf("anonymous session sees no applications")
	}
}

func TestStudentsAndInvitable(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())
	a.SignUp(ctx, domain.User{Email: "c@x.com", Role: domain.RoleConductor})
	a.SignUp(ctx, domain.User{Email: "t@x.com", Role: domain.RoleStudent})
	s, _, _ := a.SignUp(ctx, domain.User{Email: "s@x.com", Role: domain.RoleStudent})

	if got := a.Students(); len(got) != 2 {
		t.Fatalf("students = %+v", got)
	}
	inv := a.Invitable(s)
	if len(inv) != 1 || inv[0].Email != "t@x.com" {
		t.Fatalf("invitable = %+v", inv)
	}
}

func TestDiscoverAndSearch(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, store.NewMemoryStore())
	c, _, _ := a.SignUp(ctx, domain.User{Email: "c@x.com", Role: domain.RoleConductor})
	a.PublishEvent(ctx, c, domain.EventDraft{Title: "Art Fest", City: "Pune", Branches: []string{"Open"}, Fee: 10})
	a.PublishEvent(ctx, c, domain.EventDraft{Title: "Hackathon", City: "Delhi", Branches: []string{"CSE"}})

	v := matching.View{Filter: matching.Filter{Fee: matching.FeeFree}}
	if got := a.Discover(v); len(got) != 1 || got[0].Title != "Hackathon" {
		t.Fatalf("free filter = %+v", got)
	}

	v, hits := a.Search(matching.View{}, "hack delhi")
	if len(hits) != 1 || hits[0].Score != 2 {
		t.Fatalf("hits = %+v", hits)
	}
	if got := a.Discover(v); len(got) != 1 || got[0].Title != "Hackathon" {
		t.Fatalf("search override = %+v", got)
	}
	if got := a.Discover(v.ClearPicks()); len(got) != 2 {
		t.Fatalf("cleared view = %+v", got)
	}
}

func TestExportsAndDeliver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sink, err := storage.NewDirSink(dir)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	a := newTestApp(t, store.NewMemoryStore(), func(c *Config) { c.Exports = sink })

	if _, err := a.ExportEvents(); !errors.Is(err, csvexport.ErrEmptyInput) {
		t.Fatalf("expected empty input, got %v", err)
	}
	if _, err := a.ExportMyDetails(Anonymous()); !errors.Is(err, csvexport.ErrEmptyInput) {
		t.Fatalf("expected empty input for anonymous, got %v", err)
	}

	s, _, _ := a.SignUp(ctx, domain.User{Email: "s@x.com", Name: "Doe, Jane", Role: domain.RoleStudent})
	f, err := a.ExportMyDetails(s)
	if err != nil {
		t.Fatalf("export me: %v", err)
	}
	if f.Name != "my-details.csv" || !strings.Contains(string(f.Content), `"Doe, Jane"`) {
		t.Fatalf("unexpected export %s %q", f.Name, f.Content)
	}

	loc, err := a.Deliver(ctx, f)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		t.Fatalf("read delivered file: %v", err)
	}
	if string(data) != string(f.Content) {
		t.Fatalf("delivered content mismatch")
	}
}

func TestDeliverWithoutSink(t *testing.T) {
	a := newTestApp(t, store.NewMemoryStore())
	if _, err := a.Deliver(context.Background(), csvexport.File{Name: "x.csv"}); err == nil {
		t.Fatalf("expected error without sink")
	}
}

func TestNotice(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{domain.ErrUserNotFound, "No user found"},
		{fmt.Errorf("%w: only conductors", domain.ErrNotAuthorized), "Not allowed"},
		{ErrUnknownGroup, "Invalid input"},
		{domain.ErrNotEligible, "Not eligible"},
		{csvexport.ErrEmptyInput, "No data to export"},
		{errors.New("disk on fire"), "Something went wrong"},
	}
	for _, tc := range cases {
		if got := Notice(tc.err); !strings.HasPrefix(got, tc.want) {
			t.Fatalf("Notice(%v) = %q, want prefix %q", tc.err, got, tc.want)
		}
	}
}
