package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"contesthub/internal/util"
	"contesthub/pkg/domain"
	"contesthub/pkg/matching"
	"contesthub/pkg/storage"
	"contesthub/pkg/store"
)

// Config holds runtime dependencies for the core application.
type Config struct {
	Store       store.Backend
	Exports     storage.Sink
	Eligibility domain.Eligibility
	LinkExpiry  time.Duration
	Now         func() time.Time
	NewID       func() string
}

// App owns the snapshot of one profile and writes every change through to
// its store. It is not safe for concurrent use.
type App struct {
	store      store.Backend
	exports    storage.Sink
	eligible   domain.Eligibility
	linkExpiry time.Duration
	now        func() time.Time
	newID      func() string

	snap domain.Snapshot
}

// New loads the persisted snapshot and wires the application.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store required")
	}
	if cfg.Eligibility == nil {
		cfg.Eligibility = domain.AllowAll
	}
	if cfg.LinkExpiry <= 0 {
		cfg.LinkExpiry = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.NewID == nil {
		cfg.NewID = util.NewID
	}
	return &App{
		store:      cfg.Store,
		exports:    cfg.Exports,
		eligible:   cfg.Eligibility,
		linkExpiry: cfg.LinkExpiry,
		now:        cfg.Now,
		newID:      cfg.NewID,
		snap:       store.LoadSnapshot(ctx, cfg.Store),
	}, nil
}

// Snapshot returns the current state. Callers must not modify it.
func (a *App) Snapshot() domain.Snapshot {
	return a.snap
}

func (a *App) stamp() domain.Stamp {
	return domain.Stamp{ID: a.newID(), At: a.now()}
}

// SignUp creates or updates the user keyed by u.Email and logs them in.
func (a *App) SignUp(ctx context.Context, u domain.User) (Session, domain.User, error) {
	users, err := domain.UpsertUser(a.snap.Users, u)
	if err != nil {
		return Anonymous(), domain.User{}, err
	}
	return a.activate(ctx, users, u.Email, "signup")
}

// Login activates the stored user matching email and, when given, password.
func (a *App) Login(ctx context.Context, email, password string) (Session, domain.User, error) {
	found, err := domain.Login(a.snap.Users, email, password)
	if err != nil {
		util.LoggerFromContext(ctx).Info("login rejected", "email", email)
		return Anonymous(), domain.User{}, err
	}
	users, err := domain.UpsertUser(a.snap.Users, found)
	if err != nil {
		return Anonymous(), domain.User{}, err
	}
	return a.activate(ctx, users, found.Email, "login")
}

func (a *App) activate(ctx context.Context, users []domain.User, email, via string) (Session, domain.User, error) {
	a.snap.Users = users
	store.Save(ctx, a.store, store.KeyUsers, a.snap.Users)
	a.snap.CurrentUserEmail = &email
	store.Save(ctx, a.store, store.KeyCurrentUserEmail, a.snap.CurrentUserEmail)
	user, _ := domain.FindUser(users, email)
	util.LoggerFromContext(ctx).Info("session started", "email", email, "role", user.Role, "via", via)
	return Session{UserEmail: email}, user, nil
}

// Logout clears the persisted session. The user record is kept.
func (a *App) Logout(ctx context.Context, s Session) Session {
	a.snap.CurrentUserEmail = nil
	store.Save(ctx, a.store, store.KeyCurrentUserEmail, a.snap.CurrentUserEmail)
	util.LoggerFromContext(ctx).Info("session ended", "email", s.UserEmail)
	return Anonymous()
}

// CurrentUser resolves the session user; nil when anonymous or unknown.
func (a *App) CurrentUser(s Session) *domain.User {
	return domain.CurrentUser(a.snap.Users, s.UserEmail)
}

// NewEventDraft returns the composer defaults for the session user.
func (a *App) NewEventDraft(s Session) domain.EventDraft {
	return domain.NewEventDraft(a.CurrentUser(s))
}

// PublishEvent adds an event owned by the session user, who must be a conductor.
func (a *App) PublishEvent(ctx context.Context, s Session, draft domain.EventDraft) (domain.Event, error) {
	events, evt, err := domain.AddEvent(a.snap.Events, a.CurrentUser(s), draft, a.stamp())
	if err != nil {
		return domain.Event{}, err
	}
	a.snap.Events = events
	store.Save(ctx, a.store, store.KeyEvents, a.snap.Events)
	util.LoggerFromContext(ctx).Info("event published", "event_id", evt.ID, "owner", evt.OwnerEmail)
	return evt, nil
}

// CreateGroup creates a group owned by the session user.
func (a *App) CreateGroup(ctx context.Context, s Session, name string, memberEmails []string) (domain.Group, error) {
	user := a.CurrentUser(s)
	if user == nil {
		return domain.Group{}, fmt.Errorf("%w: login required", domain.ErrNotAuthorized)
	}
	groups, g, err := domain.AddGroup(a.snap.Groups, domain.GroupDraft{
		Name:         name,
		OwnerEmail:   user.Email,
		MemberEmails: memberEmails,
	}, a.stamp())
	if err != nil {
		return domain.Group{}, err
	}
	a.snap.Groups = groups
	store.Save(ctx, a.store, store.KeyGroups, a.snap.Groups)
	util.LoggerFromContext(ctx).Info("group created", "group_id", g.ID, "members", len(g.MemberEmails))
	return g, nil
}

// Apply submits an application for eventID using the session user's first
// group, creating a singleton group when the user has none.
func (a *App) Apply(ctx context.Context, s Session, eventID, message string) (domain.Application, domain.Group, error) {
	user := a.CurrentUser(s)
	if err := precheckApply(user, eventID); err != nil {
		return domain.Application{}, domain.Group{}, err
	}
	groups, g, created, err := domain.ResolveGroupForApplication(*user, a.snap.Groups, a.stamp())
	if err != nil {
		return domain.Application{}, domain.Group{}, err
	}
	if !created {
		groups = nil
	}
	app, err := a.submit(ctx, user, g, groups, eventID, message)
	if err != nil {
		return domain.Application{}, domain.Group{}, err
	}
	return app, g, nil
}

// ApplyWithGroup submits an application on behalf of an explicit group the
// session user belongs to.
func (a *App) ApplyWithGroup(ctx context.Context, s Session, eventID, groupID, message string) (domain.Application, error) {
	user := a.CurrentUser(s)
	if err := precheckApply(user, eventID); err != nil {
		return domain.Application{}, err
	}
	g, ok := domain.FindGroup(a.snap.Groups, groupID)
	if !ok {
		return domain.Application{}, ErrUnknownGroup
	}
	if !slices.Contains(g.MemberEmails, user.Email) {
		return domain.Application{}, ErrNotMember
	}
	return a.submit(ctx, user, g, nil, eventID, message)
}

func precheckApply(user *domain.User, eventID string) error {
	_, _, err := domain.ApplyToEvent(nil, user, eventID, "", "", domain.Stamp{})
	return err
}

// submit checks eligibility, then persists newGroups (non-nil when g was
// created for this application) followed by the application.
func (a *App) submit(ctx context.Context, user *domain.User, g domain.Group, newGroups []domain.Group, eventID, message string) (domain.Application, error) {
	var evt *domain.Event
	if e, ok := domain.FindEvent(a.snap.Events, eventID); ok {
		evt = &e
	}
	if err := a.eligible(evt, g, domain.Members(a.snap.Users, g)); err != nil {
		return domain.Application{}, err
	}
	apps, app, err := domain.ApplyToEvent(a.snap.Applications, user, eventID, g.ID, message, a.stamp())
	if err != nil {
		return domain.Application{}, err
	}
	if newGroups != nil {
		a.snap.Groups = newGroups
		store.Save(ctx, a.store, store.KeyGroups, a.snap.Groups)
		util.LoggerFromContext(ctx).Info("group created for application", "group_id", g.ID)
	}
	a.snap.Applications = apps
	store.Save(ctx, a.store, store.KeyApplications, a.snap.Applications)
	util.LoggerFromContext(ctx).Info("application submitted",
		"application_id", app.ID, "event_id", eventID, "group_id", g.ID, "event_known", evt != nil)
	return app, nil
}

// Discover returns the events visible under v.
func (a *App) Discover(v matching.View) []domain.Event {
	return matching.Resolve(a.snap.Events, v)
}

// Search runs a free-text query and returns the view carrying its picks.
func (a *App) Search(v matching.View, query string) (matching.View, []matching.Hit) {
	hits := matching.Search(a.snap.Events, query)
	v.Picks = matching.Events(hits)
	return v, hits
}

func (a *App) Users() []domain.User { return a.snap.Users }

func (a *App) Events() []domain.Event { return a.snap.Events }

func (a *App) Students() []domain.User { return domain.Students(a.snap.Users) }

// Invitable lists the students the session user may add to a group.
func (a *App) Invitable(s Session) []domain.User {
	return domain.OtherStudents(a.snap.Users, s.UserEmail)
}

func (a *App) MyGroups(s Session) []domain.Group {
	if a.CurrentUser(s) == nil {
		return []domain.Group{}
	}
	return domain.GroupsContaining(a.snap.Groups, s.UserEmail)
}

// MyApplications lists the applications of the session user's groups with
// placeholders for missing events and groups.
func (a *App) MyApplications(s Session) []domain.ApplicationSummary {
	if a.CurrentUser(s) == nil {
		return []domain.ApplicationSummary{}
	}
	visible := domain.ApplicationsVisibleTo(a.snap.Applications, a.snap.Groups, s.UserEmail)
	return domain.DescribeApplications(visible, a.snap.Events, a.snap.Groups)
}
