package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"contesthub/pkg/csvexport"
	"contesthub/pkg/domain"
	"contesthub/pkg/matching"
	"contesthub/services/portal/internal/app"
)

const commandHelp = `  signup        create or update a profile and log in
  login         log in as an existing user
  logout        end the session
  whoami        show the logged-in user
  publish       publish an event (conductors)
  group         create a group
  apply         apply to an event
  events        list events; filter with -branch -city -team -fee, search with -q
  applications  list the applications of your groups
  students      list students
  export        export users|events|applications|me|filtered as CSV
`

var errUsage = errors.New("usage")

type cli struct {
	app     *app.App
	session app.Session
	out     io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: command required", errUsage)
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signup":
		return c.signup(ctx, rest)
	case "login":
		return c.login(ctx, rest)
	case "logout":
		c.session = c.app.Logout(ctx, c.session)
		fmt.Fprintln(c.out, "Logged out.")
		return nil
	case "whoami":
		return c.whoami()
	case "publish":
		return c.publish(ctx, rest)
	case "group":
		return c.group(ctx, rest)
	case "apply":
		return c.apply(ctx, rest)
	case "events":
		return c.events(rest)
	case "applications":
		return c.applications()
	case "students":
		return c.students(rest)
	case "export":
		return c.export(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := newFlagSet("signup")
	var u domain.User
	role := fs.String("role", string(domain.RoleStudent), "student or conductor")
	fs.StringVar(&u.Email, "email", "", "email (required)")
	fs.StringVar(&u.Name, "name", "", "full name")
	fs.StringVar(&u.Branch, "branch", "", "branch of study")
	fs.StringVar(&u.Year, "year", "", "year of study")
	fs.StringVar(&u.Institution, "institution", "", "institution")
	fs.StringVar(&u.City, "city", "", "city")
	fs.StringVar(&u.Contact, "contact", "", "contact details")
	fs.StringVar(&u.Password, "password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	switch domain.Role(*role) {
	case domain.RoleStudent, domain.RoleConductor:
		u.Role = domain.Role(*role)
	default:
		return fmt.Errorf("%w: role must be student or conductor", domain.ErrValidation)
	}
	s, user, err := c.app.SignUp(ctx, u)
	if err != nil {
		return err
	}
	c.session = s
	fmt.Fprintf(c.out, "Signed in as %s (%s).\n", user.Email, user.Role)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	s, user, err := c.app.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	c.session = s
	fmt.Fprintf(c.out, "Signed in as %s (%s).\n", user.Email, user.Role)
	return nil
}

func (c *cli) whoami() error {
	u := c.app.CurrentUser(c.session)
	if u == nil {
		fmt.Fprintln(c.out, "Not logged in.")
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "email\t%s\nname\t%s\nrole\t%s\nbranch\t%s\nyear\t%s\ninstitution\t%s\ncity\t%s\ncontact\t%s\n",
		u.Email, u.Name, u.Role, u.Branch, u.Year, u.Institution, u.City, u.Contact)
	return w.Flush()
}

func (c *cli) publish(ctx context.Context, args []string) error {
	draft := c.app.NewEventDraft(c.session)
	fs := newFlagSet("publish")
	fs.StringVar(&draft.Title, "title", "", "event title (required)")
	fs.StringVar(&draft.Description, "description", "", "description")
	branches := fs.String("branches", strings.Join(draft.Branches, ","), "comma-separated branches, or Open")
	fs.IntVar(&draft.TeamMin, "team-min", draft.TeamMin, "minimum team size")
	fs.IntVar(&draft.TeamMax, "team-max", draft.TeamMax, "maximum team size")
	fs.Float64Var(&draft.Fee, "fee", draft.Fee, "entry fee")
	fs.StringVar(&draft.Prize, "prize", "", "prize")
	fs.StringVar(&draft.Reason, "reason", "", "why participate")
	fs.StringVar(&draft.Contact, "contact", draft.Contact, "contact details")
	fs.StringVar(&draft.City, "city", draft.City, "city")
	fs.StringVar(&draft.Deadline, "deadline", "", "deadline (YYYY-MM-DD)")
	if err := parse(fs, args); err != nil {
		return err
	}
	draft.Branches = splitList(*branches)
	evt, err := c.app.PublishEvent(ctx, c.session, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Published %q (%s).\n", evt.Title, evt.ID)
	return nil
}

func (c *cli) group(ctx context.Context, args []string) error {
	fs := newFlagSet("group")
	name := fs.String("name", "", "group name (required)")
	members := fs.String("members", "", "comma-separated member emails")
	if err := parse(fs, args); err != nil {
		return err
	}
	g, err := c.app.CreateGroup(ctx, c.session, *name, splitList(*members))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Created group %q (%s) with %s.\n", g.Name, g.ID, strings.Join(g.MemberEmails, ", "))
	return nil
}

func (c *cli) apply(ctx context.Context, args []string) error {
	fs := newFlagSet("apply")
	eventID := fs.String("event", "", "event id (required)")
	groupID := fs.String("group", "", "apply as this group instead of your first one")
	message := fs.String("message", "", "message to the conductor")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *groupID != "" {
		a, err := c.app.ApplyWithGroup(ctx, c.session, *eventID, *groupID, *message)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Applied (%s).\n", a.ID)
		return nil
	}
	a, g, err := c.app.Apply(ctx, c.session, *eventID, *message)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Applied as %q (%s).\n", g.Name, a.ID)
	return nil
}

// viewFlags registers the discovery filters on fs and returns a builder for
// the resulting view.
func (c *cli) viewFlags(fs *flag.FlagSet) func() (matching.View, error) {
	branch := fs.String("branch", "", "branch, or any")
	city := fs.String("city", "", "city substring")
	team := fs.Int("team", 0, "team size that must fit")
	fee := fs.String("fee", "any", "any, free or paid")
	query := fs.String("q", "", "free-text search; overrides the filters when it matches")
	return func() (matching.View, error) {
		bucket, err := matching.ParseFeeBucket(*fee)
		if err != nil {
			return matching.View{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		v := matching.View{Filter: matching.Filter{Branch: *branch, City: *city, TeamSize: *team, Fee: bucket}}
		if strings.TrimSpace(*query) != "" {
			v, _ = c.app.Search(v, *query)
		}
		return v, nil
	}
}

func (c *cli) events(args []string) error {
	fs := newFlagSet("events")
	view := c.viewFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	v, err := view()
	if err != nil {
		return err
	}
	events := c.app.Discover(v)
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No events found.")
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCITY\tBRANCHES\tTEAM\tFEE\tDEADLINE")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d-%d\t%s\t%s\n",
			e.ID, e.Title, e.City, strings.Join(e.Branches, "|"), e.TeamMin, e.TeamMax, domain.FormatFee(e.Fee), e.Deadline)
	}
	return w.Flush()
}

func (c *cli) applications() error {
	if !c.session.LoggedIn() {
		return fmt.Errorf("%w: login required", domain.ErrNotAuthorized)
	}
	summaries := c.app.MyApplications(c.session)
	if len(summaries) == 0 {
		fmt.Fprintln(c.out, "No applications yet.")
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENT\tGROUP\tMESSAGE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.EventTitle, s.GroupName, s.Message)
	}
	return w.Flush()
}

func (c *cli) students(args []string) error {
	fs := newFlagSet("students")
	others := fs.Bool("others", false, "exclude yourself")
	if err := parse(fs, args); err != nil {
		return err
	}
	list := c.app.Students()
	if *others {
		list = c.app.Invitable(c.session)
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tBRANCH\tYEAR\tINSTITUTION")
	for _, u := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Email, u.Name, u.Branch, u.Year, u.Institution)
	}
	return w.Flush()
}

func (c *cli) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: export users|events|applications|me|filtered", errUsage)
	}
	var (
		f   csvexport.File
		err error
	)
	switch args[0] {
	case "users":
		f, err = c.app.ExportUsers()
	case "events":
		f, err = c.app.ExportEvents()
	case "applications":
		f, err = c.app.ExportApplications()
	case "me":
		f, err = c.app.ExportMyDetails(c.session)
	case "filtered":
		fs := newFlagSet("export filtered")
		view := c.viewFlags(fs)
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		v, verr := view()
		if verr != nil {
			return verr
		}
		f, err = c.app.ExportFiltered(v)
	default:
		return fmt.Errorf("%w: unknown export %q", errUsage, args[0])
	}
	if err != nil {
		return err
	}
	loc, err := c.app.Deliver(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %s to %s\n", f.Name, loc)
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
