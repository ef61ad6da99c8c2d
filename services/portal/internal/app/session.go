package app

// Session identifies the active user of one profile. It is a plain value:
// SignUp and Login return a new one, Logout returns Anonymous, and every other
// operation only reads it.
type Session struct {
	UserEmail string
}

func Anonymous() Session { return Session{} }

func (s Session) LoggedIn() bool { return s.UserEmail != "" }

// RestoreSession rebuilds the session persisted by the last run.
func (a *App) RestoreSession() Session {
	if a.snap.CurrentUserEmail == nil {
		return Anonymous()
	}
	return Session{UserEmail: *a.snap.CurrentUserEmail}
}
