package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// AuthListener observes the authenticated flag.
type AuthListener func(authenticated bool)

// UserListener observes the current user snapshot.
type UserListener func(user *User)

// AuthSession owns the process-wide "who is logged in" state. It is
// constructed explicitly and injected into collaborators rather than
// reached through a package singleton, and it assumes the host's
// single-threaded, event-driven scheduling: one lifecycle operation in
// flight at a time, so no internal locking. Introducing a concurrent
// writer (background refresh, multi-tab sync) requires an explicit
// arbitration layer on top.
type AuthSession struct {
	api     APIClient
	store   SessionStore
	nav     Navigator
	logger  Logger
	machine *sessionStateMachine

	current  *User
	authSubs []AuthListener
	userSubs []UserListener
}

// NewAuthSession returns a session in the anonymous state. Call
// Bootstrap to reconstruct persisted state.
func NewAuthSession(api APIClient, store SessionStore) *AuthSession {
	return &AuthSession{
		api:     api,
		store:   store,
		nav:     noopNavigator{},
		logger:  defLogger{},
		machine: newSessionStateMachine(),
	}
}

// WithLogger overrides the session logger.
func (s *AuthSession) WithLogger(logger Logger) *AuthSession {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithNavigator sets the host navigation callback used by Logout.
func (s *AuthSession) WithNavigator(nav Navigator) *AuthSession {
	if nav != nil {
		s.nav = nav
	}
	return s
}

// OnAuthChange registers an observer for the authenticated flag.
// Every publication carries the full new value.
func (s *AuthSession) OnAuthChange(fn AuthListener) {
	if fn != nil {
		s.authSubs = append(s.authSubs, fn)
	}
}

// OnCurrentUser registers an observer for the current user. The
// snapshot is replaced wholesale on every publication; subscribers
// must not assume incremental diffs.
func (s *AuthSession) OnCurrentUser(fn UserListener) {
	if fn != nil {
		s.userSubs = append(s.userSubs, fn)
	}
}

// IsAuthenticated reports the current session status.
func (s *AuthSession) IsAuthenticated() bool {
	return s.machine.Current() == StatusAuthenticated
}

// CurrentUser returns the active user snapshot, nil when anonymous.
func (s *AuthSession) CurrentUser() *User {
	return s.current
}

// Status exposes the session status for host routing decisions.
func (s *AuthSession) Status() SessionStatus {
	return s.machine.Current()
}

// Bootstrap reconstructs session state from the store at process
// start. A missing or undecodable token fully clears the persisted
// triple and publishes an anonymous session. Bootstrap never issues
// network calls and never navigates; route policy stays with the host.
func (s *AuthSession) Bootstrap(ctx context.Context) error {
	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("bootstrap could not load persisted session: %v", err)
		return s.resetToAnonymous(ctx)
	}

	if state.Token == "" {
		return s.resetToAnonymous(ctx)
	}

	user, err := s.userFromToken(state.Token)
	if err != nil {
		s.logger.Info("bootstrap rejected persisted token: %v", err)
		return s.resetToAnonymous(ctx)
	}

	s.publishAuthenticated(user)
	return nil
}

// Login exchanges credentials for a bearer token and feeds it through
// the same decode-persist-publish path as Bootstrap. On a remote
// failure the session state is left exactly as it was.
func (s *AuthSession) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.logger.Error("login request failed: %v", err)
		return nil, err
	}

	if err := s.establish(ctx, resp.Token); err != nil {
		return nil, err
	}

	return resp, nil
}

// Register creates an account through the backend. It does not touch
// session state; the caller signs in through Login afterwards.
func (s *AuthSession) Register(ctx context.Context, req RegisterRequest) (*UserAccount, error) {
	if err := req.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}
	return s.api.Register(ctx, req)
}

// Logout clears the persisted triple, publishes the anonymous state
// and steers the host to the login route.
func (s *AuthSession) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("logout could not clear persisted session: %v", err)
	}
	s.publishAnonymous()
	s.nav.Navigate(RouteLogin)
}

// establish persists the token before publishing, so a subscriber
// observing the new user always sees it after the write completed.
func (s *AuthSession) establish(ctx context.Context, token string) error {
	user, err := s.userFromToken(token)
	if err != nil {
		s.logger.Error("issued token failed to decode: %v", err)
		_ = s.resetToAnonymous(ctx)
		return err
	}

	if err := s.store.Save(ctx, token, user); err != nil {
		return err
	}

	s.publishAuthenticated(user)
	return nil
}

func (s *AuthSession) userFromToken(token string) (*User, error) {
	claims, err := DecodePayload(token)
	if err != nil {
		return nil, err
	}
	return UserFromClaims(claims), nil
}

func (s *AuthSession) resetToAnonymous(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("could not clear persisted session: %v", err)
	}
	s.publishAnonymous()
	return nil
}

func (s *AuthSession) publishAuthenticated(user *User) {
	if err := s.machine.transition(StatusAuthenticated); err != nil {
		s.logger.Error("session transition rejected: %v", err)
		return
	}
	s.current = user
	s.notify(true, user)
}

func (s *AuthSession) publishAnonymous() {
	if err := s.machine.transition(StatusAnonymous); err != nil {
		s.logger.Error("session transition rejected: %v", err)
		return
	}
	s.current = nil
	s.notify(false, nil)
}

func (s *AuthSession) notify(authenticated bool, user *User) {
	for _, fn := range s.authSubs {
		fn(authenticated)
	}
	for _, fn := range s.userSubs {
		fn(user)
	}
}
