package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// State is the lifecycle position of the session.
type State int

const (
	Uninitialized State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Snapshot is a consistent read of the session.
type Snapshot struct {
	State           State
	User            crmsdk.User
	Token           string
	IsAuthenticated bool
	IsInitialized   bool
}

// Credentials is the persistence the controller reads at startup and keeps
// in step with every transition.
type Credentials interface {
	Token(ctx context.Context) (string, bool)
	SetToken(ctx context.Context, token string) error
	User(ctx context.Context) (crmsdk.User, bool)
	SetUser(ctx context.Context, user crmsdk.User) error
	Clear(ctx context.Context)

	Remember(ctx context.Context, key, value string)
	Recall(ctx context.Context, key string) (string, bool)
	Forget(ctx context.Context, key string)
}

// Authenticator performs the login call.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*crmsdk.LoginResponse, error)
}

// Navigator moves the user to another route. For the console this is a
// hard redirect: whatever view was active is abandoned.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// fromKey holds the route a guarded redirect interrupted.
const fromKey = "login_from"

// Controller owns the session. All state changes go through install, which
// refuses to enter Authenticated without both a token and a user.
type Controller struct {
	creds  Credentials
	auth   Authenticator
	nav    Navigator
	logger *slog.Logger

	once sync.Once

	// writeMu serialises transitions so a stale 401 cannot interleave with
	// a login that is installing a new token.
	writeMu sync.Mutex

	mu        sync.RWMutex
	state     State
	token     string
	user      crmsdk.User
	listeners []func(Snapshot)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller in the Uninitialized state.
func New(creds Credentials, auth Authenticator, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		creds:  creds,
		auth:   auth,
		nav:    nav,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to run after every transition, in registration
// order. Listeners must not start another transition.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Hydrate reads persisted credentials and leaves Uninitialized. Only the
// first call does anything.
func (c *Controller) Hydrate(ctx context.Context) Snapshot {
	c.once.Do(func() {
		c.writeMu.Lock()
		defer c.writeMu.Unlock()

		token, hasToken := c.creds.Token(ctx)
		user, hasUser := c.creds.User(ctx)

		if hasToken && hasUser {
			c.install(Authenticated, token, user)
			c.logger.Debug("session restored", "user_id", user.ID, "role", user.Role)
			return
		}
		c.install(Anonymous, "", crmsdk.User{})
	})
	return c.Snapshot()
}

// Snapshot returns the current session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:           c.state,
		User:            c.user,
		Token:           c.token,
		IsAuthenticated: c.state == Authenticated,
		IsInitialized:   c.state != Uninitialized,
	}
}

// Ready reports whether authenticated reads may run.
func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == Authenticated
}

// Token returns the token of the installed session.
func (c *Controller) Token(context.Context) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// install is the single writer of session state.
func (c *Controller) install(state State, token string, user crmsdk.User) {
	if state == Authenticated && (token == "" || user.ID == "") {
		state, token, user = Anonymous, "", crmsdk.User{}
	}
	if state != Authenticated {
		token, user = "", crmsdk.User{}
	}

	c.mu.Lock()
	c.state = state
	c.token = token
	c.user = user
	snap := c.snapshotLocked()
	listeners := append([]func(Snapshot){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Login authenticates with the API, installs the returned session and
// persists it. On success the user is sent back to the route a guard
// redirect interrupted, or to the dashboard.
func (c *Controller) Login(ctx context.Context, email, password string) (crmsdk.User, error) {
	resp, err := c.auth.Login(ctx, email, password)
	if err != nil {
		lerr := newLoginError(err)
		c.logger.Info("login failed", "email", email, "status", lerr.StatusCode)
		return crmsdk.User{}, lerr
	}

	if err := c.SetSession(ctx, resp.Token, resp.User); err != nil {
		return crmsdk.User{}, &LoginError{Message: MsgLoginFailed, Err: err}
	}

	c.logger.Info("login succeeded", "user_id", resp.User.ID, "role", resp.User.Role)

	dest := DashboardRoute
	if from, ok := c.creds.Recall(ctx, fromKey); ok && from != LoginRoute && from != RootRoute {
		dest = from
	}
	c.creds.Forget(ctx, fromKey)
	c.nav.Navigate(ctx, dest)

	return resp.User, nil
}

// SetSession installs token and user and persists both. An empty token or
// user id is treated as a logout.
func (c *Controller) SetSession(ctx context.Context, token string, user crmsdk.User) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if token == "" || user.ID == "" {
		c.logout(ctx)
		return ErrIncompleteSession
	}

	if err := c.creds.SetToken(ctx, token); err != nil {
		c.logout(ctx)
		return err
	}
	if err := c.creds.SetUser(ctx, user); err != nil {
		c.logout(ctx)
		return err
	}

	c.install(Authenticated, token, user)
	return nil
}

// Logout drops the session and every persisted credential.
func (c *Controller) Logout(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.logout(ctx)
}

func (c *Controller) logout(ctx context.Context) {
	c.creds.Clear(ctx)
	c.install(Anonymous, "", crmsdk.User{})
}

// Expire handles a 401 returned for a request sent with tokenUsed. The
// session is cleared and the user sent to the login route, unless a
// different session was installed while the request was in flight.
func (c *Controller) Expire(ctx context.Context, tokenUsed string) bool {
	c.writeMu.Lock()
	c.mu.RLock()
	current := c.token
	c.mu.RUnlock()

	if current != "" && current != tokenUsed {
		c.writeMu.Unlock()
		c.logger.Debug("ignoring 401 for a replaced session")
		return false
	}

	c.logout(ctx)
	c.writeMu.Unlock()

	c.logger.Info("session rejected by server, signing out")
	c.nav.Navigate(ctx, LoginRoute)
	return true
}
