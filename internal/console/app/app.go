// Package app wires the console together: credential storage, the API
// client, the session controller and the query hooks built on it.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/aussiebroadwan/backoffice/internal/console/query"
	"github.com/aussiebroadwan/backoffice/internal/console/quotation"
	"github.com/aussiebroadwan/backoffice/internal/console/richtext"
	"github.com/aussiebroadwan/backoffice/internal/console/session"
	"github.com/aussiebroadwan/backoffice/pkg/credstore"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	credentialDBFile     = "credentials.db"
	credentialMirrorFile = "credentials.json"
)

// Application holds the console's long-lived dependencies. One instance
// serves a whole process.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Credential layers
	credDB   *credstore.SQLite
	mirror   *credstore.File
	creds    *credstore.Store
	sweeper  *credstore.Sweeper
	sweeping bool

	Client    *crmsdk.Client
	Session   *session.Controller
	Cache     *query.Cache
	Hooks     *query.Hooks
	Submitter *quotation.Submitter
	Editor    *richtext.PassthroughEditor
	Notices   query.Notifier
}

// Option customises the Application.
type Option func(*options)

type options struct {
	navigator session.Navigator
	notifier  query.Notifier
	transport http.RoundTripper
	logOutput io.Writer
}

// WithNavigator sets where session redirects go. Defaults to a navigator
// that only logs.
func WithNavigator(n session.Navigator) Option {
	return func(o *options) { o.navigator = n }
}

// WithNotifier sets where mutation notices go. Defaults to the logger.
func WithNotifier(n query.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithTransport replaces the base HTTP transport under the logging and rate
// limit layers.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// New creates an Application and restores any persisted session.
func New(ctx context.Context, cfg Config, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "backoffice",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  o.logOutput,
		}),
	}

	if err := app.initCredentials(); err != nil {
		return nil, err
	}

	if o.navigator == nil {
		o.navigator = logNavigator{logger: app.logger}
	}
	if o.notifier == nil {
		o.notifier = query.LogNotifier{Logger: app.logger}
	}

	app.initClient(o.transport)
	app.initSession(o.navigator)
	app.initQueries(o.notifier, o.navigator)

	snap := app.Session.Hydrate(ctx)
	app.logger.Debug("session hydrated", "state", snap.State.String(), "api", cfg.APIURL)

	return app, nil
}

// initCredentials opens the credential layers for the configured API origin.
func (app *Application) initCredentials() error {
	scope, err := Origin(app.cfg.APIURL)
	if err != nil {
		return err
	}

	db, err := credstore.OpenSQLite(filepath.Join(app.cfg.StateDir, credentialDBFile), scope)
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}
	app.credDB = db

	var sealer *cryptox.Sealer
	if app.cfg.CredentialKey != "" {
		sealer, err = cryptox.NewSealer(app.cfg.CredentialKey)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to initialize credential sealer: %w", err)
		}
	}
	app.mirror = credstore.NewFile(filepath.Join(app.cfg.StateDir, credentialMirrorFile), scope, sealer)

	app.creds = credstore.New(db,
		credstore.WithMirror(app.mirror),
		credstore.WithLogger(app.logger),
	)
	app.sweeper = credstore.NewSweeper(app.logger, app.cfg.SweepInterval, db, app.mirror)

	app.logger.Debug("credential store ready", "scope", scope, "sealed", sealer != nil)
	return nil
}

// initClient builds the API client: request logging over client-side rate
// limiting over the base transport.
func (app *Application) initClient(base http.RoundTripper) {
	limited := httpx.NewRateLimitTransport(base, app.cfg.RateLimit, httpx.HostKeyExtractor)

	client := crmsdk.NewClient(app.cfg.APIURL)
	client.HTTPClient = &http.Client{
		Timeout:   app.cfg.HTTPTimeout,
		Transport: slogx.NewTransport(limited, app.logger),
	}
	app.Client = client
}

// initSession creates the controller and hooks it into the client.
func (app *Application) initSession(nav session.Navigator) {
	ctrl := session.New(app.creds, app.Client, nav, session.WithLogger(app.logger))

	app.Client.Tokens = ctrl
	app.Client.OnUnauthorized = func(ctx context.Context, token string) {
		ctrl.Expire(ctx, token)
	}
	app.Session = ctrl
}

// initQueries builds the cache, the entity hooks and the quotation tooling.
// Signing out drops everything cached for the previous user.
func (app *Application) initQueries(notify query.Notifier, nav session.Navigator) {
	app.Cache = query.NewCache(app.Session, app.logger)
	app.Session.OnChange(func(s session.Snapshot) {
		if !s.IsAuthenticated {
			app.Cache.Reset()
		}
	})

	app.Notices = notify
	app.Hooks = query.NewHooks(app.Client, app.Cache, notify)

	app.Submitter = &quotation.Submitter{
		Store:     app.Hooks.Quotations,
		Navigator: nav,
		Logger:    app.logger,
	}

	app.Editor = &richtext.PassthroughEditor{}
	app.Editor.RegisterUploadHandler(richtext.NewSignatureHandler(app.Client, app.cfg.CMSURL))
}

func (app *Application) Logger() *slog.Logger { return app.logger }

func (app *Application) Config() Config { return app.cfg }

// Credentials exposes the persisted credential store.
func (app *Application) Credentials() *credstore.Store { return app.creds }

// LoadCatalog pulls the products and customers the quotation wizard picks
// from.
func (app *Application) LoadCatalog(ctx context.Context) (quotation.Catalog, error) {
	return quotation.LoadCatalog(ctx, app.Hooks.Products, app.Hooks.Clients)
}

// Start begins background credential housekeeping.
func (app *Application) Start() {
	if app.sweeping {
		return
	}
	app.sweeping = true
	app.sweeper.Start()
}

// Close stops housekeeping and releases the credential database.
func (app *Application) Close() error {
	if app.sweeping {
		app.sweeper.Stop()
		app.sweeping = false
	}

	if err := app.credDB.Close(); err != nil {
		app.logger.Error("error closing credential database", "error", err)
		return err
	}
	return nil
}

// logNavigator records redirects in the log when nothing can act on them.
type logNavigator struct {
	logger *slog.Logger
}

func (n logNavigator) Navigate(ctx context.Context, route string) {
	n.logger.InfoContext(ctx, "navigate", "route", route)
}
