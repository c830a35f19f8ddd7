package cli

import (
	"bufio"
	"context"
	"os"

	"invoicer/internal/client/authapi"
	"invoicer/internal/client/channel"
	"invoicer/internal/client/config"
	"invoicer/internal/client/dispatcher"
	"invoicer/internal/client/models"
	"invoicer/internal/client/registry"
	"invoicer/internal/client/session"
	"invoicer/internal/client/uploader"
	"invoicer/internal/filex"
	"invoicer/internal/logging"

	_ "modernc.org/sqlite"
)

// authService is the account surface App commands operate on.
// *session.Service is the production implementation.
type authService interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) error
	UpdatePassword(ctx context.Context, password string) error
	DeleteAccount(ctx context.Context) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
}

// App holds the wired client services plus the live channel components.
// The registry, dispatcher, and uploader exist only while a channel
// connection is open; between connections they are nil.
type App struct {
	config  *config.Config
	sess    *models.Session
	auth    authService
	manager *channel.Manager
	log     logging.Logger
	reader  *bufio.Reader

	reg  *registry.Registry
	disp *dispatcher.Dispatcher
	up   *uploader.Uploader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := session.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := authapi.NewHTTPClient(c.AuthEndpointURL)
	sess := &models.Session{}
	auth := session.NewService(api, db, sess, c.UsernameKey, c.TokenKey, log)

	return &App{
		config:  c,
		sess:    sess,
		auth:    auth,
		manager: channel.NewManager(c.ChannelURL, log),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores a previously saved session if one is still valid, opens the
// ingestion channel, and hands control to the REPL. It blocks until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.disconnect()

	vctx, cancel := context.WithTimeout(ctx, a.config.VerifyTimeout)
	restored, err := a.auth.Restore(vctx)
	cancel()
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}
	if restored {
		printlnFn("Welcome back,", a.sess.Username())
		if err := a.connect(ctx); err != nil {
			a.log.Warn(ctx, "channel connection failed", "error", err)
		}
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.sess.Authenticated()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	s := a.sess.Username()
	if a.manager.Current() == nil || a.manager.Current().IsClosed() {
		s += " offline"
	}
	return "(" + s + ")"
}

// connect dials the channel and builds the components that live on it.
// The initial list request primes the registry so per-file actions have
// status to check against.
func (a *App) connect(ctx context.Context) error {
	conn, err := a.manager.Open(ctx)
	if err != nil {
		return err
	}

	a.reg = registry.New(conn, a.sess, a.log)
	a.disp = dispatcher.New(conn, a.sess, a.reg, filex.DirSaver{Dir: a.config.DownloadDir}, a.log)
	a.up = uploader.New(conn, a.sess, a.config.UploadDisabled, a.log)

	a.reg.Refresh()
	return nil
}

func (a *App) disconnect() {
	_ = a.manager.Close()
	a.reg = nil
	a.disp = nil
	a.up = nil
}

// connected reports whether the channel components are usable.
func (a *App) connected() bool {
	return a.disp != nil && a.manager.Current() != nil && !a.manager.Current().IsClosed()
}
