// Package session implements the session store: the current authenticated
// identity plus its persistence across restarts. In-memory state and the
// persisted slots are updated together — atomically on the persistence
// side — so they never disagree while authenticated.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"invoicer/internal/client/authapi"
	"invoicer/internal/client/models"
	"invoicer/internal/client/repositories/credentials"
	"invoicer/internal/common"
	"invoicer/internal/dbx"
	"invoicer/internal/logging"
)

// Service owns the session lifecycle: login, register, password update,
// account deletion, logout, and restore-on-start.
type Service struct {
	api  authapi.Client
	db   *sql.DB
	sess *models.Session
	log  logging.Logger

	// Persisted slot names; configurable because deployments scope them
	// like cookie keys.
	usernameKey string
	tokenKey    string
}

func NewService(api authapi.Client, db *sql.DB, sess *models.Session, usernameKey, tokenKey string, log logging.Logger) *Service {
	return &Service{
		api:         api,
		db:          db,
		sess:        sess,
		log:         log,
		usernameKey: usernameKey,
		tokenKey:    tokenKey,
	}
}

// Session exposes the shared session handle for the channel-facing
// components.
func (s *Service) Session() *models.Session { return s.sess }

// Login exchanges credentials for a bearer token, persists the identity and
// updates the in-memory session. Empty username or password fails fast
// without touching the network.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return common.ErrMissingCredentials
	}

	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if token == "" {
		return fmt.Errorf("login error: %w", common.ErrUnauthorized)
	}

	if err := s.persist(ctx, username, token); err != nil {
		return fmt.Errorf("credentials saving error: %w", err)
	}
	s.sess.Set(username, token)
	return nil
}

// Register creates the account and then chains into Login so a successful
// registration leaves the user authenticated.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return common.ErrMissingCredentials
	}

	if err := s.api.Register(ctx, username, password); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return s.Login(ctx, username, password)
}

// UpdatePassword changes the password and rotates the bearer token.
func (s *Service) UpdatePassword(ctx context.Context, password string) error {
	if !s.sess.Authenticated() {
		return common.ErrNotAuthenticated
	}
	if password == "" {
		return common.ErrMissingCredentials
	}

	username := s.sess.Username()
	token, err := s.api.UpdatePassword(ctx, username, password, s.sess.Token())
	if err != nil {
		return fmt.Errorf("update password error: %w", err)
	}

	if err := s.persist(ctx, username, token); err != nil {
		return fmt.Errorf("credentials saving error: %w", err)
	}
	s.sess.Set(username, token)
	return nil
}

// DeleteAccount removes the account server-side and destroys the session.
func (s *Service) DeleteAccount(ctx context.Context) error {
	if !s.sess.Authenticated() {
		return common.ErrNotAuthenticated
	}

	if err := s.api.Delete(ctx, s.sess.Username(), s.sess.Token()); err != nil {
		return fmt.Errorf("delete account error: %w", err)
	}
	return s.clear(ctx)
}

// Logout destroys the session locally. The auth service keeps no
// server-side session state to invalidate.
func (s *Service) Logout(ctx context.Context) error {
	return s.clear(ctx)
}

// Restore loads the persisted slots and revalidates them: a structurally
// expired token is rejected locally, anything else is round-tripped through
// Verify. It reports whether an authenticated session was restored; failure
// to restore is a logged-out state, not an error.
func (s *Service) Restore(ctx context.Context) (bool, error) {
	repo := s.repo(s.db)

	username, err := repo.Get(ctx, s.usernameKey)
	if err != nil {
		return false, err
	}
	token, err := repo.Get(ctx, s.tokenKey)
	if err != nil {
		return false, err
	}
	if username == "" || token == "" {
		return false, nil
	}

	if tokenExpired(token, time.Now()) {
		s.log.Info(ctx, "persisted token expired, clearing session")
		return false, s.clear(ctx)
	}

	if err := s.api.Verify(ctx, token); err != nil {
		s.log.Info(ctx, "persisted token rejected, clearing session", "error", err)
		return false, s.clear(ctx)
	}

	s.sess.Set(username, token)
	return true, nil
}

func (s *Service) repo(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLiteRepository(db)
}

// persist writes both slots in one transaction so a crash can never leave
// a username without its token.
func (s *Service) persist(ctx context.Context, username, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, s.usernameKey, username); err != nil {
			return err
		}
		return repo.Set(ctx, s.tokenKey, token)
	})
}

func (s *Service) clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Clear(ctx)
	})
	s.sess.Clear()
	return err
}

// tokenExpired reports whether the JWT carries an exp claim in the past.
// The signature is not checked — that is the server's job — and tokens
// that do not parse as JWTs are left for Verify to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
