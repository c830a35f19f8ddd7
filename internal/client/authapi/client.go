// Package authapi implements the HTTP contract of the external auth
// service. All five operations hit the same endpoint URL and are
// distinguished by HTTP method; bodies are JSON both ways.
package authapi

import "context"

// Client defines the auth-service operations used by the session store.
//
// Contract:
//   - Register: create an account (PUT).
//   - Login: exchange credentials for a bearer token (POST).
//   - Verify: check that a previously issued token is still accepted (POST).
//   - UpdatePassword: change the password, rotating the token (PATCH).
//   - Delete: remove the account (DELETE).
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Verify(ctx context.Context, token string) error
	UpdatePassword(ctx context.Context, username, password, token string) (string, error)
	Delete(ctx context.Context, username, token string) error
}
