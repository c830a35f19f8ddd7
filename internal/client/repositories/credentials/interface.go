// Package credentials persists the authenticated identity across restarts.
// It is the client-side analog of the browser's two session cookies: one
// slot for the username, one for the bearer token. Absence of either slot
// means "logged out".
package credentials

import "context"

type Repository interface {
	// Get returns the value of a slot, or "" when the slot is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
