// Package common defines shared constants and sentinel errors used across
// the invoicer client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Auth errors.
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUnavailable        = errors.New("service unavailable")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Channel errors.
	ErrChannelClosed = errors.New("channel closed")

	// File action errors.
	ErrUnknownFile      = errors.New("unknown file")
	ErrActionNotAllowed = errors.New("action not allowed for file status")
	ErrUploadsDisabled  = errors.New("file upload is disabled for demo, run it locally")
)
