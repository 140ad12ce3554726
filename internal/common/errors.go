// Package common defines shared constants and sentinel errors used across
// the client and server layers of Authgate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username is already in use")
	ErrEmailTaken    = errors.New("email is already registered")

	// Service-level errors (generic/internal flow control).
	ErrInternal    = errors.New("internal error")
	ErrRateLimited = errors.New("too many attempts")

	// Login errors. Keeping "user not found" and "invalid password"
	// distinguishable is a deliberate product decision carried over from the
	// original API surface.
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")

	// Auth errors. A malformed token, a bad signature, and an expired token
	// all collapse into ErrInvalidToken so the caller cannot probe which
	// check failed.
	ErrInvalidToken = errors.New("invalid or expired token")
)
