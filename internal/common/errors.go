// Package common defines shared constants and sentinel errors used across
// the client layers of letterpress. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Auth errors. ErrAuthRequired means there is no usable session on the
	// client; ErrAuthRejected means the server answered 401/403.
	ErrAuthRequired = errors.New("authentication required")
	ErrAuthRejected = errors.New("session expired or unauthorized")

	// Transport errors.
	ErrNetworkFailure = errors.New("network failure")
	ErrTimeout        = errors.New("request timed out")

	// Local cache errors. Corrupt entries are discarded, never surfaced.
	ErrCacheCorrupt = errors.New("cache entry corrupt")

	// Editor errors.
	ErrSelectionInvalid     = errors.New("select text first")
	ErrReplaceUnrecoverable = errors.New("could not relocate selection")

	// Service-level errors.
	ErrSaveInProgress = errors.New("save already in progress")
	ErrInvalidImage   = errors.New("invalid image data received")
	ErrNotFound       = errors.New("not found")
)

// IsAuth reports whether err should send the user back to the login flow.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrAuthRejected)
}
