// Package primary defines the primary ports (driving interfaces) for the
// application. CLI commands and HTTP handlers depend on these interfaces,
// never on the service implementations directly.
package primary

import "errors"

// ErrValidation marks caller mistakes that are surfaced to the end user as
// an actionable message. Operations abort before any network call when a
// validation error is detected.
var ErrValidation = errors.New("validation failed")

// ErrNotConfigured marks a missing required setting. Operations
// short-circuit with an empty or failure result; this is a recoverable,
// user-visible state, not a crash.
var ErrNotConfigured = errors.New("not configured")
