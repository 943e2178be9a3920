package hub

import "fmt"

// tooBusyError signals that the subscriber limit is reached (429 mapping).
type tooBusyError struct{ limit int }

func (e tooBusyError) Error() string { return fmt.Sprintf("too busy: %d subscribers", e.limit) }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}

// invalidKeyError reports a key path that cannot be published or subscribed.
type invalidKeyError struct{ reason string }

func (e invalidKeyError) Error() string { return "invalid key path: " + e.reason }

// ErrInvalidKey returns an error describing why a key path was rejected.
func ErrInvalidKey(reason string) error { return invalidKeyError{reason: reason} }

// IsInvalidKey reports whether err indicates a malformed key path.
func IsInvalidKey(err error) bool {
	_, ok := err.(invalidKeyError)
	return ok
}

// rootNotAllowedError signals a root outside the registry (403 mapping).
type rootNotAllowedError struct{ root string }

func (e rootNotAllowedError) Error() string { return "root not allowed: " + e.root }

// IsRootNotAllowed reports whether err indicates a root outside the registry.
func IsRootNotAllowed(err error) bool {
	_, ok := err.(rootNotAllowedError)
	return ok
}

// drainingError is returned once Drain has been called (503 mapping).
type drainingError struct{}

func (drainingError) Error() string { return "hub is draining" }

// IsDraining reports whether err was caused by a draining hub.
func IsDraining(err error) bool {
	_, ok := err.(drainingError)
	return ok
}
