// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios, for example a missing
// user versus a duplicate registration, and translate them into the right
// HTTP status codes.
package repository

import "errors"

// ErrEmailExists is returned when registration attempts to reuse an email
// address that already has an account. Handlers should translate this into
// an HTTP 400 response for the registration path.
var ErrEmailExists = errors.New("email already in use")

// ErrNotFound is returned when a lookup by id, username or stored token
// matches no document. Handlers map it to 404 or, for token lookups on the
// session paths, to 403.
var ErrNotFound = errors.New("not found")
