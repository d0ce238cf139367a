// Package contextkeys holds the typed keys stored on request contexts.
package contextkeys

// Key is the type for context keys to prevent collisions
type Key string

const (
	// ActorKey contains access.Actor
	// Set by: middleware.Auth
	// Used by: every handler that calls a service on behalf of the caller
	ActorKey Key = "actor"

	// RequestIDKey contains the request id string (UUID)
	// Set by: middleware.RequestID
	// Used by: the request logger
	RequestIDKey Key = "request_id"
)
