package session

import "errors"

// Session errors.
var (
	// ErrNoEngine indicates a session was configured without an engine.
	ErrNoEngine = errors.New("session: engine is required")
)
