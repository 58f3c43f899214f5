package session

import (
	"sort"

	"github.com/dshills/varpage/protocol"
)

// Handler processes one request and always returns a response. Protocol
// failures are failure responses, never nil.
type Handler func(req *protocol.Request) *protocol.Response

// Registry maps command names to handlers. Requests are dispatched one
// at a time while the debuggee is paused, so no locking is needed;
// registration happens at session construction.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register sets the handler for a command, replacing any existing one.
func (r *Registry) Register(command string, h Handler) {
	r.handlers[command] = h
}

// Wrap replaces the handler for a command with mw(existing). It reports
// whether a handler was present to wrap; each wrapper is installed
// independently, so a missing delegate just means nothing to wrap.
func (r *Registry) Wrap(command string, mw func(Handler) Handler) bool {
	h, ok := r.handlers[command]
	if !ok {
		return false
	}
	r.handlers[command] = mw(h)
	return true
}

// Get returns the handler for a command, or nil.
func (r *Registry) Get(command string) Handler {
	return r.handlers[command]
}

// Has reports whether a command has a handler.
func (r *Registry) Has(command string) bool {
	_, ok := r.handlers[command]
	return ok
}

// List returns the registered command names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
