package mirror

import "errors"

// Engine boundary errors.
var (
	// ErrNotFound indicates a handle does not resolve to a live object.
	ErrNotFound = errors.New("mirror: object not found")

	// ErrNoSuchProperty indicates an object has no property with the
	// requested name.
	ErrNoSuchProperty = errors.New("mirror: no such property")

	// ErrFilterUnsupported indicates the engine cannot enumerate
	// property names filtered by kind.
	ErrFilterUnsupported = errors.New("mirror: kind-filtered enumeration not supported")

	// ErrNotSupported indicates the engine does not implement an
	// optional operation (evaluate, scopes).
	ErrNotSupported = errors.New("mirror: operation not supported by engine")
)
