// Package mirror defines the boundary to the introspection engine.
//
// The engine owns the live object graph of the paused debuggee and exposes
// it through read-only Mirror views. Everything in this package is an
// interface or plain data; concrete implementations live in the engine
// adapter (see memengine for an in-memory one).
package mirror

// Kind classifies what a mirror reflects.
type Kind int

const (
	// KindOther covers mirrors that are neither values nor plain objects
	// (functions, proxies, engine internals).
	KindOther Kind = iota

	// KindPrimitive is a plain value: number, string, boolean, null.
	KindPrimitive

	// KindObject is a plain object, including typed buffers.
	KindObject

	// KindArray is an array with a reported length.
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "other"
	}
}

// PropertyFilter selects which property names an engine enumerates.
type PropertyFilter int

const (
	// FilterAll enumerates every own property name.
	FilterAll PropertyFilter = iota

	// FilterNamed enumerates only non-index string keys.
	FilterNamed

	// FilterIndexed enumerates only non-negative integer keys.
	FilterIndexed
)

// Mirror is a read-only view over a live object in the paused debuggee.
// Mirrors are owned by the engine; this layer only reads and reshapes
// their output.
type Mirror interface {
	// Handle returns the stable identifier for this mirror. Negative
	// handles are transient: the object cannot be looked up again later.
	Handle() int

	// Kind reports what this mirror reflects.
	Kind() Kind

	// ClassName returns the engine-reported class name ("Object",
	// "Array", "Uint8Array", ...). Empty for primitives.
	ClassName() string

	// Length returns the reported element count for arrays without
	// enumerating them. Zero for non-arrays.
	Length() int

	// Value returns the Go value for primitive mirrors, nil otherwise.
	Value() any

	// Property resolves a single own property by name.
	// Returns ErrNoSuchProperty if the object has no such property.
	Property(name string) (Mirror, error)

	// PropertyNames enumerates own property names. A filter other than
	// FilterAll requires Capabilities.KindFilteredEnumeration and fails
	// with ErrFilterUnsupported otherwise. A limit > 0 lets the engine
	// stop enumerating once limit names have been found.
	PropertyNames(filter PropertyFilter, limit int) ([]string, error)
}

// RangeReader is implemented by array mirrors whose engine can read a
// contiguous index range in a single call. The range slicer prefers this
// over per-index Property lookups.
type RangeReader interface {
	// IndexRange returns the elements [start, start+count). Ranges past
	// the end of the array are clamped.
	IndexRange(start, count int) ([]Mirror, error)
}

// Capabilities reports optional engine features, probed once when a
// session is constructed. Missing capabilities are expected environmental
// variation, not errors.
type Capabilities struct {
	// KindFilteredEnumeration is set when PropertyNames supports
	// FilterNamed/FilterIndexed with a short-circuiting limit.
	KindFilteredEnumeration bool
}

// Engine resolves handles to mirrors for the paused debuggee.
type Engine interface {
	// Mirror resolves a handle to a live mirror.
	// Returns ErrNotFound for unknown or expired handles.
	Mirror(handle int) (Mirror, error)

	// Capabilities reports which optional features this engine supports.
	Capabilities() Capabilities
}

// Evaluator is implemented by engines that can evaluate an expression in
// the context of the paused frame.
type Evaluator interface {
	Evaluate(expression string) (Mirror, error)
}

// ScopeLister is implemented by engines that expose the scope chain of a
// paused stack frame.
type ScopeLister interface {
	Scopes(frame int) ([]ScopeDescriptor, error)
}

// ScopeDescriptor describes one scope in a frame's scope chain. The
// engine adapter supplies the kind explicitly; by convention the global
// scope is last in the chain.
type ScopeDescriptor struct {
	// Kind is the scope kind tag.
	Kind ScopeKind

	// Object is the mirror whose properties are the scope's variables.
	Object Mirror
}

// IsTransient reports whether a handle denotes a transient object that
// cannot be looked up after the current response.
func IsTransient(handle int) bool {
	return handle < 0
}
