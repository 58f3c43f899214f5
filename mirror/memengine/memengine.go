// Package memengine is an in-memory introspection engine over plain Go
// values. It exists for protocol testing and demos: object graphs are
// built programmatically, and the engine's optional capabilities are
// configurable so both classifier strategies can be exercised.
package memengine

import (
	"fmt"
	"strconv"

	"github.com/dshills/varpage/classify"
	"github.com/dshills/varpage/mirror"
)

// Engine is an in-memory mirror.Engine.
type Engine struct {
	caps          mirror.Capabilities
	objects       map[int]mirror.Mirror
	bindings      map[string]mirror.Mirror
	scopes        map[int][]mirror.ScopeDescriptor
	nextHandle    int
	nextTransient int
}

// New creates an empty engine reporting the given capabilities.
func New(caps mirror.Capabilities) *Engine {
	return &Engine{
		caps:          caps,
		objects:       make(map[int]mirror.Mirror),
		bindings:      make(map[string]mirror.Mirror),
		scopes:        make(map[int][]mirror.ScopeDescriptor),
		nextHandle:    1,
		nextTransient: -1,
	}
}

// Capabilities reports the capabilities the engine was created with.
func (e *Engine) Capabilities() mirror.Capabilities {
	return e.caps
}

// Mirror resolves a handle. Transient handles are never registered, so
// looking one up fails just as it would against a real engine.
func (e *Engine) Mirror(handle int) (mirror.Mirror, error) {
	m, ok := e.objects[handle]
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", handle, mirror.ErrNotFound)
	}
	return m, nil
}

// Evaluate resolves an expression against the engine's bindings. Only
// bound names evaluate; anything else fails.
func (e *Engine) Evaluate(expression string) (mirror.Mirror, error) {
	m, ok := e.bindings[expression]
	if !ok {
		return nil, fmt.Errorf("memengine: cannot evaluate %q: %w", expression, mirror.ErrNotFound)
	}
	return m, nil
}

// Scopes returns the scope chain registered for a frame.
func (e *Engine) Scopes(frame int) ([]mirror.ScopeDescriptor, error) {
	chain, ok := e.scopes[frame]
	if !ok {
		return nil, fmt.Errorf("memengine: no frame %d", frame)
	}
	return chain, nil
}

// Bind makes an expression evaluable.
func (e *Engine) Bind(expression string, m mirror.Mirror) {
	e.bindings[expression] = m
}

// SetScopes registers the scope chain for a frame.
func (e *Engine) SetScopes(frame int, chain []mirror.ScopeDescriptor) {
	e.scopes[frame] = chain
}

// Primitive wraps a Go value as a transient primitive mirror.
func (e *Engine) Primitive(v any) mirror.Mirror {
	return &primitive{handle: e.takeTransient(), value: v}
}

// NewObject creates an empty plain object with a stable handle.
func (e *Engine) NewObject(className string) *Object {
	o := e.newObject(className, mirror.KindObject, e.take())
	e.objects[o.handle] = o
	return o
}

// NewTransientObject creates a plain object with a negative handle that
// cannot be looked up later.
func (e *Engine) NewTransientObject(className string) *Object {
	o := e.newObject(className, mirror.KindObject, e.takeTransient())
	return o
}

// NewArray creates an array from the given element values. Values that
// are not already mirrors are wrapped as primitives.
func (e *Engine) NewArray(elems ...any) *Object {
	o := e.newObject("Array", mirror.KindArray, e.take())
	o.elems = e.wrapAll(elems)
	e.objects[o.handle] = o
	return o
}

// NewTransientArray creates an array with a negative handle.
func (e *Engine) NewTransientArray(elems ...any) *Object {
	o := e.newObject("Array", mirror.KindArray, e.takeTransient())
	o.elems = e.wrapAll(elems)
	return o
}

// NewOther creates a mirror of KindOther (function, proxy, ...).
func (e *Engine) NewOther(className string) *Object {
	o := e.newObject(className, mirror.KindOther, e.take())
	e.objects[o.handle] = o
	return o
}

func (e *Engine) newObject(className string, kind mirror.Kind, handle int) *Object {
	return &Object{
		engine:    e,
		handle:    handle,
		kind:      kind,
		className: className,
		props:     make(map[string]mirror.Mirror),
	}
}

func (e *Engine) take() int {
	h := e.nextHandle
	e.nextHandle++
	return h
}

func (e *Engine) takeTransient() int {
	h := e.nextTransient
	e.nextTransient--
	return h
}

func (e *Engine) wrap(v any) mirror.Mirror {
	if m, ok := v.(mirror.Mirror); ok {
		return m
	}
	return e.Primitive(v)
}

func (e *Engine) wrapAll(vs []any) []mirror.Mirror {
	out := make([]mirror.Mirror, len(vs))
	for i, v := range vs {
		out[i] = e.wrap(v)
	}
	return out
}

// Object is the concrete mirror for arrays, plain objects, and other
// non-primitive values.
type Object struct {
	engine    *Engine
	handle    int
	kind      mirror.Kind
	className string
	elems     []mirror.Mirror
	names     []string
	props     map[string]mirror.Mirror
}

// Set adds or replaces a property, preserving insertion order for new
// names. It returns the object for chaining.
func (o *Object) Set(name string, v any) *Object {
	if _, ok := o.props[name]; !ok {
		o.names = append(o.names, name)
	}
	o.props[name] = o.engine.wrap(v)
	return o
}

// Handle implements mirror.Mirror.
func (o *Object) Handle() int { return o.handle }

// Kind implements mirror.Mirror.
func (o *Object) Kind() mirror.Kind { return o.kind }

// ClassName implements mirror.Mirror.
func (o *Object) ClassName() string { return o.className }

// Length implements mirror.Mirror.
func (o *Object) Length() int {
	if o.kind != mirror.KindArray {
		return 0
	}
	return len(o.elems)
}

// Value implements mirror.Mirror.
func (o *Object) Value() any { return nil }

// Property implements mirror.Mirror.
func (o *Object) Property(name string) (mirror.Mirror, error) {
	if o.kind == mirror.KindArray && classify.IsIndex(name) {
		i, err := strconv.Atoi(name)
		if err == nil && i < len(o.elems) {
			return o.elems[i], nil
		}
	}
	if m, ok := o.props[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%q: %w", name, mirror.ErrNoSuchProperty)
}

// PropertyNames implements mirror.Mirror. Array element indexes come
// before named properties; plain objects enumerate in insertion order.
func (o *Object) PropertyNames(filter mirror.PropertyFilter, limit int) ([]string, error) {
	if filter != mirror.FilterAll && !o.engine.caps.KindFilteredEnumeration {
		return nil, mirror.ErrFilterUnsupported
	}

	var names []string
	add := func(name string) bool {
		names = append(names, name)
		return limit > 0 && len(names) >= limit
	}

	if filter != mirror.FilterNamed {
		for i := range o.elems {
			if add(strconv.Itoa(i)) {
				return names, nil
			}
		}
	}
	for _, name := range o.names {
		switch filter {
		case mirror.FilterNamed:
			if classify.IsIndex(name) {
				continue
			}
		case mirror.FilterIndexed:
			if !classify.IsIndex(name) {
				continue
			}
		}
		if add(name) {
			return names, nil
		}
	}
	return names, nil
}

// IndexRange implements mirror.RangeReader for arrays.
func (o *Object) IndexRange(start, count int) ([]mirror.Mirror, error) {
	if o.kind != mirror.KindArray {
		return nil, fmt.Errorf("memengine: %s mirror has no index range", o.kind)
	}
	if start < 0 || count < 0 {
		return nil, fmt.Errorf("memengine: invalid range [%d, %d)", start, start+count)
	}
	if start > len(o.elems) {
		return nil, nil
	}
	// Clamp count before computing the end so a huge count cannot
	// overflow past the array.
	if rest := len(o.elems) - start; count > rest {
		count = rest
	}
	return o.elems[start : start+count], nil
}

// primitive is a transient mirror over a plain value.
type primitive struct {
	handle int
	value  any
}

func (p *primitive) Handle() int       { return p.handle }
func (p *primitive) Kind() mirror.Kind { return mirror.KindPrimitive }
func (p *primitive) ClassName() string { return "" }
func (p *primitive) Length() int       { return 0 }
func (p *primitive) Value() any        { return p.value }

func (p *primitive) Property(name string) (mirror.Mirror, error) {
	return nil, fmt.Errorf("%q: %w", name, mirror.ErrNoSuchProperty)
}

func (p *primitive) PropertyNames(mirror.PropertyFilter, int) ([]string, error) {
	return nil, nil
}
