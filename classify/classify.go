// Package classify splits an object's properties into named and indexed
// sets and reports counts without materializing huge key sets.
//
// Two strategies exist: a kind-aware one that leans on the engine's
// filtered enumeration, and a fallback that enumerates every name once and
// classifies lexically. Select picks the strategy from the engine's probed
// capabilities; the choice is made once per session and used uniformly.
package classify

import (
	"github.com/dshills/varpage/mirror"
)

// Classifier reports named/indexed property information for a mirror.
type Classifier interface {
	// IndexedCount returns the number of indexed properties.
	IndexedCount(m mirror.Mirror) (int, error)

	// NamedCount returns the number of named properties.
	NamedCount(m mirror.Mirror) (int, error)

	// HasAtLeast reports whether the object has at least limit own
	// properties (named plus indexed), letting the engine short-circuit
	// instead of enumerating everything.
	HasAtLeast(m mirror.Mirror, limit int) (bool, error)

	// NamedNames returns the full list of named property names in
	// enumeration order. Named sets are assumed to be small.
	NamedNames(m mirror.Mirror) ([]string, error)

	// IndexedNames returns the object's indexed property names. The list
	// is bounded by the object's own property count, so callers can use
	// it to bound window scans.
	IndexedNames(m mirror.Mirror) ([]string, error)
}

// Select returns the classifier strategy for the probed capabilities.
// Missing the kind-filtered API is not an error; it silently selects the
// scanning fallback.
func Select(caps mirror.Capabilities) Classifier {
	if caps.KindFilteredEnumeration {
		return kindAware{}
	}
	return scanning{}
}

// IsIndex reports whether name is the canonical decimal form of a
// non-negative integer: "0", or a nonzero digit followed by digits.
// Leading zeros and signs disqualify it.
func IsIndex(name string) bool {
	if name == "" {
		return false
	}
	if name == "0" {
		return true
	}
	if name[0] < '1' || name[0] > '9' {
		return false
	}
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// kindAware uses the engine's kind-filtered, limit-aware enumeration.
type kindAware struct{}

func (kindAware) IndexedCount(m mirror.Mirror) (int, error) {
	names, err := m.PropertyNames(mirror.FilterIndexed, 0)
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

func (kindAware) NamedCount(m mirror.Mirror) (int, error) {
	names, err := m.PropertyNames(mirror.FilterNamed, 0)
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

func (kindAware) HasAtLeast(m mirror.Mirror, limit int) (bool, error) {
	// The limit is passed through so the engine stops enumerating as
	// soon as it has found limit names.
	names, err := m.PropertyNames(mirror.FilterAll, limit)
	if err != nil {
		return false, err
	}
	return len(names) >= limit, nil
}

func (kindAware) NamedNames(m mirror.Mirror) ([]string, error) {
	return m.PropertyNames(mirror.FilterNamed, 0)
}

func (kindAware) IndexedNames(m mirror.Mirror) ([]string, error) {
	return m.PropertyNames(mirror.FilterIndexed, 0)
}

// scanning enumerates all names once and classifies each lexically.
type scanning struct{}

// scan walks every own property name, splitting names into the named and
// indexed lists in one pass.
func (scanning) scan(m mirror.Mirror) (named, indexed []string, err error) {
	names, err := m.PropertyNames(mirror.FilterAll, 0)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range names {
		if IsIndex(name) {
			indexed = append(indexed, name)
		} else {
			named = append(named, name)
		}
	}
	return named, indexed, nil
}

func (s scanning) IndexedCount(m mirror.Mirror) (int, error) {
	_, indexed, err := s.scan(m)
	return len(indexed), err
}

func (s scanning) NamedCount(m mirror.Mirror) (int, error) {
	named, _, err := s.scan(m)
	return len(named), err
}

func (scanning) HasAtLeast(m mirror.Mirror, limit int) (bool, error) {
	names, err := m.PropertyNames(mirror.FilterAll, 0)
	if err != nil {
		return false, err
	}
	return len(names) >= limit, nil
}

func (s scanning) NamedNames(m mirror.Mirror) ([]string, error) {
	named, _, err := s.scan(m)
	return named, err
}

func (s scanning) IndexedNames(m mirror.Mirror) ([]string, error) {
	_, indexed, err := s.scan(m)
	return indexed, err
}
