package page

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dshills/varpage/classify"
	"github.com/dshills/varpage/mirror"
	"github.com/dshills/varpage/protocol"
)

// Slicer serves one page of an object's properties.
type Slicer struct {
	engine mirror.Engine
	cls    classify.Classifier
}

// NewSlicer creates a slicer over the given engine and classifier.
func NewSlicer(engine mirror.Engine, cls classify.Classifier) *Slicer {
	return &Slicer{engine: engine, cls: cls}
}

// Slice resolves the handle and returns the requested property window.
// Named entries precede indexed entries in SliceAll mode; within each
// category enumeration order is preserved. Mirrors that have neither
// named nor indexed properties produce an empty result, not an error.
// An unknown handle fails with mirror.ErrNotFound; a negative start or
// count fails with ErrInvalidRange. Work is always bounded by the
// object's own property count, never by the requested window size.
func (s *Slicer) Slice(args protocol.SliceArguments) ([]protocol.NamedValue, error) {
	if args.Start < 0 || args.Count < 0 {
		return nil, fmt.Errorf("%w: start=%d count=%d", ErrInvalidRange, args.Start, args.Count)
	}
	m, err := s.engine.Mirror(args.Handle)
	if err != nil {
		return nil, err
	}

	result := []protocol.NamedValue{}

	if args.Mode == protocol.SliceNamed || args.Mode == protocol.SliceAll {
		if m.Kind() == mirror.KindArray || m.Kind() == mirror.KindObject {
			entries, err := s.named(m)
			if err != nil {
				return nil, err
			}
			result = append(result, entries...)
		}
	}

	if args.Mode == protocol.SliceIndexed || args.Mode == protocol.SliceAll {
		switch m.Kind() {
		case mirror.KindArray:
			entries, err := s.indexedArray(m, args.Start, args.Count)
			if err != nil {
				return nil, err
			}
			result = append(result, entries...)
		case mirror.KindObject:
			entries, err := s.indexedObject(m, args.Start, args.Count)
			if err != nil {
				return nil, err
			}
			result = append(result, entries...)
		}
	}

	return result, nil
}

// named returns the full named property set. Named sets are assumed to be
// bounded, so this branch never pages.
func (s *Slicer) named(m mirror.Mirror) ([]protocol.NamedValue, error) {
	names, err := s.cls.NamedNames(m)
	if err != nil {
		return nil, fmt.Errorf("enumerate named properties: %w", err)
	}
	entries := make([]protocol.NamedValue, 0, len(names))
	for _, name := range names {
		v, err := m.Property(name)
		if err != nil {
			continue
		}
		entries = append(entries, protocol.NamedValue{Name: name, Value: v})
	}
	return entries, nil
}

// indexedArray reads the window [start, start+count) through the
// engine's bulk range primitive when available. One bulk read instead of
// count single-property lookups is what keeps huge arrays cheap.
func (s *Slicer) indexedArray(m mirror.Mirror, start, count int) ([]protocol.NamedValue, error) {
	rr, ok := m.(mirror.RangeReader)
	if !ok {
		return s.indexedObject(m, start, count)
	}
	elems, err := rr.IndexRange(start, count)
	if err != nil {
		return nil, fmt.Errorf("read index range: %w", err)
	}
	entries := make([]protocol.NamedValue, 0, len(elems))
	for i, v := range elems {
		entries = append(entries, protocol.NamedValue{Name: strconv.Itoa(start + i), Value: v})
	}
	return entries, nil
}

// indexedObject resolves the numeric-string-keyed properties inside
// [start, start+count), in ascending index order. Objects without a bulk
// primitive (typed buffers) take this path. The object's indexed names
// are enumerated once and filtered against the window, so a huge count
// costs no more than the object's own property count.
func (s *Slicer) indexedObject(m mirror.Mirror, start, count int) ([]protocol.NamedValue, error) {
	names, err := s.cls.IndexedNames(m)
	if err != nil {
		return nil, fmt.Errorf("enumerate indexed properties: %w", err)
	}

	idxs := make([]int, 0, len(names))
	for _, name := range names {
		i, err := strconv.Atoi(name)
		if err != nil || i < start || i-start >= count {
			continue
		}
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	entries := make([]protocol.NamedValue, 0, len(idxs))
	for _, i := range idxs {
		name := strconv.Itoa(i)
		v, err := m.Property(name)
		if err != nil {
			continue
		}
		entries = append(entries, protocol.NamedValue{Name: name, Value: v})
	}
	return entries, nil
}
