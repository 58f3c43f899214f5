package memengine

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/dshills/varpage/mirror"
)

func TestMirrorResolution(t *testing.T) {
	eng := New(mirror.Capabilities{})
	obj := eng.NewObject("Object").Set("a", 1)

	m, err := eng.Mirror(obj.Handle())
	if err != nil {
		t.Fatalf("Mirror failed: %v", err)
	}
	if m.ClassName() != "Object" {
		t.Errorf("ClassName = %s, expected Object", m.ClassName())
	}

	if _, err := eng.Mirror(9999); !errors.Is(err, mirror.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown handle, got %v", err)
	}
}

func TestTransientHandlesAreNotResolvable(t *testing.T) {
	eng := New(mirror.Capabilities{})
	obj := eng.NewTransientObject("Object")

	if obj.Handle() >= 0 {
		t.Fatalf("transient handle %d is not negative", obj.Handle())
	}
	if _, err := eng.Mirror(obj.Handle()); !errors.Is(err, mirror.ErrNotFound) {
		t.Errorf("expected ErrNotFound for transient handle, got %v", err)
	}
}

func TestArrayProperties(t *testing.T) {
	eng := New(mirror.Capabilities{})
	arr := eng.NewArray("a", "b", "c").Set("tag", "letters")

	if arr.Kind() != mirror.KindArray {
		t.Errorf("Kind = %v, expected array", arr.Kind())
	}
	if arr.Length() != 3 {
		t.Errorf("Length = %d, expected 3", arr.Length())
	}

	elem, err := arr.Property("1")
	if err != nil {
		t.Fatalf("Property(1) failed: %v", err)
	}
	if elem.Value() != "b" {
		t.Errorf("element = %v, expected b", elem.Value())
	}

	tag, err := arr.Property("tag")
	if err != nil {
		t.Fatalf("Property(tag) failed: %v", err)
	}
	if tag.Value() != "letters" {
		t.Errorf("tag = %v, expected letters", tag.Value())
	}

	if _, err := arr.Property("7"); !errors.Is(err, mirror.ErrNoSuchProperty) {
		t.Errorf("expected ErrNoSuchProperty for out-of-range index, got %v", err)
	}
	if _, err := arr.Property("nope"); !errors.Is(err, mirror.ErrNoSuchProperty) {
		t.Errorf("expected ErrNoSuchProperty, got %v", err)
	}
}

func TestPropertyNamesFilters(t *testing.T) {
	eng := New(mirror.Capabilities{KindFilteredEnumeration: true})
	obj := eng.NewObject("Object").
		Set("0", "zero").
		Set("name", "n").
		Set("1", "one").
		Set("other", "o")

	tests := []struct {
		name     string
		filter   mirror.PropertyFilter
		limit    int
		expected []string
	}{
		{"all", mirror.FilterAll, 0, []string{"0", "name", "1", "other"}},
		{"named", mirror.FilterNamed, 0, []string{"name", "other"}},
		{"indexed", mirror.FilterIndexed, 0, []string{"0", "1"}},
		{"all limited", mirror.FilterAll, 2, []string{"0", "name"}},
		{"named limited", mirror.FilterNamed, 1, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := obj.PropertyNames(tt.filter, tt.limit)
			if err != nil {
				t.Fatalf("PropertyNames failed: %v", err)
			}
			if len(names) != len(tt.expected) {
				t.Fatalf("got %v, expected %v", names, tt.expected)
			}
			for i := range names {
				if names[i] != tt.expected[i] {
					t.Errorf("names[%d] = %s, expected %s", i, names[i], tt.expected[i])
				}
			}
		})
	}
}

func TestPropertyNamesFilterUnsupported(t *testing.T) {
	eng := New(mirror.Capabilities{})
	obj := eng.NewObject("Object").Set("a", 1)

	if _, err := obj.PropertyNames(mirror.FilterNamed, 0); !errors.Is(err, mirror.ErrFilterUnsupported) {
		t.Errorf("expected ErrFilterUnsupported, got %v", err)
	}
	if _, err := obj.PropertyNames(mirror.FilterAll, 0); err != nil {
		t.Errorf("FilterAll should always work, got %v", err)
	}
}

func TestIndexRange(t *testing.T) {
	eng := New(mirror.Capabilities{})
	elems := make([]any, 10)
	for i := range elems {
		elems[i] = i * 10
	}
	arr := eng.NewArray(elems...)

	got, err := arr.IndexRange(3, 4)
	if err != nil {
		t.Fatalf("IndexRange failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d elements, expected 4", len(got))
	}
	for i, m := range got {
		if m.Value() != (3+i)*10 {
			t.Errorf("element %d = %v, expected %d", i, m.Value(), (3+i)*10)
		}
	}

	// Ranges past the end clamp.
	got, err = arr.IndexRange(8, 5)
	if err != nil {
		t.Fatalf("IndexRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d elements, expected 2", len(got))
	}

	got, err = arr.IndexRange(20, 5)
	if err != nil {
		t.Fatalf("IndexRange failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d elements, expected 0", len(got))
	}

	// A count at the integer limit clamps instead of overflowing the
	// window end.
	got, err = arr.IndexRange(3, math.MaxInt)
	if err != nil {
		t.Fatalf("IndexRange failed: %v", err)
	}
	if len(got) != 7 {
		t.Errorf("got %d elements, expected 7", len(got))
	}
}

func TestEvaluateAndScopes(t *testing.T) {
	eng := New(mirror.Capabilities{})
	obj := eng.NewObject("Object").Set("a", 1)
	eng.Bind("obj", obj)

	m, err := eng.Evaluate("obj")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if m.Handle() != obj.Handle() {
		t.Errorf("Evaluate returned handle %d, expected %d", m.Handle(), obj.Handle())
	}
	if _, err := eng.Evaluate("missing"); err == nil {
		t.Error("expected error for unbound expression")
	}

	eng.SetScopes(0, []mirror.ScopeDescriptor{
		{Kind: mirror.ScopeLocal, Object: obj},
		{Kind: mirror.ScopeGlobal, Object: obj},
	})
	chain, err := eng.Scopes(0)
	if err != nil {
		t.Fatalf("Scopes failed: %v", err)
	}
	if len(chain) != 2 || chain[0].Kind != mirror.ScopeLocal {
		t.Errorf("unexpected scope chain: %+v", chain)
	}
	if _, err := eng.Scopes(5); err == nil {
		t.Error("expected error for unknown frame")
	}
}

func TestLargeArrayEnumerationLimit(t *testing.T) {
	eng := New(mirror.Capabilities{KindFilteredEnumeration: true})
	elems := make([]any, 5000)
	for i := range elems {
		elems[i] = i
	}
	arr := eng.NewArray(elems...)

	names, err := arr.PropertyNames(mirror.FilterAll, 100)
	if err != nil {
		t.Fatalf("PropertyNames failed: %v", err)
	}
	if len(names) != 100 {
		t.Fatalf("limit ignored: got %d names", len(names))
	}
	if names[99] != strconv.Itoa(99) {
		t.Errorf("names[99] = %s, expected 99", names[99])
	}
}
