// Package page implements large-object handling for the debug protocol:
// deciding when an object is too large to inline (dehydration), serving
// property windows on demand (slicing), and trimming reference lists and
// scope locals so responses stay bounded.
package page

import (
	"github.com/dshills/varpage/classify"
	"github.com/dshills/varpage/mirror"
)

// ChunkSize is the indexed-property threshold above which an object is
// summarized instead of inlined, and the page size clients are expected
// to fetch. Fixed by the protocol, not negotiable per session.
const ChunkSize = 100

// typedBufferClasses are the plain-object class names treated as paging
// candidates alongside arrays.
var typedBufferClasses = map[string]bool{
	"ArrayBuffer":       true,
	"Int8Array":         true,
	"Uint8Array":        true,
	"Uint8ClampedArray": true,
	"Int16Array":        true,
	"Uint16Array":       true,
	"Int32Array":        true,
	"Uint32Array":       true,
	"Float32Array":      true,
	"Float64Array":      true,
}

// IsTypedBufferClass reports whether a class name belongs to the fixed
// set of buffer/typed-array classes.
func IsTypedBufferClass(name string) bool {
	return typedBufferClasses[name]
}

// Summary is the compact replacement for a large object's property
// payload. The client re-fetches property windows via the slice command.
type Summary struct {
	Type         string `json:"type"`
	Handle       int    `json:"handle"`
	ClassName    string `json:"className"`
	NamedCount   int    `json:"vscode_namedCnt"`
	IndexedCount int    `json:"vscode_indexedCnt"`
}

// Dehydrator decides per object whether to inline it or summarize it.
type Dehydrator struct {
	cls classify.Classifier
}

// NewDehydrator creates a dehydrator using the session's classifier.
func NewDehydrator(cls classify.Classifier) *Dehydrator {
	return &Dehydrator{cls: cls}
}

// Dehydrate returns either the mirror unchanged or a *Summary replacing
// it. Only arrays and typed buffers are paging candidates, and only when
// their handle is stable: a transient object cannot be sliced later, so
// it stays inlined no matter how large it is.
func (d *Dehydrator) Dehydrate(m mirror.Mirror) (any, error) {
	named, indexed := -1, -1

	switch {
	case m.Kind() == mirror.KindArray:
		n, err := d.cls.NamedCount(m)
		if err != nil {
			return m, err
		}
		named = n
		indexed = m.Length()
	case m.Kind() == mirror.KindObject && IsTypedBufferClass(m.ClassName()):
		n, err := d.cls.NamedCount(m)
		if err != nil {
			return m, err
		}
		i, err := d.cls.IndexedCount(m)
		if err != nil {
			return m, err
		}
		named, indexed = n, i
	}

	if indexed > ChunkSize && !mirror.IsTransient(m.Handle()) {
		return &Summary{
			Type:         "object",
			Handle:       m.Handle(),
			ClassName:    m.ClassName(),
			NamedCount:   named,
			IndexedCount: indexed,
		}, nil
	}
	return m, nil
}
