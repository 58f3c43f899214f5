package page

import (
	"github.com/dshills/varpage/classify"
	"github.com/dshills/varpage/mirror"
	"github.com/dshills/varpage/protocol"
)

// RefTrimmer filters the referenced-objects side-list attached to every
// response. It implements protocol.RefFilter.
//
// Arrays are never inlined here: the dehydrator/slicer path owns them.
// Large plain objects with stable handles are omitted because the client
// already has, or will fetch, a summary for them. Transient objects are
// the one exception: with no stable handle to slice against later, a
// transient object is serialized in full now even when large by count.
type RefTrimmer struct {
	cls classify.Classifier
}

// NewRefTrimmer creates a trimmer using the session's classifier.
func NewRefTrimmer(cls classify.Classifier) *RefTrimmer {
	return &RefTrimmer{cls: cls}
}

// Inline implements protocol.RefFilter.
func (t *RefTrimmer) Inline(m mirror.Mirror) bool {
	switch m.Kind() {
	case mirror.KindArray:
		return false
	case mirror.KindObject:
		if mirror.IsTransient(m.Handle()) {
			return true
		}
		large, err := t.cls.HasAtLeast(m, ChunkSize)
		if err != nil {
			// Counting failed; inlining is the correct, if slower,
			// behavior for an object of unknown size.
			return true
		}
		return !large
	default:
		return true
	}
}

// TrimScopes caps the locals embedded in each scope of a scopes response
// at maxLocals, keeping the first entries in original enumeration order.
// The last scope is the global scope by convention and is never trimmed,
// and only locals scopes are subject to the cap. When a scope is
// truncated, the response records the original count so the client can
// show that more locals exist. maxLocals <= 0 disables trimming.
func TrimScopes(body *protocol.ScopesBody, maxLocals int) {
	if body == nil || maxLocals <= 0 {
		return
	}
	for i := range body.Scopes {
		if i == len(body.Scopes)-1 {
			break
		}
		sc := &body.Scopes[i]
		if sc.Kind != mirror.ScopeLocal {
			continue
		}
		if len(sc.Locals) > maxLocals {
			body.TotalLocals = len(sc.Locals)
			sc.Locals = sc.Locals[:maxLocals]
		}
	}
}
