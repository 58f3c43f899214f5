package protocol

import (
	"encoding/json"

	"github.com/dshills/varpage/mirror"
)

// RefFilter decides, per mirror, whether the serializer inlines a full
// serialization into the refs side-list. Mirrors that are filtered out
// stay reachable by handle; the client resolves them lazily instead.
type RefFilter interface {
	Inline(m mirror.Mirror) bool
}

// Serializer turns responses into wire JSON. Non-primitive mirrors
// referenced from a body are emitted as {"ref": handle} and their full
// serialization is appended to the refs list, transitively, subject to
// the installed RefFilter.
type Serializer struct {
	filter RefFilter
}

// NewSerializer creates a serializer that inlines every referenced
// object, which is the legacy behavior before a filter is installed.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// SetRefFilter installs the reference-list filter. This is the hook point
// the trimmer attaches to.
func (s *Serializer) SetRefFilter(f RefFilter) {
	s.filter = f
}

// wireResponse is the envelope as it appears on the wire.
type wireResponse struct {
	Seq        int    `json:"seq"`
	Type       string `json:"type"`
	RequestSeq int    `json:"request_seq"`
	Command    string `json:"command"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Body       any    `json:"body,omitempty"`
	Refs       []any  `json:"refs"`
}

// Marshal serializes a response, reshaping mirrors in the body and
// collecting the referenced-object list.
func (s *Serializer) Marshal(resp *Response) ([]byte, error) {
	st := newWalker()
	out := wireResponse{
		Seq:        resp.Seq,
		Type:       resp.Type,
		RequestSeq: resp.RequestSeq,
		Command:    resp.Command,
		Success:    resp.Success,
		Message:    resp.Message,
		Body:       st.body(resp.Body),
		Refs:       []any{},
	}

	// Serializing a ref can discover further refs, so the queue grows
	// while we drain it.
	for i := 0; i < len(st.queue); i++ {
		m := st.queue[i]
		if s.filter != nil && !s.filter.Inline(m) {
			continue
		}
		out.Refs = append(out.Refs, st.full(m))
	}

	return json.Marshal(out)
}

// walker converts body values and accumulates referenced mirrors.
type walker struct {
	queue []mirror.Mirror
	seen  map[int]bool
}

func newWalker() *walker {
	return &walker{seen: make(map[int]bool)}
}

// body converts a typed response body for the wire. Top-level mirrors
// (evaluate results, lookup entries) serialize in full; nested mirrors
// become refs.
func (w *walker) body(body any) any {
	switch b := body.(type) {
	case nil:
		return nil
	case mirror.Mirror:
		return w.full(b)
	case SliceBody:
		return SliceBody{Result: w.namedValues(b.Result)}
	case *SliceBody:
		return SliceBody{Result: w.namedValues(b.Result)}
	case LookupBody:
		out := make(LookupBody, len(b))
		for k, v := range b {
			if m, ok := v.(mirror.Mirror); ok {
				out[k] = w.full(m)
			} else {
				out[k] = v
			}
		}
		return out
	case ScopesBody:
		return w.scopesBody(b)
	case *ScopesBody:
		return w.scopesBody(*b)
	default:
		return body
	}
}

func (w *walker) scopesBody(b ScopesBody) ScopesBody {
	out := ScopesBody{
		Scopes:      make([]Scope, len(b.Scopes)),
		TotalLocals: b.TotalLocals,
	}
	for i, sc := range b.Scopes {
		out.Scopes[i] = Scope{
			Kind:   sc.Kind,
			Index:  sc.Index,
			Locals: w.namedValues(sc.Locals),
		}
	}
	return out
}

func (w *walker) namedValues(in []NamedValue) []NamedValue {
	out := make([]NamedValue, len(in))
	for i, nv := range in {
		out[i] = NamedValue{Name: nv.Name, Value: w.value(nv.Value)}
	}
	return out
}

// value converts a nested value: primitives inline, objects become refs,
// anything that is not a mirror (summaries) passes through.
func (w *walker) value(v any) any {
	m, ok := v.(mirror.Mirror)
	if !ok {
		return v
	}
	if m.Kind() == mirror.KindPrimitive {
		return primitiveWire(m)
	}
	return w.ref(m)
}

// ref records a mirror for the refs list and returns its wire reference.
func (w *walker) ref(m mirror.Mirror) map[string]any {
	h := m.Handle()
	if !w.seen[h] {
		w.seen[h] = true
		w.queue = append(w.queue, m)
	}
	return map[string]any{"ref": h}
}

// full serializes a mirror with its complete property list. Children are
// inlined when primitive and referenced by handle otherwise.
func (w *walker) full(m mirror.Mirror) map[string]any {
	if m.Kind() == mirror.KindPrimitive {
		return primitiveWire(m)
	}

	out := map[string]any{
		"handle":    m.Handle(),
		"type":      "object",
		"className": m.ClassName(),
	}
	if m.Kind() == mirror.KindArray {
		out["length"] = m.Length()
	}

	names, err := m.PropertyNames(mirror.FilterAll, 0)
	if err != nil {
		// Serialization must produce a response on all paths; an
		// enumeration failure degrades to an empty property list.
		out["properties"] = []map[string]any{}
		return out
	}

	props := make([]map[string]any, 0, len(names))
	for _, name := range names {
		child, err := m.Property(name)
		if err != nil {
			continue
		}
		if child.Kind() == mirror.KindPrimitive {
			props = append(props, map[string]any{"name": name, "value": child.Value()})
			continue
		}
		props = append(props, map[string]any{"name": name, "ref": child.Handle()})
		if !w.seen[child.Handle()] {
			w.seen[child.Handle()] = true
			w.queue = append(w.queue, child)
		}
	}
	out["properties"] = props
	return out
}

// primitiveWire is the wire form of a primitive mirror.
func primitiveWire(m mirror.Mirror) map[string]any {
	v := m.Value()
	return map[string]any{"type": jsType(v), "value": v}
}

// jsType maps a Go primitive to its protocol type tag.
func jsType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return "number"
	default:
		return "object"
	}
}
