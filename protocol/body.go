package protocol

import "github.com/dshills/varpage/mirror"

// SliceMode selects which property category a slice request pages.
type SliceMode string

const (
	// SliceNamed returns the full named property set.
	SliceNamed SliceMode = "named"
	// SliceIndexed returns a window of indexed properties.
	SliceIndexed SliceMode = "indexed"
	// SliceAll returns named properties followed by an indexed window.
	SliceAll SliceMode = "all"
)

// SliceArguments are the arguments for the slice command. Start and Count
// apply only to indexed properties; named sets are never paged.
type SliceArguments struct {
	Handle int       `json:"handle"`
	Mode   SliceMode `json:"mode"`
	Start  int       `json:"start,omitempty"`
	Count  int       `json:"count,omitempty"`
}

// NamedValue is one property of a slice result or scope: a name and its
// value. Value is a mirror until the serializer reshapes it for the wire.
type NamedValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// SliceBody is the response body for the slice command.
type SliceBody struct {
	Result []NamedValue `json:"result"`
}

// LookupArguments are the arguments for the lookup command.
type LookupArguments struct {
	Handles []int `json:"handles"`
}

// LookupBody maps each requested handle (as a decimal string) to its
// mirror or dehydrated summary.
type LookupBody map[string]any

// EvaluateArguments are the arguments for the evaluate command.
type EvaluateArguments struct {
	Expression string `json:"expression"`
}

// ScopesArguments are the arguments for the scopes command. MaxLocals
// caps how many locals are embedded per scope; zero means no cap.
type ScopesArguments struct {
	Frame     int `json:"frame"`
	MaxLocals int `json:"maxLocals,omitempty"`
}

// Scope is one entry of a scopes response. By convention the last scope
// in a response is the global scope.
type Scope struct {
	Kind   mirror.ScopeKind `json:"kind"`
	Index  int              `json:"index"`
	Locals []NamedValue     `json:"locals"`
}

// ScopesBody is the response body for the scopes command. TotalLocals is
// set to the original locals count when a scope was truncated, so the
// client can indicate that more locals exist.
type ScopesBody struct {
	Scopes      []Scope `json:"scopes"`
	TotalLocals int     `json:"vscode_locals,omitempty"`
}
