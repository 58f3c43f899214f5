package mirror

// ScopeKind is an explicit tag for the kind of a scope in a frame's scope
// chain, supplied by the engine adapter.
type ScopeKind int

const (
	// ScopeGlobal is the global scope, last in every chain.
	ScopeGlobal ScopeKind = iota
	// ScopeLocal holds a frame's local variables.
	ScopeLocal
	// ScopeWith is a with-statement scope.
	ScopeWith
	// ScopeClosure holds captured variables.
	ScopeClosure
	// ScopeCatch holds a catch-clause binding.
	ScopeCatch
	// ScopeBlock is a block scope.
	ScopeBlock
	// ScopeScript is a script-level scope.
	ScopeScript
)

var scopeKindNames = map[ScopeKind]string{
	ScopeGlobal:  "global",
	ScopeLocal:   "local",
	ScopeWith:    "with",
	ScopeClosure: "closure",
	ScopeCatch:   "catch",
	ScopeBlock:   "block",
	ScopeScript:  "script",
}

// String returns the scope kind name.
func (s ScopeKind) String() string {
	if name, ok := scopeKindNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the scope kind as its name.
func (s ScopeKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
