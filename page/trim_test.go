package page_test

import (
	"strconv"
	"testing"

	"github.com/dshills/varpage/classify"
	"github.com/dshills/varpage/mirror"
	"github.com/dshills/varpage/mirror/memengine"
	"github.com/dshills/varpage/page"
	"github.com/dshills/varpage/protocol"
)

func newTrimmer(t *testing.T) (*memengine.Engine, *page.RefTrimmer) {
	t.Helper()
	eng := memengine.New(mirror.Capabilities{KindFilteredEnumeration: true})
	return eng, page.NewRefTrimmer(classify.Select(eng.Capabilities()))
}

func objectWithProps(eng *memengine.Engine, transient bool, n int) *memengine.Object {
	var obj *memengine.Object
	if transient {
		obj = eng.NewTransientObject("Object")
	} else {
		obj = eng.NewObject("Object")
	}
	for i := 0; i < n; i++ {
		obj.Set("p"+strconv.Itoa(i), i)
	}
	return obj
}

func TestRefTrimmerInline(t *testing.T) {
	eng, trim := newTrimmer(t)

	tests := []struct {
		name     string
		m        mirror.Mirror
		expected bool
	}{
		{"array", eng.NewArray(1, 2, 3), false},
		{"large array", makeArray(eng, 500), false},
		{"empty object", objectWithProps(eng, false, 0), true},
		{"small object", objectWithProps(eng, false, 99), true},
		{"object at threshold", objectWithProps(eng, false, 100), false},
		{"large object", objectWithProps(eng, false, 250), false},
		{"transient small object", objectWithProps(eng, true, 5), true},
		{"transient large object", objectWithProps(eng, true, 250), true},
		{"primitive", eng.Primitive("x"), true},
		{"other", eng.NewOther("Function"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trim.Inline(tt.m); got != tt.expected {
				t.Errorf("Inline() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func locals(n int) []protocol.NamedValue {
	out := make([]protocol.NamedValue, n)
	for i := range out {
		out[i] = protocol.NamedValue{Name: "v" + strconv.Itoa(i), Value: i}
	}
	return out
}

func TestTrimScopesTruncatesLocals(t *testing.T) {
	body := protocol.ScopesBody{Scopes: []protocol.Scope{
		{Kind: mirror.ScopeLocal, Index: 0, Locals: locals(50)},
		{Kind: mirror.ScopeGlobal, Index: 1, Locals: locals(200)},
	}}

	page.TrimScopes(&body, 10)

	if len(body.Scopes[0].Locals) != 10 {
		t.Fatalf("locals = %d, expected 10", len(body.Scopes[0].Locals))
	}
	// The first entries survive in original enumeration order.
	for i, nv := range body.Scopes[0].Locals {
		if nv.Name != "v"+strconv.Itoa(i) {
			t.Errorf("locals[%d] = %s, expected v%d", i, nv.Name, i)
		}
	}
	if body.TotalLocals != 50 {
		t.Errorf("TotalLocals = %d, expected 50", body.TotalLocals)
	}
	// The global scope is never trimmed.
	if len(body.Scopes[1].Locals) != 200 {
		t.Errorf("global scope was trimmed to %d", len(body.Scopes[1].Locals))
	}
}

func TestTrimScopesUnderCap(t *testing.T) {
	body := protocol.ScopesBody{Scopes: []protocol.Scope{
		{Kind: mirror.ScopeLocal, Index: 0, Locals: locals(5)},
		{Kind: mirror.ScopeGlobal, Index: 1, Locals: locals(3)},
	}}

	page.TrimScopes(&body, 10)

	if len(body.Scopes[0].Locals) != 5 {
		t.Errorf("locals = %d, expected 5", len(body.Scopes[0].Locals))
	}
	if body.TotalLocals != 0 {
		t.Errorf("TotalLocals = %d, expected 0", body.TotalLocals)
	}
}

func TestTrimScopesOnlyLocalsScopes(t *testing.T) {
	body := protocol.ScopesBody{Scopes: []protocol.Scope{
		{Kind: mirror.ScopeClosure, Index: 0, Locals: locals(40)},
		{Kind: mirror.ScopeLocal, Index: 1, Locals: locals(40)},
		{Kind: mirror.ScopeGlobal, Index: 2, Locals: locals(40)},
	}}

	page.TrimScopes(&body, 10)

	if len(body.Scopes[0].Locals) != 40 {
		t.Errorf("closure scope was trimmed")
	}
	if len(body.Scopes[1].Locals) != 10 {
		t.Errorf("locals scope not trimmed: %d", len(body.Scopes[1].Locals))
	}
	if len(body.Scopes[2].Locals) != 40 {
		t.Errorf("global scope was trimmed")
	}
	if body.TotalLocals != 40 {
		t.Errorf("TotalLocals = %d, expected 40", body.TotalLocals)
	}
}

func TestTrimScopesLastScopeExempt(t *testing.T) {
	// Even a locals scope is exempt when it is last in the chain.
	body := protocol.ScopesBody{Scopes: []protocol.Scope{
		{Kind: mirror.ScopeLocal, Index: 0, Locals: locals(40)},
	}}

	page.TrimScopes(&body, 10)

	if len(body.Scopes[0].Locals) != 40 {
		t.Errorf("sole scope was trimmed")
	}
	if body.TotalLocals != 0 {
		t.Errorf("TotalLocals = %d, expected 0", body.TotalLocals)
	}
}

func TestTrimScopesDisabled(t *testing.T) {
	body := protocol.ScopesBody{Scopes: []protocol.Scope{
		{Kind: mirror.ScopeLocal, Index: 0, Locals: locals(40)},
		{Kind: mirror.ScopeGlobal, Index: 1, Locals: locals(3)},
	}}

	page.TrimScopes(&body, 0)

	if len(body.Scopes[0].Locals) != 40 {
		t.Errorf("trimming ran with maxLocals = 0")
	}
	page.TrimScopes(nil, 10)
}
