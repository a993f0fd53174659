package sym

import (
	"testing"

	"minicc/types"
)

func TestShadowingAcrossScopes(t *testing.T) {
	tbl := New()
	tbl.Insert(&Symbol{Name: "x", Kind: KindVar, Type: types.I32()})

	tbl.Push()
	tbl.Insert(&Symbol{Name: "x", Kind: KindVar, Type: types.PointerOf(types.I32())})

	inner, ok := tbl.Lookup("x")
	if !ok || !types.IsPointer(inner.Type) {
		t.Fatalf("want inner shadowing binding, got %+v", inner)
	}

	tbl.Pop()
	outer, ok := tbl.Lookup("x")
	if !ok || !types.IsI32(outer.Type) {
		t.Fatalf("want outer binding restored, got %+v", outer)
	}
}

func TestRedeclarationInSameScopeRejected(t *testing.T) {
	tbl := New()
	if !tbl.Insert(&Symbol{Name: "x", Kind: KindVar, Type: types.I32()}) {
		t.Fatalf("first insert should succeed")
	}
	if tbl.Insert(&Symbol{Name: "x", Kind: KindVar, Type: types.I32()}) {
		t.Fatalf("redeclaration in the same scope should be rejected")
	}
}

func TestUndeclaredLookup(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Lookup("missing"); ok {
		t.Fatalf("want undeclared identifier to fail lookup")
	}
}
