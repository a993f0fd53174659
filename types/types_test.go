package types

import "testing"

func TestInterning(t *testing.T) {
	a := PointerOf(PointerOf(I32()))
	b := PointerOf(PointerOf(I32()))

	if a != b {
		t.Fatalf("expected interned pointer types to share identity, got %p and %p", a, b)
	}

	c := ArrayOf(I32(), 4)
	d := ArrayOf(I32(), 4)
	if c != d {
		t.Fatalf("expected interned array types to share identity, got %p and %p", c, d)
	}

	e := ArrayOf(I32(), 5)
	if c == e {
		t.Fatal("expected arrays of different counts to be distinct types")
	}
}

func TestDimString(t *testing.T) {
	// int a[2+3][4] -> Array(Array(i32,4),5), dim string "[5][4]"
	ty := ArrayOf(ArrayOf(I32(), 4), 5)
	if got := DimString(ty); got != "[5][4]" {
		t.Fatalf("expected dim string [5][4], got %q", got)
	}
}

func TestArrayFirstDimZero(t *testing.T) {
	// int f(int a[][3]) -> Pointer(Array(Array(i32,3),0))
	inner := ArrayOf(I32(), 3)
	outer := ArrayOf(inner, 0)
	pt := PointerOf(outer)

	if !IsPointer(pt) {
		t.Fatal("expected pointer type")
	}
	elem := Pointee(pt)
	if !IsArray(elem) || Count(elem) != 0 {
		t.Fatal("expected outer array dimension of 0")
	}
}

func TestVoidAndI32Singletons(t *testing.T) {
	if Void() != Void() {
		t.Fatal("expected Void() to be a singleton")
	}
	if I32() != I32() {
		t.Fatal("expected I32() to be a singleton")
	}
	if !IsVoid(Void()) || !IsI32(I32()) {
		t.Fatal("predicate mismatch")
	}
}
