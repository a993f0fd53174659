package ast

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"minicc/lexer"
	"minicc/parser"
	"minicc/report"
	"minicc/types"
)

func buildSrc(t *testing.T, src string) (*Node, *report.Log) {
	t.Helper()
	p, err := parser.New(lexer.New(strings.NewReader(src)))
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	log := &report.Log{}
	unit := Build(root, log)
	if unit == nil {
		t.Fatalf("Build returned nil; diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}
	return unit, log
}

func TestGlobalScalarInit(t *testing.T) {
	unit, log := buildSrc(t, "int x = 3;")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}
	decl := unit.Children[0].Children[0]
	if decl.Op != OpVarDecl || decl.Name != "x" {
		t.Fatalf("want VarDecl x, got %# v", pretty.Formatter(decl))
	}
	if !types.IsI32(decl.Type) {
		t.Fatalf("want i32 type, got %s", decl.Type)
	}
	init := decl.Children[len(decl.Children)-1]
	if init.Op != OpIntLit || init.IntVal != 3 {
		t.Fatalf("want literal init 3, got %# v", pretty.Formatter(init))
	}
}

func TestArrayDimFolding(t *testing.T) {
	unit, log := buildSrc(t, "int a[2+3][4];")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", log.Diagnostics())
	}
	decl := unit.Children[0].Children[0]
	if !types.IsArray(decl.Type) {
		t.Fatalf("want array type, got %s", decl.Type)
	}
	if got := types.DimString(decl.Type); got != "[5][4]" {
		t.Fatalf("want dim string [5][4], got %s", got)
	}

	// dims are stored outermost-first: dim0 folds to 5, dim1 to 4.
	dim0 := decl.Children[2]
	dim1 := decl.Children[3]
	if dim0.IntVal != 5 || dim1.IntVal != 4 {
		t.Fatalf("want folded dims 5,4, got %d,%d", dim0.IntVal, dim1.IntVal)
	}
	if dim0.Children[0].Op != OpIntLit {
		t.Fatalf("want folded dim replaced by a literal leaf, got %# v", pretty.Formatter(dim0.Children[0]))
	}
}

func TestUnfoldableDimension(t *testing.T) {
	unit, log := buildSrc(t, "int f(int n) { int a[n]; return 0; }")
	if !log.HasErrors() {
		t.Fatalf("want a dimension-error diagnostic, got none")
	}
	found := false
	for _, d := range log.Diagnostics() {
		if d.Kind == report.DimensionError {
			found = true
		}
	}
	if !found {
		t.Fatalf("want DimensionError, got %v", log.Diagnostics())
	}

	block := unit.Children[0].Children[1]
	decl := block.Children[0].Children[0]
	dim := decl.Children[2]
	if !dim.Unfoldable {
		t.Fatalf("want dim marked unfoldable")
	}
}

func TestZeroDimension(t *testing.T) {
	unit, log := buildSrc(t, "int a[0];")
	found := false
	for _, d := range log.Diagnostics() {
		if d.Kind == report.DimensionError {
			found = true
		}
	}
	if !found {
		t.Fatalf("want DimensionError, got %v", log.Diagnostics())
	}

	decl := unit.Children[0].Children[0]
	if !types.IsArray(decl.Type) {
		t.Fatalf("want array type, got %s", decl.Type)
	}
	if got := types.DimString(decl.Type); got != "[0]" {
		t.Fatalf("want dim string [0], got %s", got)
	}
}

func TestFuncFParamArrayType(t *testing.T) {
	unit, _ := buildSrc(t, "int f(int a[][3]) { return a[1][2]; }")
	fn := unit.Children[0]
	param := fn.Children[0].Children[0]
	want := "i32[3][0]*"
	if got := param.Type.String(); got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestLValueChainShape(t *testing.T) {
	unit, _ := buildSrc(t, "int main() { int a[2][3]; a[1][2] = 7; return 0; }")
	block := unit.Children[0].Children[1]
	assign := block.Children[1]
	if assign.Op != OpAssign {
		t.Fatalf("want assign, got %v", assign.Op)
	}
	outer := assign.Children[0]
	if outer.Op != OpArrayIndex {
		t.Fatalf("want ArrayIndex, got %v", outer.Op)
	}
	inner := outer.Children[0]
	if inner.Op != OpArrayIndex {
		t.Fatalf("want nested ArrayIndex, got %v", inner.Op)
	}
	if inner.Children[0].Op != OpIdent || inner.Children[0].Name != "a" {
		t.Fatalf("want identifier a at the base, got %# v", pretty.Formatter(inner.Children[0]))
	}
}

func TestLeftAssociativeExpressionChain(t *testing.T) {
	unit, _ := buildSrc(t, "int main() { return 1-2-3; }")
	ret := unit.Children[0].Children[1].Children[0]
	top := ret.Children[0]
	if top.Op != OpSub {
		t.Fatalf("want top-level Sub, got %v", top.Op)
	}
	left := top.Children[0]
	if left.Op != OpSub {
		t.Fatalf("want (1-2)-3 shape, got %# v", pretty.Formatter(top))
	}
	if left.Children[0].IntVal != 1 || left.Children[1].IntVal != 2 {
		t.Fatalf("want inner Sub(1,2), got %# v", pretty.Formatter(left))
	}
	if top.Children[1].IntVal != 3 {
		t.Fatalf("want outer rhs 3, got %# v", pretty.Formatter(top.Children[1]))
	}
}

func TestDeclStmtMultipleDeclarators(t *testing.T) {
	unit, _ := buildSrc(t, "int a, b[2];")
	decl := unit.Children[0]
	if decl.Op != OpDeclStmt || len(decl.Children) != 2 {
		t.Fatalf("want DeclStmt with 2 declarators, got %# v", pretty.Formatter(decl))
	}
	if decl.Children[0].Name != "a" || decl.Children[1].Name != "b" {
		t.Fatalf("want declarators a,b, got %s,%s", decl.Children[0].Name, decl.Children[1].Name)
	}
	// Each declarator must own a fresh, unshared type node.
	if decl.Children[0].Children[0] == decl.Children[1].Children[0] {
		t.Fatalf("want distinct type nodes per declarator")
	}
}
