package parser

import (
	"strings"
	"testing"

	"minicc/cst"
	"minicc/lexer"
)

func parseSrc(t *testing.T, src string) *cst.Node {
	t.Helper()
	p, err := New(lexer.New(strings.NewReader(src)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	unit, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return unit
}

func TestParseGlobalVarDecl(t *testing.T) {
	unit := parseSrc(t, "int a[2+3][4];")
	if len(unit.Children) != 1 {
		t.Fatalf("want 1 top-level decl, got %d", len(unit.Children))
	}
	decl := unit.Children[0]
	if decl.Kind != cst.KindVarDecl {
		t.Fatalf("want KindVarDecl, got %v", decl.Kind)
	}
	def := decl.Children[0]
	if def.Kind != cst.KindVarDef {
		t.Fatalf("want KindVarDef, got %v", def.Kind)
	}
	dims := def.Children[1]
	if dims.Kind != cst.KindArrayDimExprs || len(dims.Children) != 2 {
		t.Fatalf("want 2 dim exprs, got %v", dims)
	}
}

func TestParseFuncDefWithArrayParam(t *testing.T) {
	unit := parseSrc(t, "void f(int a[][4], int n) { return; }")
	if len(unit.Children) != 1 {
		t.Fatalf("want 1 top-level decl, got %d", len(unit.Children))
	}
	fn := unit.Children[0]
	if fn.Kind != cst.KindFuncDef || fn.Text != "void f" {
		t.Fatalf("want 'void f' funcdef, got %+v", fn)
	}
	params := fn.Children[0]
	if len(params.Children) != 2 {
		t.Fatalf("want 2 params, got %d", len(params.Children))
	}
	first := params.Children[0]
	dims := first.Children[1]
	if dims.Children[0] != nil {
		t.Fatalf("want nil first dim expr for unsized array param, got %v", dims.Children[0])
	}
}

func TestParseIfWhileAssignExpr(t *testing.T) {
	unit := parseSrc(t, `
int main() {
	int i;
	i = 0;
	while (i < 10) {
		if (i == 5) break; else continue;
	}
	return i + 1;
}`)
	fn := unit.Children[0]
	block := fn.Children[1]
	if len(block.Children) != 4 {
		t.Fatalf("want 4 block items, got %d: %+v", len(block.Children), block.Children)
	}
	if block.Children[0].Kind != cst.KindVarDecl {
		t.Fatalf("want var decl first, got %v", block.Children[0].Kind)
	}
	assign := block.Children[1]
	if assign.Kind != cst.KindAssignStmt {
		t.Fatalf("want assign stmt, got %v", assign.Kind)
	}
	wh := block.Children[2]
	if wh.Kind != cst.KindWhileStmt {
		t.Fatalf("want while stmt, got %v", wh.Kind)
	}
	ret := block.Children[3]
	if ret.Kind != cst.KindReturnStmt {
		t.Fatalf("want return stmt, got %v", ret.Kind)
	}
}

func TestParseExprStatementAndCall(t *testing.T) {
	unit := parseSrc(t, `
int f(int x) { return x; }
int main() { f(1+2*3); return 0; }
`)
	main := unit.Children[1]
	block := main.Children[1]
	exprStmt := block.Children[0]
	if exprStmt.Kind != cst.KindExprStmt {
		t.Fatalf("want expr stmt, got %v", exprStmt.Kind)
	}
	call := exprStmt.Children[0]
	if call.Kind != cst.KindCall || call.Text != "f" {
		t.Fatalf("want call to f, got %+v", call)
	}
}

func TestParseNestedArrayLVal(t *testing.T) {
	unit := parseSrc(t, `
int main() {
	int a[2][3];
	a[1][2] = 7;
	return 0;
}`)
	block := unit.Children[0].Children[1]
	assign := block.Children[1]
	lval := assign.Children[0]
	if lval.Kind != cst.KindLVal {
		t.Fatalf("want KindLVal, got %v", lval.Kind)
	}
	inner := lval.Children[0]
	if inner.Kind != cst.KindLVal {
		t.Fatalf("want nested KindLVal as base, got %v", inner.Kind)
	}
	if inner.Children[0].Kind != cst.KindIdent {
		t.Fatalf("want identifier at the base, got %v", inner.Children[0].Kind)
	}
}
