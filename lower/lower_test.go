package lower

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"minicc/ast"
	"minicc/ir"
	"minicc/lexer"
	"minicc/parser"
	"minicc/report"
)

func lowerSrc(t *testing.T, src string) (*ir.Module, *report.Log) {
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
	unit := ast.Build(root, log)
	if unit == nil {
		t.Fatalf("Build returned nil; diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}
	mod := Lower(unit, log)
	return mod, log
}

func kindCounts(instrs []*ir.Instruction) map[ir.InstrKind]int {
	counts := map[ir.InstrKind]int{}
	for _, in := range instrs {
		counts[in.Kind]++
	}
	return counts
}

func TestGlobalBSSAndInitializerLowering(t *testing.T) {
	mod, log := lowerSrc(t, "int z; int x = 3;")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}
	if len(mod.Globals) != 2 {
		t.Fatalf("want 2 globals, got %d", len(mod.Globals))
	}

	z, x := mod.Globals[0], mod.Globals[1]
	if z.Name != "z" || !z.InBSS() {
		t.Fatalf("want uninitialized BSS global z, got %# v", pretty.Formatter(z))
	}
	if x.Name != "x" || x.InBSS() || x.Init.Val != 3 {
		t.Fatalf("want non-BSS global x=3, got %# v", pretty.Formatter(x))
	}
}

func TestLocalArrayIndexCollapsesToSingleGEP(t *testing.T) {
	mod, log := lowerSrc(t, "int main() { int a[2][3]; a[1][2] = 7; return a[1][2]; }")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}

	fn := mod.Functions[0]
	counts := kindCounts(fn.Instrs)
	if counts[ir.GetElementPtr] != 2 {
		t.Fatalf("want one GEP for the store and one for the load, got %d: %# v", counts[ir.GetElementPtr], pretty.Formatter(fn.Instrs))
	}

	for _, in := range fn.Instrs {
		if in.Kind == ir.GetElementPtr && len(in.Operands) != 3 {
			t.Fatalf("want a GEP base + 2 indices, got %d operands: %# v", len(in.Operands), pretty.Formatter(in))
		}
	}
}

func TestArrayParamAddressLoadedBeforeIndexing(t *testing.T) {
	mod, log := lowerSrc(t, "int get(int a[][3], int i) { return a[i][1]; }")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}

	fn := mod.Functions[0]
	if len(fn.Instrs) == 0 || fn.Instrs[0].Kind != ir.Load {
		t.Fatalf("want the array parameter's incoming pointer loaded first, got %# v", pretty.Formatter(fn.Instrs))
	}
	if fn.Instrs[0].Operands[0].IRName() != "%a" {
		t.Fatalf("want the first load to read parameter a's slot, got %# v", pretty.Formatter(fn.Instrs[0]))
	}

	counts := kindCounts(fn.Instrs)
	if counts[ir.GetElementPtr] != 1 {
		t.Fatalf("want a single GEP for a[i][1], got %d", counts[ir.GetElementPtr])
	}
}

func TestShortCircuitAndLowersToBranchesNotALogicalOp(t *testing.T) {
	mod, log := lowerSrc(t, "int main() { int a; int b; a = 1; b = 0; if (a > 0 && b > 0) { return 1; } return 0; }")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}

	fn := mod.Functions[0]
	counts := kindCounts(fn.Instrs)

	if counts[ir.GtI] != 2 {
		t.Fatalf("want both comparisons lowered independently, got %d GtI", counts[ir.GtI])
	}
	if counts[ir.CondBr] != 2 {
		t.Fatalf("want the second comparison only reached through the first's true branch, got %d CondBr", counts[ir.CondBr])
	}
	if counts[ir.Label] != 3 {
		t.Fatalf("want the mid-evaluation, then, and join labels, got %d", counts[ir.Label])
	}
}

func TestWhileLoopWithBreakLowersToBranchesAndLabels(t *testing.T) {
	mod, log := lowerSrc(t, "int main() { int i; i = 0; while (i < 5) { if (i == 2) { break; } i = i + 1; } return i; }")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}

	fn := mod.Functions[0]
	counts := kindCounts(fn.Instrs)
	if counts[ir.CondBr] < 2 {
		t.Fatalf("want at least the loop guard and the if condition as CondBr, got %d", counts[ir.CondBr])
	}
	if counts[ir.Label] < 3 {
		t.Fatalf("want at least header/body/exit labels, got %d", counts[ir.Label])
	}

	sawBreakBranch := false
	for _, in := range fn.Instrs {
		if in.Kind == ir.Br && len(in.Labels) == 1 {
			sawBreakBranch = true
		}
	}
	if !sawBreakBranch {
		t.Fatalf("want break to lower to an unconditional branch, got %# v", pretty.Formatter(fn.Instrs))
	}
}

func TestVoidFunctionGetsImplicitBareReturn(t *testing.T) {
	mod, log := lowerSrc(t, "void f() { int x; x = 1; }")
	if log.HasErrors() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(log.Diagnostics()))
	}

	fn := mod.Functions[0]
	last := fn.Instrs[len(fn.Instrs)-1]
	if last.Kind != ir.Ret || len(last.Operands) != 0 {
		t.Fatalf("want an implicit bare ret, got %# v", pretty.Formatter(last))
	}
}

func TestCallToUndeclaredFunctionReportsNameError(t *testing.T) {
	_, log := lowerSrc(t, "int main() { return missing(); }")
	if !log.HasErrors() {
		t.Fatalf("want a diagnostic for the undeclared call")
	}
	found := false
	for _, d := range log.Diagnostics() {
		if d.Kind == report.NameError {
			found = true
		}
	}
	if !found {
		t.Fatalf("want NameError, got %# v", pretty.Formatter(log.Diagnostics()))
	}
}
