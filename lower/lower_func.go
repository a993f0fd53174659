package lower

import (
	"minicc/ast"
	"minicc/ir"
	"minicc/report"
	"minicc/sym"
	"minicc/types"
)

// funcCtx carries the per-function lowering state: the function being
// built, and the stacks of labels `break`/`continue` must branch to for
// the loop they are lexically inside.
type funcCtx struct {
	l             *lowerer
	fn            *ir.Function
	breakStack    []string
	continueStack []string
}

func (l *lowerer) lowerFuncDef(n *ast.Node) {
	fn := ir.NewFunction(n.Name, n.Type)
	l.mod.AddFunction(fn)

	// Registered before the body is lowered so a recursive call to this
	// function resolves.
	l.syms.Insert(&sym.Symbol{Name: n.Name, Kind: sym.KindFunc, Type: n.Type, Value: fn})

	l.syms.Push()
	defer l.syms.Pop()

	fc := &funcCtx{l: l, fn: fn}

	params := n.Children[0]
	for _, p := range params.Children {
		local := ir.NewLocalVariable(p.Name, p.Type)
		fn.AddParam(local)
		l.syms.Insert(&sym.Symbol{Name: p.Name, Kind: sym.KindVar, Type: p.Type, Value: local})
	}

	fc.lowerBlock(n.Children[1])

	// A void function falls through to an implicit bare return if its
	// source omitted a trailing one.
	if types.IsVoid(n.Type) && !endsInReturn(fn) {
		fn.Emit(&ir.Instruction{Kind: ir.Ret})
	}
}

func endsInReturn(fn *ir.Function) bool {
	return len(fn.Instrs) > 0 && fn.Instrs[len(fn.Instrs)-1].Kind == ir.Ret
}

func (fc *funcCtx) lowerBlock(block *ast.Node) {
	fc.l.syms.Push()
	defer fc.l.syms.Pop()

	for _, stmt := range block.Children {
		fc.lowerStmt(stmt)
	}
}

func (fc *funcCtx) lowerStmt(n *ast.Node) {
	switch n.Op {
	case ast.OpBlock:
		fc.lowerBlock(n)

	case ast.OpDeclStmt:
		for _, decl := range n.Children {
			fc.lowerLocalVarDecl(decl)
		}

	case ast.OpIf:
		fc.lowerIf(n)

	case ast.OpWhile:
		fc.lowerWhile(n)

	case ast.OpBreak:
		if len(fc.breakStack) == 0 {
			fc.l.log.Add(report.ControlFlowError, n.Line, "break outside a loop")
			return
		}
		fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{fc.breakStack[len(fc.breakStack)-1]}})

	case ast.OpContinue:
		if len(fc.continueStack) == 0 {
			fc.l.log.Add(report.ControlFlowError, n.Line, "continue outside a loop")
			return
		}
		fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{fc.continueStack[len(fc.continueStack)-1]}})

	case ast.OpReturn:
		fc.lowerReturn(n)

	case ast.OpAssign:
		addr := fc.lowerLValue(n.Children[0])
		val := fc.lowerExprRValue(n.Children[1])
		fc.fn.Emit(&ir.Instruction{Kind: ir.Store, Typ: types.Void(), Operands: []ir.Value{val, addr}})

	case ast.OpExprStmt:
		if len(n.Children) > 0 {
			fc.lowerExprRValue(n.Children[0])
		}

	default:
		fc.l.log.Add(report.ShapeError, n.Line, "unexpected statement AST op %v", n.Op)
	}
}

func (fc *funcCtx) lowerReturn(n *ast.Node) {
	retType := fc.fn.RetType
	if len(n.Children) == 0 {
		if !types.IsVoid(retType) {
			fc.l.log.Add(report.TypeError, n.Line, "missing return value in non-void function %q", fc.fn.Name)
		}
		fc.fn.Emit(&ir.Instruction{Kind: ir.Ret})
		return
	}

	if types.IsVoid(retType) {
		fc.l.log.Add(report.TypeError, n.Line, "void function %q must not return a value", fc.fn.Name)
	}

	val := fc.lowerExprRValue(n.Children[0])
	fc.fn.Emit(&ir.Instruction{Kind: ir.Ret, Operands: []ir.Value{val}})
}

func (fc *funcCtx) lowerLocalVarDecl(decl *ast.Node) {
	local := ir.NewLocalVariable(decl.Name, decl.Type)
	fc.fn.AddLocal(local)
	fc.l.syms.Insert(&sym.Symbol{Name: decl.Name, Kind: sym.KindVar, Type: decl.Type, Value: local})

	if decl.HasInit {
		initExpr := decl.Children[len(decl.Children)-1]
		if initExpr.Op == ast.OpArrayInit {
			fc.l.log.Add(report.TypeError, decl.Line, "array initializers for local %q are not yet supported", decl.Name)
			return
		}
		val := fc.lowerExprRValue(initExpr)
		fc.fn.Emit(&ir.Instruction{Kind: ir.Store, Typ: types.Void(), Operands: []ir.Value{val, local}})
	}
}

// lowerIf emits the condition, branching to a then-label and either an
// else-label or the join label; each arm branches to the join label
// unless it already ended in a return.
func (fc *funcCtx) lowerIf(n *ast.Node) {
	thenLabel := fc.fn.NewLabel()
	joinLabel := fc.fn.NewLabel()

	elseLabel := joinLabel
	hasElse := len(n.Children) == 3
	if hasElse {
		elseLabel = fc.fn.NewLabel()
	}

	fc.lowerCond(n.Children[0], thenLabel, elseLabel)

	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: thenLabel})
	fc.lowerStmt(n.Children[1])
	if !endsInReturn(fc.fn) {
		fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{joinLabel}})
	}

	if hasElse {
		fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: elseLabel})
		fc.lowerStmt(n.Children[2])
		if !endsInReturn(fc.fn) {
			fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{joinLabel}})
		}
	}

	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: joinLabel})
}

// lowerWhile pushes its header and exit labels onto the continue/break
// stacks for the body's extent, per the lowering state machine.
func (fc *funcCtx) lowerWhile(n *ast.Node) {
	headerLabel := fc.fn.NewLabel()
	bodyLabel := fc.fn.NewLabel()
	exitLabel := fc.fn.NewLabel()

	fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{headerLabel}})
	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: headerLabel})
	fc.lowerCond(n.Children[0], bodyLabel, exitLabel)

	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: bodyLabel})
	fc.continueStack = append(fc.continueStack, headerLabel)
	fc.breakStack = append(fc.breakStack, exitLabel)

	fc.lowerStmt(n.Children[1])

	fc.continueStack = fc.continueStack[:len(fc.continueStack)-1]
	fc.breakStack = fc.breakStack[:len(fc.breakStack)-1]

	if !endsInReturn(fc.fn) {
		fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{headerLabel}})
	}
	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: exitLabel})
}
