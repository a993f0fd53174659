package lower

import (
	"strings"

	"minicc/ast"
	"minicc/ir"
	"minicc/report"
	"minicc/types"
)

var arithKind = map[ast.Op]ir.InstrKind{
	ast.OpAdd: ir.AddI, ast.OpSub: ir.SubI, ast.OpMul: ir.MulI, ast.OpDiv: ir.DivI, ast.OpMod: ir.ModI,
}

var cmpKind = map[ast.Op]ir.InstrKind{
	ast.OpLt: ir.LtI, ast.OpGt: ir.GtI, ast.OpLe: ir.LeI, ast.OpGe: ir.GeI, ast.OpEq: ir.EqI, ast.OpNe: ir.NeI,
}

// lowerExprRValue lowers n and returns the Value a later instruction can
// read as an operand, emitting whatever instructions are needed to
// compute it.
func (fc *funcCtx) lowerExprRValue(n *ast.Node) ir.Value {
	switch n.Op {
	case ast.OpIntLit:
		return ir.NewConstInt(int64(n.IntVal))

	case ast.OpIdent:
		return fc.lowerIdentRValue(n)

	case ast.OpArrayIndex:
		addr := fc.lowerArrayElementAddress(n)
		elemType := types.Pointee(addr.Type())
		return fc.fn.Emit(&ir.Instruction{Kind: ir.Load, Name: fc.fn.NewTemp(), Typ: elemType, Operands: []ir.Value{addr}})

	case ast.OpCall:
		return fc.lowerCall(n)

	case ast.OpNeg:
		v := fc.lowerExprRValue(n.Children[0])
		return fc.fn.Emit(&ir.Instruction{Kind: ir.SubI, Name: fc.fn.NewTemp(), Typ: types.I32(), Operands: []ir.Value{ir.NewConstInt(0), v}})

	case ast.OpNot, ast.OpAnd, ast.OpOr:
		// The instruction set has no logical and/or/not opcode: these
		// always materialize through branches.
		return fc.lowerBoolRValue(n)

	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		lhs := fc.lowerExprRValue(n.Children[0])
		rhs := fc.lowerExprRValue(n.Children[1])
		return fc.fn.Emit(&ir.Instruction{Kind: arithKind[n.Op], Name: fc.fn.NewTemp(), Typ: types.I32(), Operands: []ir.Value{lhs, rhs}})

	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe, ast.OpEq, ast.OpNe:
		lhs := fc.lowerExprRValue(n.Children[0])
		rhs := fc.lowerExprRValue(n.Children[1])
		return fc.fn.Emit(&ir.Instruction{Kind: cmpKind[n.Op], Name: fc.fn.NewTemp(), Typ: types.I32(), Operands: []ir.Value{lhs, rhs}})

	default:
		fc.l.log.Add(report.ShapeError, n.Line, "unexpected expression AST op %v", n.Op)
		return ir.NewConstInt(0)
	}
}

// lowerIdentRValue loads a scalar variable's value, or decays an array
// variable to the pointer its slot already represents. A local/global
// array's own address IS that pointer; an array parameter's slot holds
// one incoming pointer value that must be loaded once to read it.
func (fc *funcCtx) lowerIdentRValue(n *ast.Node) ir.Value {
	s, ok := fc.l.syms.Lookup(n.Name)
	if !ok {
		fc.l.log.Add(report.NameError, n.Line, "undeclared identifier %q", n.Name)
		return ir.NewConstInt(0)
	}
	if _, isFn := s.Value.(*ir.Function); isFn {
		fc.l.log.Add(report.TypeError, n.Line, "function %q used as a value", n.Name)
		return ir.NewConstInt(0)
	}

	addr, slotType := addrAndSlotType(s.Value)
	if types.IsArray(slotType) {
		return addr
	}
	return fc.fn.Emit(&ir.Instruction{Kind: ir.Load, Name: fc.fn.NewTemp(), Typ: slotType, Operands: []ir.Value{addr}})
}

// lowerLValue resolves n to the address an assignment should store
// through, or an index chain should GEP from.
func (fc *funcCtx) lowerLValue(n *ast.Node) ir.Value {
	switch n.Op {
	case ast.OpIdent:
		s, ok := fc.l.syms.Lookup(n.Name)
		if !ok {
			fc.l.log.Add(report.NameError, n.Line, "undeclared identifier %q", n.Name)
			return ir.NewConstInt(0)
		}
		addr, _ := addrAndSlotType(s.Value)
		return addr

	case ast.OpArrayIndex:
		return fc.lowerArrayElementAddress(n)

	default:
		fc.l.log.Add(report.ShapeError, n.Line, "expected an lvalue, got AST op %v", n.Op)
		return ir.NewConstInt(0)
	}
}

// collapseIndices walks a left-deep ArrayIndex chain down to its
// identifier base, returning the indices in source order (a[i][j][k] ->
// base "a", indices [i, j, k]).
func collapseIndices(n *ast.Node) (*ast.Node, []*ast.Node) {
	if n.Op != ast.OpArrayIndex {
		return n, nil
	}
	base, indices := collapseIndices(n.Children[0])
	return base, append(indices, n.Children[1])
}

// addrAndSlotType extracts a symbol's backing address and the type its
// slot was declared with (i32 for scalars, the full array type for
// local/global arrays, or a pointer type for array parameters).
func addrAndSlotType(value interface{}) (ir.Value, types.Type) {
	switch v := value.(type) {
	case *ir.GlobalVariable:
		return v, v.Typ
	case *ir.LocalVariable:
		return v, v.Typ
	default:
		return nil, nil
	}
}

// baseAddrForIndexing produces the pointer a GetElementPtr should use as
// its base. An array parameter's slot holds an incoming pointer value
// that must be loaded once; a local/global array's own address already
// is that pointer.
func (fc *funcCtx) baseAddrForIndexing(slotType types.Type, addr ir.Value) ir.Value {
	if types.IsPointer(slotType) {
		return fc.fn.Emit(&ir.Instruction{Kind: ir.Load, Name: fc.fn.NewTemp(), Typ: slotType, Operands: []ir.Value{addr}})
	}
	return addr
}

// lowerArrayElementAddress collapses an ArrayIndex chain into a single
// GetElementPtr, computing the result type by peeling one array-element
// layer off the pointee type per index supplied.
func (fc *funcCtx) lowerArrayElementAddress(n *ast.Node) ir.Value {
	baseNode, indices := collapseIndices(n)
	if baseNode.Op != ast.OpIdent {
		fc.l.log.Add(report.ShapeError, n.Line, "array index base is not a variable")
		return ir.NewConstInt(0)
	}

	s, ok := fc.l.syms.Lookup(baseNode.Name)
	if !ok {
		fc.l.log.Add(report.NameError, n.Line, "undeclared identifier %q", baseNode.Name)
		return ir.NewConstInt(0)
	}

	addr, slotType := addrAndSlotType(s.Value)
	basePtr := fc.baseAddrForIndexing(slotType, addr)

	cur := slotType
	if types.IsPointer(slotType) {
		cur = types.Pointee(slotType)
	}

	idxVals := make([]ir.Value, 0, len(indices))
	for _, idxNode := range indices {
		idxVals = append(idxVals, fc.lowerExprRValue(idxNode))
		if types.IsArray(cur) {
			cur = types.Element(cur)
		} else {
			fc.l.log.Add(report.TypeError, idxNode.Line, "too many indices for %q", baseNode.Name)
		}
	}

	operands := append([]ir.Value{basePtr}, idxVals...)
	instr := &ir.Instruction{Kind: ir.GetElementPtr, Name: fc.fn.NewTemp(), Typ: types.PointerOf(cur), Operands: operands}
	fc.fn.Emit(instr)
	return instr
}

func (fc *funcCtx) lowerCall(n *ast.Node) ir.Value {
	var args []ir.Value
	if len(n.Children) > 0 {
		for _, a := range n.Children[0].Children {
			args = append(args, fc.lowerExprRValue(a))
		}
	}

	retType := types.I32()
	s, ok := fc.l.syms.Lookup(n.Name)
	if !ok {
		fc.l.log.Add(report.NameError, n.Line, "call to undeclared function %q", n.Name)
	} else if callee, ok := s.Value.(*ir.Function); ok {
		retType = callee.RetType
	} else {
		fc.l.log.Add(report.TypeError, n.Line, "%q is not callable", n.Name)
	}

	instr := &ir.Instruction{Kind: ir.Call, Typ: retType, Callee: n.Name, Operands: args}
	if !types.IsVoid(retType) {
		instr.Name = fc.fn.NewTemp()
	}
	fc.fn.Emit(instr)
	return instr
}

// lowerCond lowers n in boolean context, branching to trueLabel or
// falseLabel without ever materializing an intermediate 0/1 value for
// `&&`/`||`/`!` — each short-circuits directly into more branches.
func (fc *funcCtx) lowerCond(n *ast.Node, trueLabel, falseLabel string) {
	switch n.Op {
	case ast.OpAnd:
		midLabel := fc.fn.NewLabel()
		fc.lowerCond(n.Children[0], midLabel, falseLabel)
		fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: midLabel})
		fc.lowerCond(n.Children[1], trueLabel, falseLabel)

	case ast.OpOr:
		midLabel := fc.fn.NewLabel()
		fc.lowerCond(n.Children[0], trueLabel, midLabel)
		fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: midLabel})
		fc.lowerCond(n.Children[1], trueLabel, falseLabel)

	case ast.OpNot:
		fc.lowerCond(n.Children[0], falseLabel, trueLabel)

	default:
		val := fc.lowerExprRValue(n)
		fc.fn.Emit(&ir.Instruction{Kind: ir.CondBr, Operands: []ir.Value{val}, Labels: []string{trueLabel, falseLabel}})
	}
}

// lowerBoolRValue materializes a logical expression's 0/1 result into a
// synthesized local, for use in non-branch contexts (`x = a && b;`).
func (fc *funcCtx) lowerBoolRValue(n *ast.Node) ir.Value {
	result := fc.newTempLocal(types.I32())
	trueLabel := fc.fn.NewLabel()
	falseLabel := fc.fn.NewLabel()
	joinLabel := fc.fn.NewLabel()

	fc.lowerCond(n, trueLabel, falseLabel)

	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: trueLabel})
	fc.fn.Emit(&ir.Instruction{Kind: ir.Store, Operands: []ir.Value{ir.NewConstInt(1), result}})
	fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{joinLabel}})

	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: falseLabel})
	fc.fn.Emit(&ir.Instruction{Kind: ir.Store, Operands: []ir.Value{ir.NewConstInt(0), result}})
	fc.fn.Emit(&ir.Instruction{Kind: ir.Br, Labels: []string{joinLabel}})

	fc.fn.Emit(&ir.Instruction{Kind: ir.Label, Name: joinLabel})
	return fc.fn.Emit(&ir.Instruction{Kind: ir.Load, Name: fc.fn.NewTemp(), Typ: types.I32(), Operands: []ir.Value{result}})
}

func (fc *funcCtx) newTempLocal(typ types.Type) *ir.LocalVariable {
	name := strings.TrimPrefix(fc.fn.NewTemp(), "%")
	local := ir.NewLocalVariable(name, typ)
	fc.fn.AddLocal(local)
	return local
}
