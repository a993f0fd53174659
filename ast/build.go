package ast

import (
	"strconv"

	"minicc/cst"
	"minicc/report"
	"minicc/types"
)

// Build walks a compile-unit CST and produces its AST, collecting
// diagnostics into log. It never panics across its own boundary: a
// ShapeError recorded via report.Raise unwinds only as far as the
// deferred report.CatchFatal here, and Build returns whatever partial
// tree it had (possibly nil, if the compile unit itself was malformed).
func Build(root *cst.Node, log *report.Log) (unit *Node) {
	defer report.CatchFatal()

	if root.Kind != cst.KindCompileUnit {
		report.Raise(log, root.Line, "expected a compile unit, got CST kind %v", root.Kind)
		return nil
	}

	b := &builder{log: log}
	unit = NewOp(OpCompileUnit, root.Line)
	for _, child := range root.Children {
		switch child.Kind {
		case cst.KindFuncDef:
			unit.Children = append(unit.Children, b.buildFuncDef(child))
		case cst.KindVarDecl:
			unit.Children = append(unit.Children, b.buildDeclStmt(child))
		default:
			report.Raise(log, child.Line, "expected a function or variable declaration at top level, got CST kind %v", child.Kind)
		}
	}
	return unit
}

type builder struct {
	log *report.Log
}

func splitRetTypeName(text string) (retType, name string) {
	for i, c := range text {
		if c == ' ' {
			return text[:i], text[i+1:]
		}
	}
	return text, ""
}

func (b *builder) buildFuncDef(n *cst.Node) *Node {
	retTypeText, name := splitRetTypeName(n.Text)

	var retType types.Type
	if retTypeText == "void" {
		retType = types.Void()
	} else {
		retType = types.I32()
	}

	if len(n.Children) != 2 {
		report.Raise(b.log, n.Line, "malformed function definition %q", name)
	}

	params := b.buildFuncFParams(n.Children[0])
	block := b.buildBlock(n.Children[1])

	fn := NewOp(OpFuncDef, n.Line, params, block)
	fn.Name = name
	fn.Type = retType
	return fn
}

func (b *builder) buildFuncFParams(n *cst.Node) *Node {
	params := NewOp(OpFuncFParams, n.Line)
	for _, p := range n.Children {
		params.Children = append(params.Children, b.buildFuncFParam(p))
	}
	return params
}

// buildFuncFParam implements the array-parameter type synthesis: a
// synthetic first dimension of size 0, remaining dimensions folded
// innermost-last, the outermost dimension re-wrapped as Array(_, 0), and
// the whole type wrapped in Pointer(_).
func (b *builder) buildFuncFParam(n *cst.Node) *Node {
	idNode := n.Children[0]
	typeLeaf := NewOp(OpType, n.Line)
	typeLeaf.Type = types.I32()
	idLeaf := NewLeafID(idNode.Text, idNode.Line)

	param := &Node{Op: OpFuncFParam, Line: n.Line, Name: idNode.Text}
	param.Children = []*Node{typeLeaf, idLeaf}

	if len(n.Children) < 2 {
		// No brackets at all: a plain scalar parameter.
		param.Type = types.I32()
		return param
	}

	dimsNode := n.Children[1]

	// dimsNode.Children[0] is the first bracket pair's expression, nil when
	// the brackets were left empty; it is not used, since the first
	// dimension is always the unknown size 0. dimsNode.Children[1:] are the
	// explicit, declared dimensions in outer-to-inner order.
	explicitDimNodes := make([]*Node, 0, len(dimsNode.Children)-1)
	for _, dimExpr := range dimsNode.Children[1:] {
		explicitDimNodes = append(explicitDimNodes, b.buildExpr(dimExpr))
	}

	elemType, dimASTs := b.buildArrayDims(types.I32(), explicitDimNodes)

	outerDim := NewOp(OpArrayDim, n.Line, NewLeafInt(0, n.Line))
	outerDim.IntVal = 0
	outerDim.HasIntVal = true

	param.Children = append([]*Node{typeLeaf, idLeaf, outerDim}, dimASTs...)

	arrType := types.ArrayOf(elemType, 0)
	param.Type = types.PointerOf(arrType)
	return param
}

// buildArrayDims folds a list of explicit dimension-size expressions
// (outer-to-inner order) innermost-last into a nested array type, and
// returns the corresponding ArrayDim AST nodes in the same outer-to-inner
// order for attaching as children.
func (b *builder) buildArrayDims(base types.Type, dimExprs []*Node) (types.Type, []*Node) {
	n := len(dimExprs)
	sizes := make([]uint32, n)
	dimNodes := make([]*Node, n)

	for i, expr := range dimExprs {
		dim := NewOp(OpArrayDim, expr.Line, expr)
		value, ok := foldDimExpr(dim, expr)
		switch {
		case !ok:
			b.log.Add(report.DimensionError, expr.Line, "array dimension is not a constant expression; treating as 0")
			value = 0
		case value == 0:
			b.log.Add(report.DimensionError, expr.Line, "array dimension is zero; treating as 0")
		}
		sizes[i] = value
		dimNodes[i] = dim
	}

	current := base
	for i := n - 1; i >= 0; i-- {
		current = types.ArrayOf(current, sizes[i])
	}
	return current, dimNodes
}

func (b *builder) buildBlock(n *cst.Node) *Node {
	block := NewOp(OpBlock, n.Line)
	for _, item := range n.Children {
		switch item.Kind {
		case cst.KindVarDecl:
			block.Children = append(block.Children, b.buildDeclStmt(item))
		case cst.KindEmptyStmt:
			// `;` is a no-op; it contributes nothing to the AST.
		default:
			block.Children = append(block.Children, b.buildStmt(item))
		}
	}
	return block
}

// buildDeclStmt builds the DeclStmt wrapper around one or more per-
// declarator VarDecl nodes (`int a, b[2];` declares two).
func (b *builder) buildDeclStmt(n *cst.Node) *Node {
	decl := NewOp(OpDeclStmt, n.Line)
	for _, def := range n.Children {
		decl.Children = append(decl.Children, b.buildVarDecl(def))
	}
	return decl
}

// buildVarDecl builds one declarator's VarDecl node: a fresh type node,
// the identifier, the outermost-first dimension list, and an optional
// initializer — with the attached Type computed by folding dimensions
// innermost-last.
func (b *builder) buildVarDecl(def *cst.Node) *Node {
	idNode := def.Children[0]
	dimsNode := def.Children[1]

	typeLeaf := NewOp(OpType, def.Line)
	typeLeaf.Type = types.I32()
	idLeaf := NewLeafID(idNode.Text, idNode.Line)

	explicitDimNodes := make([]*Node, 0, len(dimsNode.Children))
	for _, dimExpr := range dimsNode.Children {
		explicitDimNodes = append(explicitDimNodes, b.buildExpr(dimExpr))
	}

	fullType, dimASTs := b.buildArrayDims(types.I32(), explicitDimNodes)

	decl := &Node{Op: OpVarDecl, Line: def.Line, Name: idNode.Text, Type: fullType}
	decl.Children = append(decl.Children, typeLeaf, idLeaf)
	decl.Children = append(decl.Children, dimASTs...)

	if len(def.Children) > 2 {
		decl.Children = append(decl.Children, b.buildInitVal(def.Children[2]))
		decl.HasInit = true
	}

	return decl
}

func (b *builder) buildInitVal(n *cst.Node) *Node {
	if n.Kind == cst.KindInitVal {
		init := NewOp(OpArrayInit, n.Line)
		for _, sub := range n.Children {
			init.Children = append(init.Children, b.buildInitVal(sub))
		}
		return init
	}
	return b.buildExpr(n)
}

func (b *builder) buildStmt(n *cst.Node) *Node {
	switch n.Kind {
	case cst.KindBlock:
		return b.buildBlock(n)

	case cst.KindIfStmt:
		cond := b.buildExpr(n.Children[0])
		then := b.buildStmt(n.Children[1])
		if len(n.Children) == 3 {
			els := b.buildStmt(n.Children[2])
			return NewOp(OpIf, n.Line, cond, then, els)
		}
		return NewOp(OpIf, n.Line, cond, then)

	case cst.KindWhileStmt:
		cond := b.buildExpr(n.Children[0])
		body := b.buildStmt(n.Children[1])
		return NewOp(OpWhile, n.Line, cond, body)

	case cst.KindBreakStmt:
		return NewOp(OpBreak, n.Line)

	case cst.KindContinueStmt:
		return NewOp(OpContinue, n.Line)

	case cst.KindReturnStmt:
		if len(n.Children) == 0 {
			return NewOp(OpReturn, n.Line)
		}
		return NewOp(OpReturn, n.Line, b.buildExpr(n.Children[0]))

	case cst.KindAssignStmt:
		lval := b.buildLValue(n.Children[0])
		rhs := b.buildExpr(n.Children[1])
		return NewOp(OpAssign, n.Line, lval, rhs)

	case cst.KindExprStmt:
		return NewOp(OpExprStmt, n.Line, b.buildExpr(n.Children[0]))

	case cst.KindEmptyStmt:
		return NewOp(OpExprStmt, n.Line)

	default:
		report.Raise(b.log, n.Line, "expected a statement, got CST kind %v", n.Kind)
		return nil
	}
}

func (b *builder) buildExpr(n *cst.Node) *Node {
	switch n.Kind {
	case cst.KindIntLit:
		v, err := strconv.ParseUint(n.Text, 0, 64)
		if err != nil {
			b.log.Add(report.ShapeError, n.Line, "malformed integer literal %q", n.Text)
			return NewLeafInt(0, n.Line)
		}
		return NewLeafInt(uint32(v), n.Line)

	case cst.KindIdent:
		return NewLeafID(n.Text, n.Line)

	case cst.KindParen:
		return b.buildExpr(n.Children[0])

	case cst.KindLVal:
		return b.buildLValue(n)

	case cst.KindCall:
		call := &Node{Op: OpCall, Line: n.Line, Name: n.Text}
		if len(n.Children) > 0 {
			realParams := NewOp(OpRealParamList, n.Line)
			for _, arg := range n.Children {
				realParams.Children = append(realParams.Children, b.buildExpr(arg))
			}
			call.Children = []*Node{realParams}
		}
		return call

	case cst.KindUnary:
		operand := b.buildExpr(n.Children[0])
		switch n.Text {
		case "-":
			return NewOp(OpNeg, n.Line, operand)
		case "!":
			return NewOp(OpNot, n.Line, operand)
		default: // unary '+' is the identity; no AST node for it.
			return operand
		}

	case cst.KindBinChain:
		acc := b.buildExpr(n.Children[0])
		for i := 1; i < len(n.Children); i += 2 {
			op := binOpFromText(n.Children[i].Text)
			rhs := b.buildExpr(n.Children[i+1])
			acc = NewOp(op, acc.Line, acc, rhs)
		}
		return acc

	default:
		report.Raise(b.log, n.Line, "expected an expression, got CST kind %v", n.Kind)
		return nil
	}
}

// buildLValue folds a left-deep cst.KindLVal chain (or a bare identifier)
// into the matching left-deep chain of OpArrayIndex AST nodes.
func (b *builder) buildLValue(n *cst.Node) *Node {
	if n.Kind == cst.KindIdent {
		return NewLeafID(n.Text, n.Line)
	}

	base := n.Children[0]
	var baseAST *Node
	if base.Kind == cst.KindLVal {
		baseAST = b.buildLValue(base)
	} else {
		baseAST = b.buildExpr(base)
	}
	idx := b.buildExpr(n.Children[1])
	return NewOp(OpArrayIndex, n.Line, baseAST, idx)
}

func binOpFromText(text string) Op {
	switch text {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "%":
		return OpMod
	case "<":
		return OpLt
	case ">":
		return OpGt
	case "<=":
		return OpLe
	case ">=":
		return OpGe
	case "==":
		return OpEq
	case "!=":
		return OpNe
	case "&&":
		return OpAnd
	case "||":
		return OpOr
	}
	return OpAdd
}
