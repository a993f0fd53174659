// Package lower walks the AST and emits the linear IR: it manages names
// for temporaries and labels, threads break/continue targets, and
// classifies globals into BSS vs. data.
package lower

import (
	"minicc/ast"
	"minicc/ir"
	"minicc/report"
	"minicc/sym"
)

// Lower converts a compile-unit AST into a Module, collecting diagnostics
// into log. Global variables are processed before the functions that
// follow them, matching the grammar's requirement that globals appear
// before their first use.
func Lower(unit *ast.Node, log *report.Log) (mod *ir.Module) {
	defer report.CatchFatal()

	l := &lowerer{
		mod:  ir.NewModule(),
		syms: sym.New(),
		log:  log,
	}

	for _, child := range unit.Children {
		switch child.Op {
		case ast.OpDeclStmt:
			for _, decl := range child.Children {
				l.lowerGlobalVarDecl(decl)
			}
		case ast.OpFuncDef:
			l.lowerFuncDef(child)
		default:
			report.Raise(log, child.Line, "expected a top-level declaration or function, got AST op %v", child.Op)
		}
	}

	return l.mod
}

// lowerer holds module-wide state; funcCtx (in lower_func.go) holds the
// additional per-function state (current ir.Function, break/continue
// label stacks).
type lowerer struct {
	mod  *ir.Module
	syms *sym.Table
	log  *report.Log
}

func (l *lowerer) lowerGlobalVarDecl(decl *ast.Node) {
	g := ir.NewGlobalVariable(decl.Name, decl.Type)

	if decl.HasInit {
		initExpr := decl.Children[len(decl.Children)-1]
		if initExpr.Op == ast.OpArrayInit {
			l.log.Add(report.TypeError, decl.Line, "array initializers are not supported for global %q; declared without one", decl.Name)
		} else if value, ok := evalConstInt(initExpr); ok {
			g.SetInit(ir.NewConstInt(value))
		} else {
			l.log.Add(report.TypeError, decl.Line, "initializer for global %q is not a constant integer expression", decl.Name)
		}
	}

	l.mod.AddGlobal(g)
	l.syms.Insert(&sym.Symbol{Name: decl.Name, Kind: sym.KindVar, Type: decl.Type, Value: g})
}

// evalConstInt evaluates an already-built AST expression as a compile-time
// constant, the same reduction foldDimExpr performs for array dimensions
// but over signed int64 arithmetic (a global initializer is a value, not
// an unsigned element count) and extended to the full operator set so
// that a comparison or logical expression used as an initializer folds to
// its 0/1 result rather than being rejected outright.
func evalConstInt(n *ast.Node) (int64, bool) {
	switch n.Op {
	case ast.OpIntLit:
		return int64(n.IntVal), true

	case ast.OpNeg:
		v, ok := evalConstInt(n.Children[0])
		return -v, ok

	case ast.OpNot:
		v, ok := evalConstInt(n.Children[0])
		if !ok {
			return 0, false
		}
		if v == 0 {
			return 1, true
		}
		return 0, true

	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe, ast.OpEq, ast.OpNe,
		ast.OpAnd, ast.OpOr:
		lhs, ok := evalConstInt(n.Children[0])
		if !ok {
			return 0, false
		}
		rhs, ok := evalConstInt(n.Children[1])
		if !ok {
			return 0, false
		}
		return evalConstBinOp(n.Op, lhs, rhs)

	default:
		return 0, false
	}
}

func evalConstBinOp(op ast.Op, lhs, rhs int64) (int64, bool) {
	boolInt := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}

	switch op {
	case ast.OpAdd:
		return lhs + rhs, true
	case ast.OpSub:
		return lhs - rhs, true
	case ast.OpMul:
		return lhs * rhs, true
	case ast.OpDiv:
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	case ast.OpMod:
		if rhs == 0 {
			return 0, false
		}
		return lhs % rhs, true
	case ast.OpLt:
		return boolInt(lhs < rhs), true
	case ast.OpGt:
		return boolInt(lhs > rhs), true
	case ast.OpLe:
		return boolInt(lhs <= rhs), true
	case ast.OpGe:
		return boolInt(lhs >= rhs), true
	case ast.OpEq:
		return boolInt(lhs == rhs), true
	case ast.OpNe:
		return boolInt(lhs != rhs), true
	case ast.OpAnd:
		return boolInt(lhs != 0 && rhs != 0), true
	case ast.OpOr:
		return boolInt(lhs != 0 || rhs != 0), true
	}
	return 0, false
}
