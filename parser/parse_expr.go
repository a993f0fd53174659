package parser

import (
	"fmt"

	"minicc/cst"
	"minicc/lexer"
)

// parseExpr parses the full expression grammar, starting from lOrExp,
// wherever an expression appears: a statement's expression, an
// assignment/return value, a dimension, an initializer, or a condition.
// MiniC's grammar does not distinguish arithmetic exprs from conditions
// syntactically — && and || simply bind looser than everything else — so
// a single entry point covers all of them.
func (p *Parser) parseExpr() (*cst.Node, error) {
	return p.parseLOrExp()
}

// parseCond is an alias kept for call sites that parse a condition
// specifically (if/while); the grammar is identical to parseExpr.
func (p *Parser) parseCond() (*cst.Node, error) {
	return p.parseExpr()
}

// binLevel describes one left-associative precedence level: `A : B (op B)*`.
type binLevel struct {
	ops  []lexer.Kind
	next func(*Parser) (*cst.Node, error)
}

func (p *Parser) parseBinLevel(lv binLevel) (*cst.Node, error) {
	first, err := lv.next(p)
	if err != nil {
		return nil, err
	}

	line := first.Line
	chain := []*cst.Node{first}
	for {
		matched := false
		for _, op := range lv.ops {
			if p.got(op) {
				opTok := p.tok
				if err := p.next(); err != nil {
					return nil, err
				}
				opNode := cst.New(cst.KindIdent, opTok.Line, opTok.Value)
				rhs, err := lv.next(p)
				if err != nil {
					return nil, err
				}
				chain = append(chain, opNode, rhs)
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return cst.New(cst.KindBinChain, line, "", chain...), nil
}

func (p *Parser) parseLOrExp() (*cst.Node, error) {
	return p.parseBinLevel(binLevel{[]lexer.Kind{lexer.TokOr}, (*Parser).parseLAndExp})
}

func (p *Parser) parseLAndExp() (*cst.Node, error) {
	return p.parseBinLevel(binLevel{[]lexer.Kind{lexer.TokAnd}, (*Parser).parseEqExp})
}

func (p *Parser) parseEqExp() (*cst.Node, error) {
	return p.parseBinLevel(binLevel{[]lexer.Kind{lexer.TokEq, lexer.TokNe}, (*Parser).parseRelExp})
}

func (p *Parser) parseRelExp() (*cst.Node, error) {
	return p.parseBinLevel(binLevel{
		[]lexer.Kind{lexer.TokLt, lexer.TokGt, lexer.TokLe, lexer.TokGe},
		(*Parser).parseAddExp,
	})
}

func (p *Parser) parseAddExp() (*cst.Node, error) {
	return p.parseBinLevel(binLevel{[]lexer.Kind{lexer.TokPlus, lexer.TokMinus}, (*Parser).parseMulExp})
}

func (p *Parser) parseMulExp() (*cst.Node, error) {
	return p.parseBinLevel(binLevel{
		[]lexer.Kind{lexer.TokStar, lexer.TokSlash, lexer.TokPercent},
		(*Parser).parseUnaryExp,
	})
}

// unaryExp : ('+' | '-' | '!') unaryExp | primaryExp
func (p *Parser) parseUnaryExp() (*cst.Node, error) {
	switch p.tok.Kind {
	case lexer.TokPlus, lexer.TokMinus, lexer.TokNot:
		opTok := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnaryExp()
		if err != nil {
			return nil, err
		}
		return cst.New(cst.KindUnary, opTok.Line, opTok.Value, operand), nil
	default:
		return p.parsePrimaryExp()
	}
}

// primaryExp : '(' expr ')' | lVal | IntConst | ID '(' realParamList? ')'
func (p *Parser) parsePrimaryExp() (*cst.Node, error) {
	switch p.tok.Kind {
	case lexer.TokLParen:
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRParen, "')'"); err != nil {
			return nil, err
		}
		return cst.New(cst.KindParen, line, "", inner), nil
	case lexer.TokIntLit:
		tok := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		return cst.New(cst.KindIntLit, tok.Line, tok.Value), nil
	case lexer.TokIdent:
		node, _, err := p.tryParseLVal()
		return node, err
	default:
		return nil, fmt.Errorf("line %d: expected expression, got %q", p.tok.Line, p.tok.Value)
	}
}

// tryParseLVal parses an identifier-led primary: a plain name, an lVal
// array-index chain, or a call expression. It returns isLVal=true only for
// the first two (a bare name or an index chain), since those are the only
// shapes an assignment target can take; a call expression can never be
// assigned to.
func (p *Parser) tryParseLVal() (*cst.Node, bool, error) {
	id, err := p.expect(lexer.TokIdent, "identifier")
	if err != nil {
		return nil, false, err
	}

	if p.got(lexer.TokLParen) {
		call, err := p.finishCall(id)
		return call, false, err
	}

	idNode := cst.New(cst.KindIdent, id.Line, id.Value)
	if !p.got(lexer.TokLBracket) {
		return idNode, true, nil
	}

	lval := idNode
	for p.got(lexer.TokLBracket) {
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, false, err
		}
		idx, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		if _, err := p.expect(lexer.TokRBracket, "']'"); err != nil {
			return nil, false, err
		}
		// Left-deep fold: each successive index wraps the prior lVal node,
		// matching the chain shape visitLVal in the original front end builds.
		lval = cst.New(cst.KindLVal, line, "", lval, idx)
	}
	return lval, true, nil
}

func (p *Parser) finishCall(id lexer.Token) (*cst.Node, error) {
	if _, err := p.expect(lexer.TokLParen, "'('"); err != nil {
		return nil, err
	}

	call := cst.New(cst.KindCall, id.Line, id.Value)
	if !p.got(lexer.TokRParen) {
		params, err := p.parseRealParamList()
		if err != nil {
			return nil, err
		}
		call.Children = params
	}

	if _, err := p.expect(lexer.TokRParen, "')'"); err != nil {
		return nil, err
	}
	return call, nil
}

// realParamList : expr (',' expr)*
func (p *Parser) parseRealParamList() ([]*cst.Node, error) {
	var args []*cst.Node
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.got(lexer.TokComma) {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		return args, nil
	}
}

// continueExprFrom folds an already-parsed primary (a bare identifier, an
// lVal chain, or a call) up through the rest of the expression grammar. It
// is needed because parseAssignOrExprStmt must look one token past an
// identifier-led primary before it knows whether it is looking at an
// assignment target or the start of a larger expression.
func (p *Parser) continueExprFrom(primary *cst.Node) (*cst.Node, error) {
	mul, err := p.continueMulFrom(primary)
	if err != nil {
		return nil, err
	}
	add, err := p.continueBinFrom(mul, binLevel{[]lexer.Kind{lexer.TokPlus, lexer.TokMinus}, (*Parser).parseMulExp})
	if err != nil {
		return nil, err
	}
	rel, err := p.continueBinFrom(add, binLevel{
		[]lexer.Kind{lexer.TokLt, lexer.TokGt, lexer.TokLe, lexer.TokGe},
		(*Parser).parseAddExp,
	})
	if err != nil {
		return nil, err
	}
	eq, err := p.continueBinFrom(rel, binLevel{[]lexer.Kind{lexer.TokEq, lexer.TokNe}, (*Parser).parseRelExp})
	if err != nil {
		return nil, err
	}
	and, err := p.continueBinFrom(eq, binLevel{[]lexer.Kind{lexer.TokAnd}, (*Parser).parseEqExp})
	if err != nil {
		return nil, err
	}
	return p.continueBinFrom(and, binLevel{[]lexer.Kind{lexer.TokOr}, (*Parser).parseLAndExp})
}

// continueMulFrom resumes the precedence chain from an already-parsed
// primary (never itself unary-prefixed, since unary prefixes are detected
// before an identifier-led primary is ever speculatively parsed).
func (p *Parser) continueMulFrom(operand *cst.Node) (*cst.Node, error) {
	return p.continueBinFrom(operand, binLevel{
		[]lexer.Kind{lexer.TokStar, lexer.TokSlash, lexer.TokPercent},
		(*Parser).parseUnaryExp,
	})
}

// continueBinFrom runs the same reduction loop as parseBinLevel but starting
// from an already-parsed first operand instead of calling lv.next for it.
func (p *Parser) continueBinFrom(first *cst.Node, lv binLevel) (*cst.Node, error) {
	line := first.Line
	chain := []*cst.Node{first}
	for {
		matched := false
		for _, op := range lv.ops {
			if p.got(op) {
				opTok := p.tok
				if err := p.next(); err != nil {
					return nil, err
				}
				opNode := cst.New(cst.KindIdent, opTok.Line, opTok.Value)
				rhs, err := lv.next(p)
				if err != nil {
					return nil, err
				}
				chain = append(chain, opNode, rhs)
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return cst.New(cst.KindBinChain, line, "", chain...), nil
}
