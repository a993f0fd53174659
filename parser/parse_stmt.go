package parser

import (
	"minicc/cst"
	"minicc/lexer"
)

// stmt: lVal '=' expr ';' | 'return' expr? ';' | block
//     | expr? ';' | ifStmt | whileStmt | 'break' ';' | 'continue' ';'
func (p *Parser) parseStmt() (*cst.Node, error) {
	switch p.tok.Kind {
	case lexer.TokLBrace:
		return p.parseBlock()
	case lexer.TokIf:
		return p.parseIfStmt()
	case lexer.TokWhile:
		return p.parseWhileStmt()
	case lexer.TokBreak:
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokSemi, "';'"); err != nil {
			return nil, err
		}
		return cst.New(cst.KindBreakStmt, line, ""), nil
	case lexer.TokContinue:
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokSemi, "';'"); err != nil {
			return nil, err
		}
		return cst.New(cst.KindContinueStmt, line, ""), nil
	case lexer.TokReturn:
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, err
		}
		var expr *cst.Node
		if !p.got(lexer.TokSemi) {
			var err error
			expr, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.TokSemi, "';'"); err != nil {
			return nil, err
		}
		if expr == nil {
			return cst.New(cst.KindReturnStmt, line, ""), nil
		}
		return cst.New(cst.KindReturnStmt, line, "", expr), nil
	case lexer.TokSemi:
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, err
		}
		return cst.New(cst.KindEmptyStmt, line, ""), nil
	default:
		return p.parseAssignOrExprStmt()
	}
}

// The grammar distinguishes `lVal '=' expr ';'` from `expr ';'` only by
// whether the leading identifier expression is followed by '='; both start
// by parsing an lVal-shaped or general expression, so we parse the leading
// unary/primary expression once and dispatch off the next token.
func (p *Parser) parseAssignOrExprStmt() (*cst.Node, error) {
	line := p.tok.Line

	if p.got(lexer.TokIdent) {
		lval, isLVal, err := p.tryParseLVal()
		if err != nil {
			return nil, err
		}
		if isLVal && p.got(lexer.TokAssign) {
			if err := p.next(); err != nil {
				return nil, err
			}
			rhs, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokSemi, "';'"); err != nil {
				return nil, err
			}
			return cst.New(cst.KindAssignStmt, line, "", lval, rhs), nil
		}

		// Not an assignment: it was the start of an expression statement.
		// Continue folding it up through the full expression grammar,
		// treating `lval` as the already-parsed primaryExp/lVal.
		expr, err := p.continueExprFrom(lval)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokSemi, "';'"); err != nil {
			return nil, err
		}
		return cst.New(cst.KindExprStmt, line, "", expr), nil
	}

	if p.got(lexer.TokSemi) {
		if err := p.next(); err != nil {
			return nil, err
		}
		return cst.New(cst.KindEmptyStmt, line, ""), nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemi, "';'"); err != nil {
		return nil, err
	}
	return cst.New(cst.KindExprStmt, line, "", expr), nil
}

func (p *Parser) parseIfStmt() (*cst.Node, error) {
	line := p.tok.Line
	if err := p.next(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	if p.got(lexer.TokElse) {
		if err := p.next(); err != nil {
			return nil, err
		}
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return cst.New(cst.KindIfStmt, line, "", cond, then, els), nil
	}

	return cst.New(cst.KindIfStmt, line, "", cond, then), nil
}

func (p *Parser) parseWhileStmt() (*cst.Node, error) {
	line := p.tok.Line
	if err := p.next(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return cst.New(cst.KindWhileStmt, line, "", cond, body), nil
}

// varDecl : basicType varDef (',' varDef)* ';'  -- called with the basic
// type and first identifier already consumed by the caller (parseTopLevel
// / parseBlockItem, which must look ahead to disambiguate a var decl from a
// function definition at top level).
func (p *Parser) finishVarDecl(line int, basicType string, firstID lexer.Token) (*cst.Node, error) {
	decl := cst.New(cst.KindVarDecl, line, basicType)

	def, err := p.finishVarDef(firstID)
	if err != nil {
		return nil, err
	}
	decl.Children = append(decl.Children, def)

	for p.got(lexer.TokComma) {
		if err := p.next(); err != nil {
			return nil, err
		}
		id, err := p.expect(lexer.TokIdent, "identifier")
		if err != nil {
			return nil, err
		}
		def, err := p.finishVarDef(id)
		if err != nil {
			return nil, err
		}
		decl.Children = append(decl.Children, def)
	}

	if _, err := p.expect(lexer.TokSemi, "';'"); err != nil {
		return nil, err
	}
	return decl, nil
}

// varDef : ID ('[' expr ']')* ('=' initVal)?  -- ID already consumed.
func (p *Parser) finishVarDef(id lexer.Token) (*cst.Node, error) {
	idNode := cst.New(cst.KindIdent, id.Line, id.Value)
	def := cst.New(cst.KindVarDef, id.Line, "", idNode)

	dims := cst.New(cst.KindArrayDimExprs, id.Line, "")
	for p.got(lexer.TokLBracket) {
		if err := p.next(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dims.Children = append(dims.Children, expr)
		if _, err := p.expect(lexer.TokRBracket, "']'"); err != nil {
			return nil, err
		}
	}
	def.Children = append(def.Children, dims)

	if p.got(lexer.TokAssign) {
		if err := p.next(); err != nil {
			return nil, err
		}
		init, err := p.parseInitVal()
		if err != nil {
			return nil, err
		}
		def.Children = append(def.Children, init)
	}

	return def, nil
}

// initVal : expr | '{' initVal (',' initVal)* '}'
func (p *Parser) parseInitVal() (*cst.Node, error) {
	if p.got(lexer.TokLBrace) {
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, err
		}
		list := cst.New(cst.KindInitVal, line, "")
		if !p.got(lexer.TokRBrace) {
			for {
				v, err := p.parseInitVal()
				if err != nil {
					return nil, err
				}
				list.Children = append(list.Children, v)
				if p.got(lexer.TokComma) {
					if err := p.next(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
		}
		if _, err := p.expect(lexer.TokRBrace, "'}'"); err != nil {
			return nil, err
		}
		return list, nil
	}

	return p.parseExpr()
}
