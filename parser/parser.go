// Package parser implements a recursive-descent parser for MiniC,
// producing a cst.Node tree for package ast to walk.
package parser

import (
	"fmt"

	"minicc/cst"
	"minicc/lexer"
)

// Parser is a one-token-lookahead recursive-descent parser.
type Parser struct {
	lex *lexer.Lexer
	tok lexer.Token
}

// New creates a parser over src's token stream and primes the lookahead.
func New(lex *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: lex}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) got(k lexer.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if !p.got(k) {
		return lexer.Token{}, fmt.Errorf("line %d: expected %s, got %q", p.tok.Line, what, p.tok.Value)
	}
	tok := p.tok
	if err := p.next(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

// Parse parses a full compile unit: `(funcDef | varDecl)* EOF`.
func (p *Parser) Parse() (*cst.Node, error) {
	unit := cst.New(cst.KindCompileUnit, p.tok.Line, "")

	for !p.got(lexer.TokEOF) {
		child, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		unit.Children = append(unit.Children, child)
	}

	return unit, nil
}

// parseTopLevel disambiguates funcDef from varDecl by scanning past the
// basic type and identifier: `basicType ID (` starts a function.
func (p *Parser) parseTopLevel() (*cst.Node, error) {
	if p.got(lexer.TokVoid) {
		return p.parseFuncDef()
	}

	// p.got(lexer.TokInt): could be "int f(...)" or "int x;" — both begin
	// with basicType ID, so look one token further before deciding.
	line := p.tok.Line
	if _, err := p.expect(lexer.TokInt, "'int'"); err != nil {
		return nil, err
	}

	id, err := p.expect(lexer.TokIdent, "identifier")
	if err != nil {
		return nil, err
	}

	if p.got(lexer.TokLParen) {
		return p.finishFuncDef(line, "int", id)
	}
	return p.finishVarDecl(line, "int", id)
}

func (p *Parser) parseFuncDef() (*cst.Node, error) {
	line := p.tok.Line
	if _, err := p.expect(lexer.TokVoid, "'void'"); err != nil {
		return nil, err
	}
	id, err := p.expect(lexer.TokIdent, "identifier")
	if err != nil {
		return nil, err
	}
	return p.finishFuncDef(line, "void", id)
}

// finishFuncDef parses `'(' funcFParams? ')' block` given the already-consumed
// return type and function name.
func (p *Parser) finishFuncDef(line int, retType string, id lexer.Token) (*cst.Node, error) {
	if _, err := p.expect(lexer.TokLParen, "'('"); err != nil {
		return nil, err
	}

	params := cst.New(cst.KindFuncFParams, line, "")
	if !p.got(lexer.TokRParen) {
		for {
			param, err := p.parseFuncFParam()
			if err != nil {
				return nil, err
			}
			params.Children = append(params.Children, param)

			if p.got(lexer.TokComma) {
				if err := p.next(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if _, err := p.expect(lexer.TokRParen, "')'"); err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return cst.New(cst.KindFuncDef, line, retType+" "+id.Value, params, block), nil
}

// funcFParam : basicType ID ('[' expr? ']' ('[' expr ']')*)?
func (p *Parser) parseFuncFParam() (*cst.Node, error) {
	line := p.tok.Line
	if _, err := p.expect(lexer.TokInt, "'int'"); err != nil {
		return nil, err
	}
	id, err := p.expect(lexer.TokIdent, "identifier")
	if err != nil {
		return nil, err
	}

	dims := cst.New(cst.KindArrayDimExprs, line, "")
	hasArray := false
	if p.got(lexer.TokLBracket) {
		hasArray = true
		if err := p.next(); err != nil {
			return nil, err
		}
		// first bracket pair's expr is optional (the unknown first dimension)
		if !p.got(lexer.TokRBracket) {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			dims.Children = append(dims.Children, expr)
		} else {
			dims.Children = append(dims.Children, nil)
		}
		if _, err := p.expect(lexer.TokRBracket, "']'"); err != nil {
			return nil, err
		}

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
	}

	idNode := cst.New(cst.KindIdent, id.Line, id.Value)
	if !hasArray {
		return cst.New(cst.KindFuncFParam, line, "", idNode), nil
	}
	return cst.New(cst.KindFuncFParam, line, "", idNode, dims), nil
}

// block : '{' blockItem* '}'
func (p *Parser) parseBlock() (*cst.Node, error) {
	line := p.tok.Line
	if _, err := p.expect(lexer.TokLBrace, "'{'"); err != nil {
		return nil, err
	}

	block := cst.New(cst.KindBlock, line, "")
	for !p.got(lexer.TokRBrace) {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		if item != nil {
			block.Children = append(block.Children, item)
		}
	}

	if _, err := p.expect(lexer.TokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return block, nil
}

// blockItem : stmt | varDecl
func (p *Parser) parseBlockItem() (*cst.Node, error) {
	if p.got(lexer.TokInt) {
		line := p.tok.Line
		if err := p.next(); err != nil {
			return nil, err
		}
		id, err := p.expect(lexer.TokIdent, "identifier")
		if err != nil {
			return nil, err
		}
		return p.finishVarDecl(line, "int", id)
	}
	return p.parseStmt()
}
