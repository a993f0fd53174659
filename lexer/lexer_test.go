package lexer

import (
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks
		}
	}
}

func TestLexKeywordsAndPunct(t *testing.T) {
	toks := lexAll(t, "int a[2+3][4]; while(i<10){ if(i==5) break; }")

	want := []Kind{
		TokInt, TokIdent, TokLBracket, TokIntLit, TokPlus, TokIntLit, TokRBracket,
		TokLBracket, TokIntLit, TokRBracket, TokSemi,
		TokWhile, TokLParen, TokIdent, TokLt, TokIntLit, TokRParen, TokLBrace,
		TokIf, TokLParen, TokIdent, TokEq, TokIntLit, TokRParen, TokBreak, TokSemi,
		TokRBrace, TokEOF,
	}

	if len(toks) != len(want) {
		t.Fatalf("token count mismatch: got %d, want %d (%v)", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Kind != want[i] {
			t.Fatalf("token %d: got kind %v, want %v", i, tok.Kind, want[i])
		}
	}
}

func TestLexNumericBases(t *testing.T) {
	toks := lexAll(t, "0x1F 017 42")
	if toks[0].Value != "0x1F" || toks[1].Value != "017" || toks[2].Value != "42" {
		t.Fatalf("unexpected literal text: %+v", toks[:3])
	}
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, "int x; // trailing comment\n/* block\ncomment */ int y;")
	kinds := []Kind{TokInt, TokIdent, TokSemi, TokInt, TokIdent, TokSemi, TokEOF}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(kinds), toks)
	}
}
