package lexer

import "testing"

func TestTokenizeSimpleAssignment(t *testing.T) {
	toks := Tokenize("x := 5\n")
	want := []TokenType{IDENT, LOCALDEF, NUMBER, NEWLINE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d = %s, want %s", i, toks[i].Type, w)
		}
	}
	if toks[2].Lexeme != "5" {
		t.Errorf("number lexeme = %q, want %q", toks[2].Lexeme, "5")
	}
}

func TestTokenizeKeywordsAndOperators(t *testing.T) {
	toks := Tokenize("if x ~= 1 then println x end")
	want := []TokenType{IF, IDENT, NEQ, NUMBER, THEN, PRINTLN, IDENT, END, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d = %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := Tokenize(`"a\nb"`)
	if toks[0].Type != STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Type)
	}
	if toks[0].Lexeme != "a\nb" {
		t.Errorf("lexeme = %q, want %q", toks[0].Lexeme, "a\nb")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	toks := Tokenize(`"abc`)
	if toks[0].Type != ILLEGAL {
		t.Errorf("expected ILLEGAL for unterminated string, got %s", toks[0].Type)
	}
}

func TestTokenizeCommentSkipped(t *testing.T) {
	toks := Tokenize("x := 1 # comment\ny := 2\n")
	var kinds []TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Type)
	}
	want := []TokenType{IDENT, LOCALDEF, NUMBER, NEWLINE, IDENT, LOCALDEF, NUMBER, NEWLINE, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(kinds), len(want))
	}
	for i, w := range want {
		if kinds[i] != w {
			t.Errorf("token %d = %s, want %s", i, kinds[i], w)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	toks := Tokenize("ab\ncd")
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("first token position = (%d,%d), want (1,1)", toks[0].Line, toks[0].Column)
	}
	// NEWLINE, then 'cd' on line 2
	var cdTok Token
	for _, tok := range toks {
		if tok.Lexeme == "cd" {
			cdTok = tok
		}
	}
	if cdTok.Line != 2 {
		t.Errorf("'cd' line = %d, want 2", cdTok.Line)
	}
}
