package token_test

import (
	"testing"

	"zlang/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	for word, want := range map[string]token.Kind{
		"if": token.KwIf, "else": token.KwElse, "for": token.KwFor,
		"let": token.KwLet, "fn": token.KwFn, "use": token.KwUse, "type": token.KwType,
	} {
		got, ok := token.LookupKeyword(word)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v,%v; want %v", word, got, ok, want)
		}
	}
	for _, word := range []string{"int", "char", "iff", "Fn", "while"} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Errorf("%q must not be a keyword", word)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.LtEq.String() != "LtEq" || token.EOF.String() != "EOF" {
		t.Fatalf("unexpected names: %s %s", token.LtEq, token.EOF)
	}
	if token.Kind(250).String() != "Kind(?)" {
		t.Errorf("out-of-range kind should not panic")
	}
}

func TestTokenPredicates(t *testing.T) {
	if !(token.Token{Kind: token.CharLit}).IsLiteral() {
		t.Errorf("CharLit should be literal")
	}
	if (token.Token{Kind: token.Ident}).IsKeyword() {
		t.Errorf("Ident is not a keyword")
	}
	for _, k := range []token.Kind{token.NewLine, token.Semicolon, token.EOF} {
		if !(token.Token{Kind: k}).IsSeparator() {
			t.Errorf("%v should separate statements", k)
		}
	}
}
