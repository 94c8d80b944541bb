package lexer_test

import (
	"testing"

	"zlang/internal/diag"
	"zlang/internal/lexer"
	"zlang/internal/source"
	"zlang/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(t *testing.T, input string) (*lexer.Lexer, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.z", []byte(input))
	bag := diag.NewBag(16)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(t, input)
	toks := lx.All()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %v", input, bag.Items())
	}
	return toks
}

func TestOperators(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"==", []token.Kind{token.EqEq}},
		{"!=", []token.Kind{token.BangEq}},
		{"<=", []token.Kind{token.LtEq}},
		{">=", []token.Kind{token.GtEq}},
		{"= =", []token.Kind{token.Assign, token.Assign}},
		{"<>", []token.Kind{token.Lt, token.Gt}},
		{"!x", []token.Kind{token.Bang, token.Ident}},
		{"+-*/", []token.Kind{token.Plus, token.Minus, token.Star, token.Slash}},
		{"(){}[]", []token.Kind{token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket}},
		{"|&#.,;", []token.Kind{token.Pipe, token.Amp, token.Hash, token.Dot, token.Comma, token.Semicolon}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			want := append(append([]token.Kind{}, tc.want...), token.NewLine, token.EOF)
			expectKinds(t, tc.src, want...)
		})
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := expectKinds(t, "if else for let fn use type iff _x9",
		token.KwIf, token.KwElse, token.KwFor, token.KwLet, token.KwFn, token.KwUse, token.KwType,
		token.Ident, token.Ident, token.NewLine, token.EOF)
	if toks[7].Text != "iff" || toks[8].Text != "_x9" {
		t.Errorf("ident text: %q %q", toks[7].Text, toks[8].Text)
	}
}

func TestNumbersAreMaximalRuns(t *testing.T) {
	toks := expectKinds(t, "123abc 7", token.IntLit, token.Ident, token.IntLit, token.NewLine, token.EOF)
	if toks[0].Text != "123" || toks[1].Text != "abc" {
		t.Errorf("got %q %q", toks[0].Text, toks[1].Text)
	}
}

func TestNewlineIsSignificant(t *testing.T) {
	expectKinds(t, "a\r\n\tb \n",
		token.Ident, token.NewLine, token.Ident, token.NewLine, token.EOF)
}

func TestStringAndCharLiterals(t *testing.T) {
	toks := expectKinds(t, `"a\nb" 'c'`, token.StringLit, token.CharLit, token.NewLine, token.EOF)
	if toks[0].Text != `a\nb` {
		t.Errorf("string body = %q, want raw bytes", toks[0].Text)
	}
	if toks[0].Span.Len() != 6 {
		t.Errorf("string span includes quotes: len=%d", toks[0].Span.Len())
	}
	if toks[1].Text != "c" {
		t.Errorf("char body = %q", toks[1].Text)
	}
}

func TestUnterminatedStringRunsToEnd(t *testing.T) {
	lx, bag := makeTestLexer(t, `"abc`)
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Fatalf("kind = %v", tok.Kind)
	}
	// AddVirtual дописывает '\n', он входит в тело
	if tok.Text != "abc\n" {
		t.Errorf("body = %q", tok.Text)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Errorf("after literal: %v", next.Kind)
	}
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Errorf("expected a single warning, got %v", bag.Items())
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeTestLexer(t, "1 $ 2")
	if k := lx.Next().Kind; k != token.IntLit {
		t.Fatalf("first = %v", k)
	}
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("kind = %v, want Invalid", tok.Kind)
	}
	if tok.Span.Start != 2 || tok.Span.End != 3 {
		t.Errorf("span = %v", tok.Span)
	}
	d := bag.FirstError()
	if d == nil || d.Code != diag.LexUnknownChar {
		t.Fatalf("diagnostic = %v", d)
	}
}

func TestUnknownMultibyteCharacterSpansRune(t *testing.T) {
	lx, _ := makeTestLexer(t, "é")
	tok := lx.Next()
	if tok.Kind != token.Invalid || tok.Text != "é" {
		t.Fatalf("got %v %q", tok.Kind, tok.Text)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer(t, "a b")
	p := lx.Peek()
	n := lx.Next()
	if p != n || n.Text != "a" {
		t.Fatalf("peek %v next %v", p, n)
	}
	if lx.Next().Text != "b" {
		t.Fatal("second token lost")
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer(t, "")
	for range 3 {
		if k := lx.Next().Kind; k != token.EOF && k != token.NewLine {
			t.Fatalf("kind = %v", k)
		}
	}
	if k := lx.Next().Kind; k != token.EOF {
		t.Fatalf("kind = %v", k)
	}
}
