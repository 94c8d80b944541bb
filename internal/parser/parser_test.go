package parser_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/module"
	"zlang/internal/symbols"
	"zlang/internal/types"
)

type parsed struct {
	reg *module.Registry
	mod *module.Module
	bag *diag.Bag
}

func parseWithLib(t *testing.T, libDir, src string) (parsed, error) {
	t.Helper()
	reg := module.NewRegistry(context.Background(), module.Options{LibDir: libDir})
	bag := diag.NewBag(50)
	mod, err := reg.NewCode(src, diag.BagReporter{Bag: bag})
	return parsed{reg: reg, mod: mod, bag: bag}, err
}

func mustParse(t *testing.T, src string) parsed {
	t.Helper()
	p, err := parseWithLib(t, t.TempDir(), src)
	if err != nil {
		t.Fatalf("parse %q: %v (%s)", src, err, diagnosticsSummary(p.bag))
	}
	return p
}

func expectError(t *testing.T, src string, code diag.Code) {
	t.Helper()
	p, err := parseWithLib(t, t.TempDir(), src)
	if err == nil {
		t.Fatalf("expected %s for %q", code.ID(), src)
	}
	d, ok := diag.DiagnosticOf(err)
	if !ok || d.Code != code {
		t.Fatalf("expected %s for %q, got %v (%s)", code.ID(), src, err, diagnosticsSummary(p.bag))
	}
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func (p parsed) stmts(t *testing.T) []ast.ExprID {
	t.Helper()
	block, ok := p.mod.Builder.Exprs.Block(p.mod.Root)
	if !ok {
		t.Fatalf("root is not a block")
	}
	return block.Stmts
}

func (p parsed) kind(id ast.ExprID) ast.ExprKind {
	return p.mod.Builder.Exprs.Get(id).Kind
}

func (p parsed) typeLabel(id ast.ExprID) string {
	return types.Label(p.reg.Types(), p.mod.Builder.Exprs.Get(id).Type)
}

func (p parsed) symbolOf(id ast.ExprID) *symbols.Symbol {
	table := p.reg.Symbols()
	return table.Get(table.Resolve(p.mod.Bindings.Of(id)))
}

func TestSpecExamplesParse(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stmts int
	}{
		{"arith", "1 + 2 * 3", 1},
		{"let", "let x = 5; x = x + 1; x", 3},
		{"array", "let a [3]int; a[0] = 1; a[1] = 2; a[2] = 3; a[1]", 5},
		{"fn", "fn add(a int, b int) { a + b } add(2,3)", 2},
		{"pointer", "let x = 1; let p = &x; *p = 9; x", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParse(t, tt.src)
			if got := len(p.stmts(t)); got != tt.stmts {
				t.Fatalf("got %d statements, want %d", got, tt.stmts)
			}
			for _, id := range p.stmts(t) {
				if p.mod.Builder.Exprs.Get(id).Type == types.NoTypeID {
					t.Fatalf("statement %v left untyped", id)
				}
			}
		})
	}
}

func TestPrecedence(t *testing.T) {
	p := mustParse(t, "1 + 2 * 3")
	top := p.stmts(t)[0]
	b, ok := p.mod.Builder.Exprs.Binary(top)
	if !ok || b.Op != ast.BinAdd {
		t.Fatalf("top is %v, want +", p.kind(top))
	}
	rhs, ok := p.mod.Builder.Exprs.Binary(b.Right)
	if !ok || rhs.Op != ast.BinMul {
		t.Fatalf("rhs is %v, want *", p.kind(b.Right))
	}
}

func TestGreaterIsDesugared(t *testing.T) {
	tests := []struct {
		src string
		op  ast.BinaryOp
	}{
		{"5 > 3", ast.BinLt},
		{"5 >= 3", ast.BinLe},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := mustParse(t, tt.src)
			b, ok := p.mod.Builder.Exprs.Binary(p.stmts(t)[0])
			if !ok || b.Op != tt.op {
				t.Fatalf("op = %v, want %v", b.Op, tt.op)
			}
			lhs, _ := p.mod.Builder.Exprs.Literal(b.Left)
			if lhs.Value != 3 {
				t.Fatalf("operands not swapped: left = %d", lhs.Value)
			}
			if p.typeLabel(p.stmts(t)[0]) != "int" {
				t.Fatalf("comparison typed %s", p.typeLabel(p.stmts(t)[0]))
			}
		})
	}
}

func TestSeparators(t *testing.T) {
	mustParse(t, "\n\n1;;2\n\n3\n")
	mustParse(t, "if 1 { 2 } else { 3 } 4")
	mustParse(t, "{ 1; 2 }")
	expectError(t, "1 2", diag.SynExpectSeparator)
}

func TestLetDeclaresBeforeInitializer(t *testing.T) {
	p := mustParse(t, "let x = x + 1")
	if !p.bag.HasWarnings() {
		t.Fatalf("expected operand type warning")
	}
	assign, _ := p.mod.Builder.Exprs.Assign(p.stmts(t)[0])
	if sym := p.symbolOf(assign.Target); sym == nil || types.Label(p.reg.Types(), sym.Type) != "int" {
		t.Fatalf("x not back-filled with int")
	}
}

func TestLetTypes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let a [3]int", "[3]int"},
		{"let p *char", "*char"},
		{"let m [2][4]char", "[2][4]char"},
		{"let c = 'z'", "char"},
		{"let s = \"hello\"", "str(5)"},
		{"let x = 1; let p = &x", "*int"},
		{"let a [3]int; let p = &a", "*int"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := mustParse(t, tt.src)
			stmts := p.stmts(t)
			last := stmts[len(stmts)-1]
			if a, ok := p.mod.Builder.Exprs.Assign(last); ok {
				last = a.Target
			}
			sym := p.symbolOf(last)
			if got := types.Label(p.reg.Types(), sym.Type); got != tt.want {
				t.Fatalf("type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScopeVisibility(t *testing.T) {
	expectError(t, "{ let y = 1 }\ny", diag.SemaUndefinedIdent)

	// внутренняя переменная затеняет внешнюю только внутри блока
	p := mustParse(t, "let x = 1\n{ let x = 'a'\n x }\nx")
	stmts := p.stmts(t)
	block, _ := p.mod.Builder.Exprs.Block(stmts[1])
	if got := p.typeLabel(block.Stmts[1]); got != "char" {
		t.Fatalf("inner x typed %s, want char", got)
	}
	if got := p.typeLabel(stmts[2]); got != "int" {
		t.Fatalf("outer x typed %s after block, want int", got)
	}

	// внешнее имя видно во вложенном блоке
	mustParse(t, "let z = 1\n{ { z } }")
}

func TestFunctions(t *testing.T) {
	t.Run("recursion", func(t *testing.T) {
		p := mustParse(t, "fn f(n int) { if n < 1 { 0 } else { f(n - 1) } }")
		sym := p.symbolOf(p.stmts(t)[0])
		if sym.Kind != symbols.SymbolFunc || len(sym.Params) != 1 || !sym.Body.IsValid() {
			t.Fatalf("bad fn symbol %+v", sym)
		}
		if got := types.Label(p.reg.Types(), sym.Type); got != "fn(int) int" {
			t.Fatalf("fn type %s", got)
		}
	})
	t.Run("extern", func(t *testing.T) {
		p := mustParse(t, "fn write(fd int, buf *char, n int)")
		sym := p.symbolOf(p.stmts(t)[0])
		if !sym.IsExtern() || sym.Body.IsValid() {
			t.Fatalf("expected extern fn")
		}
	})
	t.Run("params are local", func(t *testing.T) {
		expectError(t, "fn f(a int) { a }\na", diag.SemaUndefinedIdent)
	})
	t.Run("param needs type", func(t *testing.T) {
		expectError(t, "fn f(a) { a }", diag.SynExpectType)
	})
	t.Run("arg count", func(t *testing.T) {
		expectError(t, "fn f(a int) { a }\nf(1, 2)", diag.SemaArgCountMismatch)
	})
	t.Run("builtin puts", func(t *testing.T) {
		mustParse(t, "puts(\"hi\")")
	})
}

func TestLiteralConstants(t *testing.T) {
	p := mustParse(t, "\"ab\"\n'c'")
	stmts := p.stmts(t)
	str := p.symbolOf(stmts[0])
	ch := p.symbolOf(stmts[1])
	if str.Name != "L..0" || ch.Name != "L..1" {
		t.Fatalf("names %s, %s", str.Name, ch.Name)
	}
	if str.Kind != symbols.SymbolConst || !str.IsGlobal() || string(str.Bytes) != "ab" {
		t.Fatalf("bad string const %+v", str)
	}
	if string(ch.Bytes) != "c" || types.Label(p.reg.Types(), ch.Type) != "char" {
		t.Fatalf("bad char const %+v", ch)
	}
}

func TestTypeDecl(t *testing.T) {
	p := mustParse(t, "type Point {\n x int\n y int\n}\nlet p Point")
	decl, ok := p.mod.Builder.Exprs.TypeDecl(p.stmts(t)[0])
	if !ok || len(decl.Fields) != 2 {
		t.Fatalf("bad type decl")
	}
	sym := p.symbolOf(p.stmts(t)[1])
	if sym.Type != decl.Type {
		t.Fatalf("let p Point typed %s", types.Label(p.reg.Types(), sym.Type))
	}
	expectError(t, "let q Nope", diag.SemaUnknownType)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"(1 + 2", diag.SynExpectRParen},
		{"if 1 2", diag.SynExpectLBrace},
		{"{ 1", diag.SynExpectRBrace},
		{"let a [n]int", diag.SynArrayNeedsLength},
		{"let", diag.SynExpectIdentifier},
		{"1 +", diag.SynExpectExpression},
		{"undefined_name", diag.SemaUndefinedIdent},
		{"1 = 2", diag.SemaNotAddressable},
		{"&3", diag.SemaNotAddressable},
		{"(1)(2)", diag.SynNotCallable},
		{"let x = 1; *x", diag.SemaDerefNonPointer},
		{"let p *int; let q *int; p + q", diag.SemaInvalidPtrArith},
		{"let p *int; 1 - p", diag.SemaInvalidPtrArith},
		{"let x = 1; x.y", diag.SemaNotAModule},
		{"99999999999999999999", diag.LexBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expectError(t, tt.src, tt.code)
		})
	}
}

func TestUnknownCharStopsParse(t *testing.T) {
	p, err := parseWithLib(t, t.TempDir(), "1 + @")
	if err == nil {
		t.Fatalf("expected error")
	}
	if p.bag.Len() != 1 || p.bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("want a single LexUnknownChar, got %s", diagnosticsSummary(p.bag))
	}
}

func writeLib(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestUseModule(t *testing.T) {
	lib := writeLib(t, map[string]string{
		"math.z": "fn two() { 2 }\nfn add(a int, b int) { a + b }\n",
	})
	p, err := parseWithLib(t, lib, "use math\nmath.add(math.two(), 3)\nuse math")
	if err != nil {
		t.Fatalf("parse: %v (%s)", err, diagnosticsSummary(p.bag))
	}
	if _, ok := p.reg.Module("math"); !ok {
		t.Fatalf("math not registered")
	}
	if len(p.reg.Modules()) != 2 {
		t.Fatalf("modules = %d, want 2 (math loaded once)", len(p.reg.Modules()))
	}
	call, ok := p.mod.Builder.Exprs.Call(p.stmts(t)[1])
	if !ok || p.kind(call.Callee) != ast.ExprPath {
		t.Fatalf("callee is not a path")
	}
	if sym := p.symbolOf(call.Callee); sym == nil || sym.Name != "add" || sym.Kind != symbols.SymbolFunc {
		t.Fatalf("path does not resolve to math.add")
	}
}

func TestUseErrors(t *testing.T) {
	lib := writeLib(t, map[string]string{
		"a.z":   "use b\n",
		"b.z":   "use a\n",
		"bad.z": "1 +\n",
		"m.z":   "fn f() { 1 }\n",
	})
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"use missing", diag.IOLoadFileError},
		{"use a", diag.SemaImportCycle},
		{"use bad", diag.SynExpectExpression},
		{"use m\nm.g", diag.SemaUndefinedMember},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := parseWithLib(t, lib, tt.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			found := false
			for _, d := range p.bag.Items() {
				found = found || d.Code == tt.code
			}
			if !found {
				t.Fatalf("missing %s in %s", tt.code.ID(), diagnosticsSummary(p.bag))
			}
		})
	}
}

func TestSymbolTableValid(t *testing.T) {
	p := mustParse(t, "let x = 1\nfn f(a int) { let y = a\n { let z = y } }\nf(x)\n\"s\"")
	if err := p.reg.Symbols().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
