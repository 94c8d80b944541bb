package driver_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zlang/internal/diag"
	"zlang/internal/driver"
	"zlang/internal/project"
	"zlang/internal/token"
	"zlang/internal/vm"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func expectCode(t *testing.T, err error, bag *diag.Bag, code diag.Code) {
	t.Helper()
	d, ok := diag.DiagnosticOf(err)
	if !ok || d.Code != code {
		t.Fatalf("want %s, got %v", code.ID(), err)
	}
	if first := bag.FirstError(); first == nil || first.Code != code {
		t.Fatalf("bag does not carry %s: %v", code.ID(), first)
	}
}

func TestTokenizeInline(t *testing.T) {
	res, err := driver.Tokenize(context.Background(), driver.Request{Source: "let x = 1"})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(res.Tokens) != 5 || res.Tokens[len(res.Tokens)-1].Kind != token.EOF {
		t.Fatalf("unexpected tokens: %v", res.Tokens)
	}
	if res.File == nil || res.File.Path != "<inline>" {
		t.Fatalf("unexpected file: %+v", res.File)
	}
}

func TestTokenizeErrors(t *testing.T) {
	res, err := driver.Tokenize(context.Background(), driver.Request{Source: "1 $ 2"})
	expectCode(t, err, res.Bag, diag.LexUnknownChar)

	res, err = driver.Tokenize(context.Background(), driver.Request{Source: filepath.Join(t.TempDir(), "missing.z")})
	expectCode(t, err, res.Bag, diag.IOLoadFileError)
}

func TestParse(t *testing.T) {
	res, err := driver.Parse(context.Background(), driver.Request{Source: "fn f(a int) { a } f(1)"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Module == nil || res.Module.Name != "main" {
		t.Fatalf("unexpected module: %+v", res.Module)
	}
	report := res.Timer.Report()
	if len(report.Phases) != 2 || report.Phases[0].Name != "parse" || report.Phases[1].Name != "typecheck" {
		t.Fatalf("unexpected phases: %+v", report.Phases)
	}
}

func TestParseError(t *testing.T) {
	res, err := driver.Parse(context.Background(), driver.Request{Source: "(1 + 2"})
	expectCode(t, err, res.Bag, diag.SynExpectRParen)
	if res.Module != nil {
		t.Fatalf("module should be nil after a parse error")
	}
}

func TestPhaseObserver(t *testing.T) {
	var events []driver.PhaseEvent
	_, err := driver.Eval(context.Background(), driver.Request{
		Source:   "2 + 2",
		Stdout:   &bytes.Buffer{},
		Observer: func(ev driver.PhaseEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	var names []string
	for _, ev := range events {
		if ev.Status == driver.PhaseEnd {
			names = append(names, ev.Name)
		}
	}
	if got := strings.Join(names, ","); got != "parse,typecheck,eval" {
		t.Fatalf("phases = %s", got)
	}
	if len(events) != 6 {
		t.Fatalf("want start and end per phase, got %d events", len(events))
	}
}

func TestEval(t *testing.T) {
	var out bytes.Buffer
	res, err := driver.Eval(context.Background(), driver.Request{
		Source: `puts("hi"); 7 * 6`,
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if res.ExitCode != 42 || res.Value.Int != 42 {
		t.Fatalf("exit = %d, value = %s", res.ExitCode, res.Value)
	}
	if out.String() != "hi\n" {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestEvalWithLibrary(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, lib, "math.z", "fn add(a int, b int) { a + b }\n")
	prog := writeFile(t, t.TempDir(), "main.z", "use math\nmath.add(40, 2)\n")

	res, err := driver.Eval(context.Background(), driver.Request{Source: prog, LibDir: lib})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if res.ExitCode != 42 {
		t.Fatalf("exit = %d", res.ExitCode)
	}
	if got := len(res.Registry.Modules()); got != 2 {
		t.Fatalf("want 2 modules, got %d", got)
	}
}

func TestEvalRuntimeError(t *testing.T) {
	res, err := driver.Eval(context.Background(), driver.Request{Source: "1 / 0"})
	var vmErr *vm.VMError
	if !errors.As(err, &vmErr) || vmErr.Code != vm.PanicDivByZero {
		t.Fatalf("want division by zero, got %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("runtime errors must stay out of the bag")
	}
}

func TestCompile(t *testing.T) {
	res, err := driver.Compile(context.Background(), driver.Request{Source: "fn sq(n int) { n * n } sq(3)"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, want := range []string{".intel_syntax noprefix", "main:", "sq:", "call sq"} {
		if !strings.Contains(res.Asm, want) {
			t.Errorf("asm misses %q", want)
		}
	}
	if res.CacheHit {
		t.Fatalf("no cache was configured")
	}
}

func TestCompileCache(t *testing.T) {
	cache, err := driver.NewAsmCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	req := driver.Request{Source: "fn sq(n int) { n * n } #sq(5)", Cache: cache}

	first, err := driver.Compile(context.Background(), req)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	if first.CacheHit {
		t.Fatalf("first compile should miss")
	}
	second, err := driver.Compile(context.Background(), req)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !second.CacheHit || second.Asm != first.Asm {
		t.Fatalf("second compile should hit with identical asm")
	}

	changed := req
	changed.Source = "fn sq(n int) { n * n } #sq(6)"
	third, err := driver.Compile(context.Background(), changed)
	if err != nil {
		t.Fatalf("third compile: %v", err)
	}
	if third.CacheHit || !strings.Contains(third.Asm, "mov rax, 36") {
		t.Fatalf("changed source must miss the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	again, err := driver.Compile(context.Background(), req)
	if err != nil || again.CacheHit {
		t.Fatalf("after DropAll: hit=%v err=%v", again.CacheHit, err)
	}
}

func TestCompileUnsupported(t *testing.T) {
	res, err := driver.Compile(context.Background(), driver.Request{
		Source: "fn outer(a int) { fn inner() { a } inner() } outer(1)",
	})
	expectCode(t, err, res.Bag, diag.SemaUnsupported)
}

func TestNilCache(t *testing.T) {
	var cache *driver.AsmCache
	var out driver.AsmPayload
	key := project.Hash([]byte("x"))
	if err := cache.Put(key, &driver.AsmPayload{Asm: "x"}); err != nil {
		t.Fatalf("nil cache Put: %v", err)
	}
	if hit, err := cache.Get(key, &out); hit || err != nil {
		t.Fatalf("nil cache Get = %v, %v", hit, err)
	}
}
