package x86_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"zlang/internal/backend/x86"
	"zlang/internal/diag"
	"zlang/internal/module"
	"zlang/internal/vm"
)

type program struct {
	reg *module.Registry
	mod *module.Module
}

func parse(t *testing.T, libDir, src string) program {
	t.Helper()
	if libDir == "" {
		libDir = t.TempDir()
	}
	reg := module.NewRegistry(context.Background(), module.Options{LibDir: libDir})
	mod, err := reg.NewCode(src, diag.BagReporter{Bag: diag.NewBag(20)})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return program{reg: reg, mod: mod}
}

func generate(t *testing.T, src string) string {
	t.Helper()
	p := parse(t, "", src)
	asm, err := x86.Generate(context.Background(), p.reg, p.mod, x86.Options{Folder: vm.New(p.reg, vm.Options{})})
	if err != nil {
		t.Fatalf("generate %q: %v", src, err)
	}
	return asm
}

func generateErr(t *testing.T, src string, code diag.Code) {
	t.Helper()
	p := parse(t, "", src)
	_, err := x86.Generate(context.Background(), p.reg, p.mod, x86.Options{})
	d, ok := diag.DiagnosticOf(err)
	if !ok || d.Code != code {
		t.Fatalf("generate %q: want %s, got %v", src, code.ID(), err)
	}
}

func mustContain(t *testing.T, asm string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(asm, part) {
			t.Fatalf("assembly lacks %q:\n%s", part, asm)
		}
	}
}

func TestExamplesAssembly(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		parts []string
	}{
		{"arith", "1 + 2 * 3", []string{"mov rax, 2", "imul rax, rdi", "add rax, rdi"}},
		{"let", "let x = 5; x = x + 1; x", []string{"lea rax, [rbp-8]", "mov [rdi], rax", "mov rax, [rax]"}},
		{"array", "let a [3]int; a[0] = 1; a[1] = 2; a[2] = 3; a[1]", []string{"sub rsp, 32", "lea rax, [rbp-24]", "imul rax, 8"}},
		{"fn", "fn add(a int, b int) { a + b } add(2,3)", []string{
			"  .global add\nadd:", "mov [rbp-8], rdi", "mov [rbp-16], rsi", "pop rsi", "pop rdi", "mov rax, 0\n  call add",
		}},
		{"pointer", "let x = 1; let p = &x; *p = 9; x", []string{"lea rax, [rbp-8]", "lea rax, [rbp-16]", "sub rsp, 16"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm := generate(t, tt.src)
			mustContain(t, asm, "  .intel_syntax noprefix\n", "  .global main\nmain:\n", "  push rbp\n  mov rbp, rsp\n")
			mustContain(t, asm, "  mov rsp, rbp\n  pop rbp\n  ret\n")
			mustContain(t, asm, tt.parts...)
		})
	}
}

func TestMainComesFirst(t *testing.T) {
	asm := generate(t, "fn two() { 2 } two()")
	if strings.Index(asm, "main:") > strings.Index(asm, "two:") {
		t.Fatalf("main is not the first function:\n%s", asm)
	}
}

func TestSevenArgumentsRejected(t *testing.T) {
	generateErr(t, "fn f(a int, b int, c int, d int, e int, g int, h int) { a }\nf(1, 2, 3, 4, 5, 6, 7)", diag.SemaTooManyArgs)
	// шесть ещё помещаются в регистры
	asm := generate(t, "fn f(a int, b int, c int, d int, e int, g int) { g }\nf(1, 2, 3, 4, 5, 6)")
	mustContain(t, asm, "pop r9", "mov [rbp-48], r9")
}

func TestPointerScaling(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		parts []string
	}{
		{"int pointer plus", "let a = [1, 2, 3]; let p = &a; *(p + 2)", []string{"imul rdi, 8", "add rax, rdi"}},
		{"int pointer minus pointer", "let a = [1, 2, 3]; let p = &a; let q = p + 2; q - p", []string{"sub rax, rdi", "mov rdi, 8", "cqo", "idiv rdi"}},
		{"char pointer", `let s = "abc"; let p = &s; *(p + 1)`, []string{"movzx rax, byte ptr [rax]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustContain(t, generate(t, tt.src), tt.parts...)
		})
	}
	if asm := generate(t, `let s = "abc"; let p = &s; *(p + 1)`); strings.Contains(asm, "imul rdi") {
		t.Fatalf("char pointer offset must not be scaled:\n%s", asm)
	}
}

func TestLabelsShareOneCounter(t *testing.T) {
	asm := generate(t, "if 1 { 2 } else { 3 }\nfor 0 { 1 }")
	mustContain(t, asm,
		"je .L.else.1", ".L.else.1:", "jmp .L.end.1", ".L.end.1:",
		".L.begin.2:", "je .L.end.2", "jmp .L.begin.2", ".L.end.2:")
}

func TestDataSection(t *testing.T) {
	asm := generate(t, `puts("hi"); 'c'`)
	mustContain(t, asm, "  .data\n", "L..0:\n  .byte 104, 105, 0\n", "L..1:\n  .byte 99, 0\n",
		"lea rax, [rip+L..0]", "call puts", "movzx rax, byte ptr [rax]")
}

func TestCharParameterUsesByteRegister(t *testing.T) {
	asm := generate(t, "fn f(c char) { c } f('a')")
	mustContain(t, asm, "mov [rbp-1], dil")
}

func TestImportedFunctionsArePrefixed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "math.z"), []byte("fn add(a int, b int) { a + b }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := parse(t, dir, "use math\nmath.add(1, 2)")
	asm, err := x86.Generate(context.Background(), p.reg, p.mod, x86.Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	mustContain(t, asm, "  .global math.add\nmath.add:", "call math.add")
}

func TestCompileTimeCallIsFolded(t *testing.T) {
	asm := generate(t, "fn sq(n int) { n * n } #sq(7)")
	mustContain(t, asm, "mov rax, 49")
	if strings.Contains(asm, "call sq") {
		t.Fatalf("#sq was called at run time:\n%s", asm)
	}
	generateErr(t, "fn sq(n int) { n * n } #sq(7)", diag.SemaUnsupported)
}

func TestCompileTimeCallRejectsVariables(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"global argument", "fn sq(n int) { n * n } let n = 5; #sq(n)"},
		{"global inside expression", "fn sq(n int) { n * n } let n = 5; #sq(n + 1)"},
		{"parameter argument", "fn sq(n int) { n * n } fn g(k int) { #sq(k) } g(2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, "", tt.src)
			_, err := x86.Generate(context.Background(), p.reg, p.mod, x86.Options{Folder: vm.New(p.reg, vm.Options{})})
			d, ok := diag.DiagnosticOf(err)
			if !ok || d.Code != diag.SemaUnsupported {
				t.Fatalf("want %s, got %v", diag.SemaUnsupported.ID(), err)
			}
			if !strings.Contains(d.Message, "reads variable") {
				t.Fatalf("unexpected message %q", d.Message)
			}
		})
	}

	// константы и литералы по-прежнему сворачиваются
	asm := generate(t, "fn sq(n int) { n * n } #sq(2 + 3)")
	mustContain(t, asm, "mov rax, 25")
}

func TestUnsupportedAccess(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"capture", "fn outer(a int) { fn inner(b int) { a + b } inner(1) } outer(41)"},
		{"module variable", "let g = 1; fn f() { g } f()"},
		{"array literal value", "[1, 2] + 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generateErr(t, tt.src, diag.SemaUnsupported)
		})
	}
}

// TestNativeParity assembles and runs programs with clang and compares the
// exit status with the interpreter.
func TestNativeParity(t *testing.T) {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		t.Skip("native code needs linux/amd64")
	}
	clang, err := exec.LookPath("clang")
	if err != nil {
		t.Skip("clang not found")
	}
	tests := []struct {
		name string
		src  string
	}{
		{"arith", "1 + 2 * 3"},
		{"let", "let x = 5; x = x + 1; x"},
		{"array", "let a [3]int; a[0] = 1; a[1] = 2; a[2] = 3; a[1]"},
		{"fn", "fn add(a int, b int) { a + b } add(2,3)"},
		{"pointer", "let x = 1; let p = &x; *p = 9; x"},
		{"recursion", "fn fib(n int) { if n < 2 { n } else { fib(n - 1) + fib(n - 2) } } fib(10)"},
		{"loop", "let i = 0; let s = 0; for i < 5 { s = s + i; i = i + 1 } s"},
		{"pointer arithmetic", "let a = [4, 5, 6]; let p = &a; let q = p + 2; *q + (q - p)"},
		{"comparison", "(3 < 4) + (4 <= 4) + (5 == 5) + (5 != 5) + !0"},
		{"puts", `puts("hello"); 3`},
		{"char variable wraps", "let c = 'a'; c = c + 200; c < 100"},
		{"char element wraps", "let a [3]char; a[0] = 300; a[0] < 100"},
		{"char parameter wraps", "fn f(c char) { c < 100 } f(300)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, "", tt.src)
			v, err := vm.New(p.reg, vm.Options{Stdout: &strings.Builder{}}).Run(context.Background(), p.mod)
			if err != nil {
				t.Fatalf("interpret: %v", err)
			}
			want := vm.ExitCode(v) & 0xff

			asm, err := x86.Generate(context.Background(), p.reg, p.mod, x86.Options{})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			dir := t.TempDir()
			asmPath := filepath.Join(dir, "app.s")
			exePath := filepath.Join(dir, "app.exe")
			if err := os.WriteFile(asmPath, []byte(asm), 0o600); err != nil {
				t.Fatal(err)
			}
			if out, err := exec.Command(clang, "-o", exePath, asmPath).CombinedOutput(); err != nil {
				t.Fatalf("clang: %v\n%s\n%s", err, out, asm)
			}
			got := 0
			if err := exec.Command(exePath).Run(); err != nil {
				var exitErr *exec.ExitError
				if !errors.As(err, &exitErr) {
					t.Fatalf("run: %v", err)
				}
				got = exitErr.ExitCode()
			}
			if got != want {
				t.Fatalf("native exit %d, interpreter %d\n%s", got, want, asm)
			}
		})
	}
}
