package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--color=off"}, args...))
	err := cmd.Execute()
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	switch {
	case err == nil:
	case errors.As(err, new(*exitError)):
		var exit *exitError
		errors.As(err, &exit)
		code = exit.code
	default:
		errOut.WriteString(err.Error())
		code = 1
	}
	return out.String(), errOut.String(), code
}

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

func TestEvalExitCode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		out  string
		code int
	}{
		{"zero", "0", "0", 0},
		{"sum", "40 + 2", "42", 42},
		{"puts", `puts("hi"); 1`, "hi", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, code := execute(t, "eval", tt.src)
			if code != tt.code {
				t.Fatalf("exit code = %d, want %d", code, tt.code)
			}
			if !strings.Contains(out, tt.out) {
				t.Fatalf("stdout %q misses %q", out, tt.out)
			}
		})
	}
}

func TestEvalRuntimeError(t *testing.T) {
	_, errOut, code := execute(t, "eval", "1 / 0")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if errOut == "" {
		t.Fatal("expected a runtime error on stderr")
	}
}

func TestEvalDiagnostics(t *testing.T) {
	_, errOut, code := execute(t, "eval", "(1 + 2")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "SYN") {
		t.Fatalf("stderr misses a syntax diagnostic: %q", errOut)
	}
}

func TestLexJSON(t *testing.T) {
	out, _, code := execute(t, "--format=json", "lex", "let x = 1")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var tokens []map[string]any
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("lex output is not json: %v\n%s", err, out)
	}
	if len(tokens) == 0 {
		t.Fatal("no tokens")
	}
	if _, ok := tokens[0]["kind"]; !ok {
		t.Fatalf("token without kind: %v", tokens[0])
	}
}

func TestParsePretty(t *testing.T) {
	out, _, code := execute(t, "parse", "fn sq(n int) { n * n } sq(3)")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"Fn", "Binary", "Call"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree misses %q:\n%s", want, out)
		}
	}
}

func TestEvalWithLib(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, lib, "math.z", "fn add(a int, b int) { a + b }\n")
	prog := writeFile(t, t.TempDir(), "main.z", "use math\nmath.add(2, 3)\n")

	out, _, code := execute(t, "--lib", lib, "eval", prog)
	if code != 5 {
		t.Fatalf("exit code = %d, want 5", code)
	}
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.z", "let x = 1; x + 1\n")
	writeFile(t, dir, "bad.z", "fn f(a) { a }\n")

	out, errOut, code := execute(t, "check", "--ui=off", "--jobs=2", dir)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "checked 2 files, 1 failed") {
		t.Fatalf("summary missing: %q", out)
	}
	if !strings.Contains(errOut, "bad.z") {
		t.Fatalf("diagnostics for bad.z missing: %q", errOut)
	}
}

func TestCheckClean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.z", "1\n")
	out, _, code := execute(t, "--quiet", "check", "--ui=off", dir)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != "" {
		t.Fatalf("quiet check printed %q", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, code := execute(t, "--format=json", "version")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("version output is not json: %v", err)
	}
	if payload["tool"] != "zc" || payload["version"] == "" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestCompileNoLink(t *testing.T) {
	dir := t.TempDir()
	asm := filepath.Join(dir, "out.s")
	out, errOut, code := execute(t, "compile", "--ui=off", "--no-cache", "--no-link",
		"--emit-asm", asm, "fn sq(n int) { n * n } sq(4)")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "wrote "+asm) {
		t.Fatalf("stdout = %q", out)
	}
	data, err := os.ReadFile(asm)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ".intel_syntax noprefix") {
		t.Fatalf("not an intel-syntax listing:\n%s", data)
	}
}

func TestUnknownFormat(t *testing.T) {
	_, errOut, code := execute(t, "--format=yaml", "eval", "1")
	if code != 1 || !strings.Contains(errOut, "unsupported format") {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}
