package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"zlang/internal/diag"
	"zlang/internal/project"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[project]
name = "demo"
lib = "modules"

[build]
assembler = "cc"
output = "demo.exe"
emit_asm = "demo.s"
`)
	m, err := project.LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Project.Name != "demo" || m.Assembler() != "cc" || m.Output() != "demo.exe" || m.Build.EmitAsm != "demo.s" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if !m.Build.Cache {
		t.Fatalf("cache should default to true")
	}
	if got, want := m.LibDir(), filepath.Join(dir, "modules"); got != want {
		t.Fatalf("LibDir = %q, want %q", got, want)
	}
}

func TestLoadManifestInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[project\n"},
		{"unknown key", "[project]\nnmae = \"x\"\n"},
		{"empty name", "[project]\nname = \"\"\n"},
		{"absolute lib", "[project]\nlib = \"/usr/lib\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := project.LoadManifest(path)
			d, ok := diag.DiagnosticOf(err)
			if !ok || d.Code != diag.ProjManifestInvalid {
				t.Fatalf("want %s, got %v", diag.ProjManifestInvalid.ID(), err)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[build]\ncache = false\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}
	m, err := project.Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if m.Root() != root {
		t.Fatalf("root = %q, want %q", m.Root(), root)
	}
	if m.Build.Cache {
		t.Fatalf("cache = false was not honoured")
	}
	if m.LibDir() != filepath.Join(root, project.DefaultLib) {
		t.Fatalf("LibDir = %q", m.LibDir())
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	m, err := project.Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if m.Root() != "" || m.LibDir() != project.DefaultLib || m.Assembler() != project.DefaultAssembler {
		t.Fatalf("unexpected defaults: %+v", m)
	}
}

func TestHashIsLengthPrefixed(t *testing.T) {
	a := project.Hash([]byte("ab"), []byte("c"))
	b := project.Hash([]byte("a"), []byte("bc"))
	if a == b {
		t.Fatalf("hash ignores part boundaries")
	}
	if a != project.Hash([]byte("ab"), []byte("c")) {
		t.Fatalf("hash is not deterministic")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex digest has length %d", len(a.String()))
	}
}
