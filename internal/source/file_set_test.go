package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.z", []byte("hello world\n"), 0)
	id2 := fs.Add("test.z", []byte("hello universe\n"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("test.z")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world\n" {
		t.Errorf("old version changed: %q", got)
	}
}

func TestAddVirtualAppendsNewline(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual(InlineName, []byte("1 + 2"))
	f := fs.Get(id)
	if string(f.Content) != "1 + 2\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileAddedNewline == 0 || f.Flags&FileVirtual == 0 {
		t.Errorf("flags = %b", f.Flags)
	}

	id = fs.AddVirtual(InlineName, []byte("x\n"))
	if fs.Get(id).Flags&FileAddedNewline != 0 {
		t.Errorf("newline must not be added twice")
	}
}

func TestPrepareNormalizesCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("crlf.z", []byte("\xEF\xBB\xBFlet x = 1\r\nx\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "let x = 1\nx\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.z", []byte("ab\ncd\n"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, start, tc.want)
		}
	}
	f := fs.Get(id)
	if got := f.GetLine(2); got != "cd" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q", got)
	}
}

func TestLoadArg(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.z")
	if err := os.WriteFile(path, []byte("1 + 2"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.LoadArg(path, nil)
	if err != nil {
		t.Fatalf("LoadArg(file): %v", err)
	}
	if string(fs.Get(id).Content) != "1 + 2\n" {
		t.Errorf("file content = %q", fs.Get(id).Content)
	}

	id, err = fs.LoadArg("-", strings.NewReader("3 * 4"))
	if err != nil {
		t.Fatalf("LoadArg(stdin): %v", err)
	}
	if f := fs.Get(id); f.Path != StdinName || string(f.Content) != "3 * 4\n" {
		t.Errorf("stdin file = %q %q", f.Path, f.Content)
	}

	id, err = fs.LoadArg("let x = 5; x", nil)
	if err != nil {
		t.Fatalf("LoadArg(inline): %v", err)
	}
	if f := fs.Get(id); f.Path != InlineName {
		t.Errorf("inline path = %q", f.Path)
	}

	if _, err := fs.LoadArg(filepath.Join(dir, "missing.z"), nil); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestPrepareKeepsLiteralBytes(t *testing.T) {
	decomposed := "e\u0301" // e + combining acute
	composed := "\u00e9"
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"code", "let " + decomposed + " = 1", "let " + composed + " = 1\n"},
		{"string", `puts("` + decomposed + `")`, `puts("` + decomposed + `")` + "\n"},
		{"char", "'" + decomposed + "'", "'" + decomposed + "'\n"},
		{"mixed", decomposed + ` "` + decomposed + `" ` + decomposed, composed + ` "` + decomposed + `" ` + composed + "\n"},
		{"unterminated", `x "` + decomposed, `x "` + decomposed + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, _ := prepare([]byte(tt.src))
			if string(content) != tt.want {
				t.Fatalf("prepare(%q) = %q, want %q", tt.src, content, tt.want)
			}
		})
	}
}
