package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"zlang/internal/diag"
	"zlang/internal/source"
)

func prettyFixture(t *testing.T, content string, start, end uint32) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.z", []byte(content))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{File: fileID, Start: start, End: end}, "unknown character '$'"))
	return bag, fs
}

func TestPrettyCaretUnderColumn(t *testing.T) {
	bag, fs := prettyFixture(t, "let x = 1\nx + $\n", 14, 15)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output too short:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "/home/user/project/src/test.z:2:5: error LEX1001:") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "| x + $") {
		t.Errorf("source line = %q", lines[1])
	}
	src := strings.Index(lines[1], "x + $")
	caret := strings.Index(lines[2], "^")
	if caret-src != 4 {
		t.Errorf("caret at %d, source starts at %d:\n%s", caret, src, buf.String())
	}
}

func TestPrettyCaretWideRunes(t *testing.T) {
	// "日本" занимает 4 колонки в терминале
	content := "\"日本\" $\n"
	off := uint32(strings.Index(content, "$")) // #nosec G115
	bag, fs := prettyFixture(t, content, off, off+1)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	lines := strings.Split(buf.String(), "\n")
	bar := strings.Index(lines[2], "|")
	caret := strings.Index(lines[2], "^")
	// '"' + 4 + '"' + ' ' = 7 колонок до '$', плюс пробел после '|'
	if caret-bar != 2+7 {
		t.Errorf("caret offset %d:\n%s", caret-bar, buf.String())
	}
}

func TestPrettyUnderlinesWholeSpan(t *testing.T) {
	bag, fs := prettyFixture(t, "foo bar\n", 4, 7)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "^~~") {
		t.Errorf("expected ^~~ underline:\n%s", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	bag, fs := prettyFixture(t, "$\n", 0, 1)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Auto", PathModeAuto, "/home/user/project/src/test.z:1:1"},
		{"Basename", PathModeBasename, "test.z:1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.HasPrefix(buf.String(), tt.contains) {
				t.Errorf("expected prefix %q, got %q", tt.contains, buf.String())
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := prettyFixture(t, "a\n$\n", 2, 3)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "LEX1001" {
		t.Fatalf("unexpected output %+v", out)
	}
	if loc := out.Diagnostics[0].Location; loc.StartLine != 2 || loc.StartCol != 1 {
		t.Errorf("location = %+v", loc)
	}
}
