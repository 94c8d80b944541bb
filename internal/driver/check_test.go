package driver_test

import (
	"context"
	"path/filepath"
	"testing"

	"zlang/internal/diag"
	"zlang/internal/driver"
)

func TestListSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.z", "1")
	writeFile(t, dir, "a.zs", "2")
	writeFile(t, dir, "notes.txt", "skip")
	writeFile(t, dir, "sub/c.z", "3")

	files, err := driver.ListSources([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.zs"),
		filepath.Join(dir, "b.z"),
		filepath.Join(dir, "sub", "c.z"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}

	if _, err := driver.ListSources([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("missing path must fail")
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	lib := t.TempDir()
	writeFile(t, lib, "util.z", "fn one() { 1 }\n")
	good := writeFile(t, dir, "good.z", "use util\nlet x = util.one(); x + 1\n")
	bad := writeFile(t, dir, "bad.z", "fn f(a) { a }\n")
	lexBad := writeFile(t, dir, "nested/lex.z", "1 $ 2\n")

	var started, finished []string
	results, err := driver.CheckFiles(context.Background(), []string{dir}, driver.CheckOptions{
		Jobs:    2,
		LibDir:  lib,
		OnStart: func(path string) { started = append(started, path) },
		OnFile:  func(r driver.CheckResult) { finished = append(finished, r.Path) },
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(results) != 3 || len(started) != 3 || len(finished) != 3 {
		t.Fatalf("results=%d started=%d finished=%d", len(results), len(started), len(finished))
	}

	byPath := make(map[string]driver.CheckResult)
	for _, r := range results {
		byPath[r.Path] = r
	}
	if r := byPath[good]; !r.OK() {
		t.Fatalf("good.z failed: %v", r.Err)
	}
	tests := []struct {
		path string
		code diag.Code
	}{
		{bad, diag.SynExpectType},
		{lexBad, diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			r := byPath[tt.path]
			if r.OK() {
				t.Fatalf("%s should fail", tt.path)
			}
			if d := r.Bag.FirstError(); d == nil || d.Code != tt.code {
				t.Fatalf("first error = %v, want %s", d, tt.code.ID())
			}
		})
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.z", "1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.CheckFiles(ctx, []string{dir}, driver.CheckOptions{}); err == nil {
		t.Fatalf("cancelled check must fail")
	}
}
