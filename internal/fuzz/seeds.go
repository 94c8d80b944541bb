package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var languageSeeds = []string{
	"",
	"1 + 2 * 3",
	"let x = 5; x = x + 1; x",
	"let a [3]int; a[0] = 1; a[1] = 2; a[2] = 3; a[1]",
	"fn add(a int, b int) { a + b } add(2,3)",
	"let x = 1; let p = &x; *p = 9; x",
	"let i = 0; for i < 3 { i = i + 1 } if i == 3 { 1 } else { 0 }",
	`let s = "hey"; puts(s); 'c'`,
	"fn sq(n int) { n * n } #sq(7)",
	"let a = [4, 5, 6]; let p = &a; *(p + 1)",
	"fn fact(n int) { if n < 2 { 1 } else { n * fact(n - 1) } } fact(5)",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds добавляет все *.z/*.zs из testdata, если он есть.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".z" && ext != ".zs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
