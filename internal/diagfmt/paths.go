package diagfmt

import (
	"path/filepath"
	"strings"

	"zlang/internal/source"
)

func formatPath(f *source.File, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	// виртуальные файлы (<inline>, <stdin>) печатаем как есть
	if strings.HasPrefix(f.Path, "<") {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAuto:
		return f.Path
	default:
		return f.Path
	}
}
