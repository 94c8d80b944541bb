package source

import (
	"fmt"
	"io"
	"strings"
)

const (
	// StdinArg is the sentinel argument that reads the program from standard input.
	StdinArg = "-"
	// InlineName is the path recorded for inline source text.
	InlineName = "<inline>"
	// StdinName is the path recorded for programs read from standard input.
	StdinName = "<stdin>"
)

// IsSourcePath reports whether a command-line argument names a file (or stdin)
// rather than carrying the program text itself.
func IsSourcePath(arg string) bool {
	return arg == StdinArg || strings.HasSuffix(arg, ".z") || strings.HasSuffix(arg, ".zs")
}

// LoadArg turns a command-line argument into a file of the set.
// "-" buffers stdin fully, "*.z"/"*.zs" are read from disk, anything else is inline code.
func (fileSet *FileSet) LoadArg(arg string, stdin io.Reader) (FileID, error) {
	switch {
	case arg == StdinArg:
		if stdin == nil {
			return 0, fmt.Errorf("no standard input available")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return 0, fmt.Errorf("read stdin: %w", err)
		}
		return fileSet.AddVirtual(StdinName, data), nil
	case IsSourcePath(arg):
		id, err := fileSet.Load(arg)
		if err != nil {
			return 0, fmt.Errorf("load %s: %w", arg, err)
		}
		return id, nil
	default:
		return fileSet.AddVirtual(InlineName, []byte(arg)), nil
	}
}
