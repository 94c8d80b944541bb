package diag

import (
	"fmt"
	"strings"

	"zlang/internal/source"
)

// FormatShort renders diagnostics one per line as
// "SEVERITY CODE path:line:col: message", in bag order.
// It is meant for tests and for the CLI's --format short.
func FormatShort(diags []*Diagnostic, fs *source.FileSet) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		path := "<unknown>"
		if f := fs.Get(d.Primary.File); f != nil {
			path = f.Path
		}
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(&sb, "%s %s %s:%d:%d: %s\n", d.Severity, d.Code.ID(), path, start.Line, start.Col, d.Message)
	}
	return sb.String()
}
