package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"zlang/internal/diag"
	"zlang/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника и каретку ^~~~ под Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	for _, d := range items {
		prettyOne(w, d, fs, opts, p)
	}
}

// PrettyDiagnostic renders a single diagnostic; used for errors that never went through a Bag.
func PrettyDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	if d == nil {
		return
	}
	prettyOne(w, d, fs, opts, newPalette(opts.Color))
}

type palette struct {
	err, warn, info, bold, caret, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan, color.Bold),
		bold:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		dim:   color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.bold, p.caret, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	case diag.SevInfo:
		return p.info
	}
	return p.bold
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	var f *source.File
	if fs != nil {
		f = fs.Get(d.Primary.File)
	}
	sev := strings.ToLower(d.Severity.String())
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(sev), d.Code.ID(), p.bold.Sprint(d.Message))
		return
	}
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, opts.PathMode), start.Line, start.Col,
		p.severity(d.Severity).Sprint(sev), d.Code.ID(), p.bold.Sprint(d.Message))
	writeSnippet(w, f, fs, d.Primary, p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		if nf == nil {
			fmt.Fprintf(w, "  %s: %s\n", p.info.Sprint("note"), n.Msg)
			continue
		}
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n", p.info.Sprint("note"), formatPath(nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
	}
}

// writeSnippet печатает строку и каретку под колонкой; ширина считается через runewidth,
// табы сохраняются, чтобы каретка встала ровно под символом в терминале.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, sp source.Span, p palette) {
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	gutter := strconv.FormatUint(uint64(start.Line), 10)
	pad := strings.Repeat(" ", len(gutter))

	fmt.Fprintf(w, " %s %s %s\n", p.dim.Sprint(gutter), p.dim.Sprint("|"), line)

	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	prefix := line[:col]

	var lead strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			lead.WriteByte('\t')
			continue
		}
		lead.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		stop := min(int(end.Col)-1, len(line))
		if stop > col {
			width = max(runewidth.StringWidth(line[col:stop]), 1)
		}
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.dim.Sprint("|"), lead.String(), p.caret.Sprint(marker))
}
