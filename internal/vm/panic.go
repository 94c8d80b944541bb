package vm

import (
	"fmt"
	"strings"

	"zlang/internal/source"
)

// PanicCode identifies the type of VM panic.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicUnsupported  PanicCode = 1001 // VM1001: node or intrinsic not supported
	PanicTypeMismatch PanicCode = 1002 // VM1002: operand of the wrong kind
	PanicOutOfRange   PanicCode = 1003 // VM1003: pointer or index outside its cell
	PanicDivByZero    PanicCode = 1004 // VM1004: division by zero
	PanicCallDepth    PanicCode = 1005 // VM1005: call depth exceeded
)

func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

type BacktraceFrame struct {
	FuncName string
	Span     source.Span
}

// VMError is a runtime failure with the call stack at the point of failure.
type VMError struct {
	Code      PanicCode
	Message   string
	Span      source.Span
	Backtrace []BacktraceFrame // top to bottom
}

func (p *VMError) Error() string {
	return fmt.Sprintf("panic %s: %s", p.Code, p.Message)
}

// FormatWithFiles formats the panic with resolved file:line:col information.
func (p *VMError) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "panic %s: %s\n", p.Code, p.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(p.Span, files))
	sb.WriteString("\n")
	if len(p.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range p.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.FuncName, formatSpan(frame.Span, files))
		}
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

func (vm *VM) makeError(code PanicCode, sp source.Span, msg string) *VMError {
	e := &VMError{Code: code, Message: msg, Span: sp}
	e.Backtrace = make([]BacktraceFrame, 0, len(vm.stack))
	for i := len(vm.stack) - 1; i >= 0; i-- {
		f := vm.stack[i]
		e.Backtrace = append(e.Backtrace, BacktraceFrame{FuncName: f.Name, Span: f.Span})
	}
	return e
}

func (vm *VM) unsupported(sp source.Span, format string, args ...any) *VMError {
	return vm.makeError(PanicUnsupported, sp, fmt.Sprintf(format, args...))
}

func (vm *VM) typeMismatch(sp source.Span, op string, got Value) *VMError {
	return vm.makeError(PanicTypeMismatch, sp, fmt.Sprintf("%s: unexpected %s operand", op, got.Kind))
}

func (vm *VM) outOfRange(sp source.Span, index, length int) *VMError {
	return vm.makeError(PanicOutOfRange, sp, fmt.Sprintf("index %d out of range for length %d", index, length))
}
