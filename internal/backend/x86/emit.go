// Package x86 lowers a parsed and typed module to x86-64 assembly in Intel
// syntax for the GNU assembler. Expression results live in rax; the machine
// stack holds intermediate operands.
package x86

import (
	"context"
	"fmt"
	"strings"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/layout"
	"zlang/internal/module"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/trace"
	"zlang/internal/types"
)

// Folder evaluates a compile-time call `#f(args)` to an integer.
type Folder interface {
	FoldCall(ctx context.Context, mod *module.Module, call ast.ExprID) (int64, error)
}

type Options struct {
	Target layout.Target // zero value means x86_64 linux
	Folder Folder        // nil rejects #calls
}

var argRegs = [...]string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
var argRegs8 = [...]string{"dil", "sil", "dl", "cl", "r8b", "r9b"}

// Emitter holds the state of one compilation: output buffer, the label
// counter and the label of every user function.
type Emitter struct {
	ctx    context.Context
	reg    *module.Registry
	main   *module.Module
	syms   *symbols.Table
	types  *types.Interner
	layout *layout.LayoutEngine
	folder Folder
	buf    strings.Builder
	seq    int
	labels map[symbols.SymbolID]string
	funcs  []fnDecl
	taken  map[string]bool
}

// funcEmitter lowers one function body (or the top level of main).
type funcEmitter struct {
	e      *Emitter
	mod    *module.Module
	exprs  *ast.Exprs
	name   string
	region symbols.RegionID
	slots  map[symbols.SymbolID]int
	depth  int // 8-byte words pushed since the prologue
}

// Generate emits assembly for mod and the user functions of every module it
// imports. Top-level statements of imported modules are not run natively.
func Generate(ctx context.Context, reg *module.Registry, mod *module.Module, opts Options) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if reg == nil || mod == nil {
		return "", fmt.Errorf("x86: nil registry or module")
	}
	target := opts.Target
	if target.Triple == "" {
		target = layout.X86_64LinuxGNU()
	}
	e := &Emitter{
		ctx:    ctx,
		reg:    reg,
		main:   mod,
		syms:   reg.Symbols(),
		types:  reg.Types(),
		layout: layout.New(target, reg.Types()),
		folder: opts.Folder,
		seq:    1,
		labels: make(map[symbols.SymbolID]string),
		taken:  map[string]bool{"main": true},
	}
	if err := e.collect(); err != nil {
		return "", err
	}

	fmt.Fprint(&e.buf, "  .intel_syntax noprefix\n")
	e.emitData()
	fmt.Fprint(&e.buf, "  .text\n")
	if err := e.emitMain(); err != nil {
		return "", err
	}
	for _, fn := range e.funcs {
		if err := e.emitFunction(fn); err != nil {
			return "", err
		}
	}
	return e.buf.String(), nil
}

func (e *Emitter) emitMain() error {
	_, span := trace.Begin(e.ctx, trace.ScopeNode, "x86:main")
	defer span.End("")

	fe := &funcEmitter{e: e, mod: e.main, exprs: e.main.Builder.Exprs, name: "main", region: e.main.Region}
	size, err := fe.allocFrame(e.main.Root)
	if err != nil {
		return err
	}
	fmt.Fprint(&e.buf, "  .global main\nmain:\n")
	fe.prologue(size)
	if err := fe.gen(e.main.Root); err != nil {
		return err
	}
	fe.epilogue()
	return nil
}

func (e *Emitter) emitFunction(fn fnDecl) error {
	_, span := trace.Begin(e.ctx, trace.ScopeNode, "x86:fn")
	defer span.End("")
	span.With("label", fn.label)

	sym := e.syms.Get(fn.sym)
	fe := &funcEmitter{e: e, mod: fn.mod, exprs: fn.mod.Builder.Exprs, name: sym.Name, region: sym.FnRegion}
	size, err := fe.allocFrame(fn.decl)
	if err != nil {
		return err
	}
	params := append([]symbols.SymbolID(nil), sym.Params...)
	body := sym.Body

	fmt.Fprintf(&e.buf, "\n  .global %s\n%s:\n", fn.label, fn.label)
	fe.prologue(size)
	for i, p := range params {
		if err := fe.storeParam(p, i); err != nil {
			return err
		}
	}
	if err := fe.gen(body); err != nil {
		return err
	}
	fe.epilogue()
	return nil
}

func (fe *funcEmitter) prologue(size uint32) {
	fe.emit("push rbp")
	fe.emit("mov rbp, rsp")
	fe.emit("sub rsp, %d", size)
	fe.depth = 0
}

func (fe *funcEmitter) epilogue() {
	fe.emit("mov rsp, rbp")
	fe.emit("pop rbp")
	fe.emit("ret")
}

func (fe *funcEmitter) emit(format string, args ...any) {
	fmt.Fprintf(&fe.e.buf, "  "+format+"\n", args...)
}

func (fe *funcEmitter) label(format string, args ...any) {
	fmt.Fprintf(&fe.e.buf, format+":\n", args...)
}

func (fe *funcEmitter) push(reg string) {
	fe.emit("push %s", reg)
	fe.depth++
}

func (fe *funcEmitter) pop(reg string) {
	fe.emit("pop %s", reg)
	fe.depth--
}

func (e *Emitter) nextSeq() int {
	n := e.seq
	e.seq++
	return n
}

func errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	return diag.AsError(diag.NewError(code, sp, fmt.Sprintf(format, args...)))
}
