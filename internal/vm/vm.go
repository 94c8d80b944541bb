package vm

import (
	"context"
	"io"
	"os"

	"zlang/internal/ast"
	"zlang/internal/module"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/types"
)

// DefaultMaxDepth bounds nested calls.
const DefaultMaxDepth = 10000

type Options struct {
	Stdout   io.Writer // puts output; os.Stdout when nil
	MaxDepth int
}

// VM interprets the modules of one registry.
type VM struct {
	reg      *module.Registry
	syms     *symbols.Table
	types    *types.Interner
	stdout   io.Writer
	maxDepth int

	ctx     context.Context
	stack   []*Frame
	globals map[symbols.RegionID]*Frame
	byFile  map[source.FileID]*module.Module
	ran     map[string]bool
}

func New(reg *module.Registry, opts Options) *VM {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &VM{
		reg:      reg,
		syms:     reg.Symbols(),
		types:    reg.Types(),
		stdout:   out,
		maxDepth: depth,
		ctx:      context.Background(),
		globals:  make(map[symbols.RegionID]*Frame),
		byFile:   make(map[source.FileID]*module.Module),
		ran:      make(map[string]bool),
	}
}

// Run evaluates the top level of mod and returns the value of its last
// statement.
func (vm *VM) Run(ctx context.Context, mod *module.Module) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	prev := vm.ctx
	vm.ctx = ctx
	defer func() { vm.ctx = prev }()
	return vm.runModule(mod)
}

func (vm *VM) runModule(mod *module.Module) (Value, error) {
	vm.ran[mod.Name] = true
	frame := vm.moduleFrame(mod.Region, mod.File)
	frame.Mod = mod
	if root := mod.Builder.Exprs.Get(mod.Root); root != nil {
		frame.Span = root.Span
	}
	vm.stack = append(vm.stack, frame)
	defer func() { vm.stack = vm.stack[:len(vm.stack)-1] }()
	return vm.eval(frame, mod.Root)
}

// FoldCall evaluates the compile-time call `#f(args)` of mod to an integer.
// Arguments see the module globals in their initial state.
func (vm *VM) FoldCall(ctx context.Context, mod *module.Module, call ast.ExprID) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	prev := vm.ctx
	vm.ctx = ctx
	defer func() { vm.ctx = prev }()

	frame := vm.moduleFrame(mod.Region, mod.File)
	frame.Mod = mod
	vm.stack = append(vm.stack, frame)
	defer func() { vm.stack = vm.stack[:len(vm.stack)-1] }()

	v, err := vm.eval(frame, call)
	if err != nil {
		return 0, err
	}
	if !v.IsScalar() {
		return 0, vm.typeMismatch(mod.Builder.Exprs.Get(call).Span, "compile-time call", v)
	}
	return v.Int, nil
}

// moduleOf maps a file to its loaded module.
func (vm *VM) moduleOf(file source.FileID) *module.Module {
	if m, ok := vm.byFile[file]; ok {
		return m
	}
	for _, m := range vm.reg.Modules() {
		vm.byFile[m.File] = m
	}
	return vm.byFile[file]
}
