package vm

import (
	"fmt"

	"zlang/internal/ast"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/trace"
)

// evalCall binds the arguments positionally into a fresh frame and returns
// the value of the last statement of the body.
func (vm *VM) evalCall(f *Frame, id ast.ExprID) (Value, error) {
	exprs := f.Mod.Builder.Exprs
	expr := exprs.Get(id)
	call, _ := exprs.Call(id)
	fnID := vm.syms.Resolve(f.Mod.Bindings.Of(call.Callee))
	fn := vm.syms.Get(fnID)
	if fn == nil || fn.Kind != symbols.SymbolFunc {
		return Value{}, vm.unsupported(expr.Span, "only named functions can be called")
	}
	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		v, err := vm.eval(f, a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	if fn.IsExtern() {
		return vm.intrinsic(fn, args, expr.Span)
	}
	if len(args) != len(fn.Params) {
		return Value{}, vm.unsupported(expr.Span, "%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	if len(vm.stack) >= vm.maxDepth {
		return Value{}, vm.makeError(PanicCallDepth, expr.Span, fmt.Sprintf("call depth exceeds %d", vm.maxDepth))
	}
	mod := vm.moduleOf(fn.File)
	if mod == nil {
		return Value{}, vm.unsupported(expr.Span, "function %s belongs to no loaded module", fn.Name)
	}

	ctx, span := trace.Begin(vm.ctx, trace.ScopeNode, "call:"+fn.Name)
	prevCtx := vm.ctx
	vm.ctx = ctx
	defer func() {
		vm.ctx = prevCtx
		span.End("")
	}()

	params := fn.Params
	body := fn.Body
	callee := vm.newFrame(fn.Name, mod, fn.FnRegion, expr.Span)
	vm.stack = append(vm.stack, callee)
	defer func() { vm.stack = vm.stack[:len(vm.stack)-1] }()

	for i, p := range params {
		cell, err := vm.slot(p, expr.Span)
		if err != nil {
			return Value{}, err
		}
		if err := vm.store(place{cell: cell}, args[i], expr.Span); err != nil {
			return Value{}, err
		}
	}
	return vm.eval(callee, body)
}

// intrinsic runs a function declared without a body. Only puts is known.
func (vm *VM) intrinsic(fn *symbols.Symbol, args []Value, sp source.Span) (Value, error) {
	switch fn.Name {
	case "puts":
		if len(args) != 1 {
			return Value{}, vm.unsupported(sp, "puts expects 1 argument, got %d", len(args))
		}
		p, ok := asPointer(args[0])
		if !ok {
			return Value{}, vm.typeMismatch(sp, "puts", args[0])
		}
		text := p.Cell.Bytes(p.Index)
		if _, err := fmt.Fprintf(vm.stdout, "%s\n", text); err != nil {
			return Value{}, fmt.Errorf("puts: %w", err)
		}
		return IntValue(int64(len(text) + 1)), nil
	}
	return Value{}, vm.unsupported(sp, "extern function %s is not available in the interpreter", fn.Name)
}
