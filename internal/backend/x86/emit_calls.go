package x86

import (
	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/symbols"
)

// genCall evaluates the arguments left to right onto the stack, pops them
// into the argument registers and calls the function label.
func (fe *funcEmitter) genCall(id ast.ExprID) error {
	expr := fe.exprs.Get(id)
	call, _ := fe.exprs.Call(id)
	symID := fe.symbolOf(call.Callee)
	sym := fe.e.syms.Get(symID)
	if sym == nil || sym.Kind != symbols.SymbolFunc {
		return errorf(diag.SynNotCallable, expr.Span, "only named functions can be called")
	}
	if len(call.Args) > len(argRegs) {
		return errorf(diag.SemaTooManyArgs, expr.Span,
			"call to %s passes %d arguments, at most %d are supported", sym.Name, len(call.Args), len(argRegs))
	}
	label, ok := fe.e.funcLabel(symID)
	if !ok {
		return errorf(diag.SemaUnsupported, expr.Span, "function %s has no code", sym.Name)
	}

	for _, arg := range call.Args {
		if err := fe.gen(arg); err != nil {
			return err
		}
		fe.push("rax")
	}
	for i := len(call.Args) - 1; i >= 0; i-- {
		fe.pop(argRegs[i])
	}
	// rsp должен быть выровнен на 16 в момент call
	pad := fe.depth%2 != 0
	if pad {
		fe.emit("sub rsp, 8")
	}
	fe.emit("mov rax, 0")
	fe.emit("call %s", label)
	if pad {
		fe.emit("add rsp, 8")
	}
	return nil
}

func (fe *funcEmitter) genCtCall(id ast.ExprID) error {
	expr := fe.exprs.Get(id)
	if err := fe.checkFoldable(id); err != nil {
		return err
	}
	if fe.e.folder == nil {
		return errorf(diag.SemaUnsupported, expr.Span, "compile-time calls need an interpreter")
	}
	v, err := fe.e.folder.FoldCall(fe.e.ctx, fe.mod, id)
	if err != nil {
		return err
	}
	fe.emit("mov rax, %d", v)
	return nil
}

// checkFoldable rejects compile-time calls whose arguments read variables:
// at fold time no statement has run yet, so every variable is still zero.
func (fe *funcEmitter) checkFoldable(id ast.ExprID) error {
	call, ok := fe.exprs.Call(id)
	if !ok {
		return errorf(diag.SemaUnsupported, fe.exprs.Get(id).Span, "malformed compile-time call")
	}
	var bad ast.ExprID
	for _, arg := range call.Args {
		fe.exprs.Walk(arg, func(n ast.ExprID) bool {
			if bad.IsValid() {
				return false
			}
			if sym := fe.e.syms.Get(fe.symbolOf(n)); sym != nil && sym.Kind == symbols.SymbolVar {
				bad = n
				return false
			}
			return true
		})
	}
	if !bad.IsValid() {
		return nil
	}
	name := ""
	if sym := fe.e.syms.Get(fe.symbolOf(bad)); sym != nil {
		name = sym.Name
	}
	return errorf(diag.SemaUnsupported, fe.exprs.Get(bad).Span,
		"compile-time call argument reads variable %s, which has no value before the program runs", name)
}
