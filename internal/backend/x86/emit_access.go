package x86

import (
	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/types"
)

// genAddr leaves the address of an lvalue in rax.
func (fe *funcEmitter) genAddr(id ast.ExprID) error {
	expr := fe.exprs.Get(id)
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprPath:
		return fe.slotAddr(fe.symbolOf(id), expr.Span)
	case ast.ExprUnary:
		u, _ := fe.exprs.Unary(id)
		if u.Op == ast.UnaryDeref {
			return fe.gen(u.Operand)
		}
	case ast.ExprIndex:
		return fe.genIndexAddr(id)
	case ast.ExprInvalid, ast.ExprIntLit, ast.ExprCharLit, ast.ExprStrLit, ast.ExprBinary,
		ast.ExprAssign, ast.ExprBlock, ast.ExprIf, ast.ExprFor, ast.ExprFn, ast.ExprCall,
		ast.ExprCtCall, ast.ExprArray, ast.ExprUse, ast.ExprTypeDecl:
	}
	return errorf(diag.SemaNotAddressable, expr.Span, "%s is not addressable", expr.Kind)
}

// slotAddr loads the address of a variable slot or a constant.
func (fe *funcEmitter) slotAddr(id symbols.SymbolID, sp source.Span) error {
	sym := fe.e.syms.Get(id)
	if sym == nil {
		return errorf(diag.SemaUndefinedIdent, sp, "unresolved name")
	}
	switch sym.Kind {
	case symbols.SymbolConst:
		fe.emit("lea rax, [rip+%s]", sym.Name)
		return nil
	case symbols.SymbolVar:
		if off, ok := fe.slots[id]; ok {
			fe.emit("lea rax, [rbp-%d]", off)
			return nil
		}
		if fe.e.syms.FunctionRegion(sym.Region).IsValid() {
			return errorf(diag.SemaUnsupported, sp,
				"function %s cannot capture %s, a local of an enclosing function", fe.name, sym.Name)
		}
		return errorf(diag.SemaUnsupported, sp,
			"function %s cannot reach module variable %s in native code", fe.name, sym.Name)
	case symbols.SymbolFunc, symbols.SymbolModule, symbols.SymbolAlias, symbols.SymbolInvalid:
	}
	return errorf(diag.SemaNotAddressable, sp, "%s %s has no storage", sym.Kind, sym.Name)
}

// genIndexAddr computes base + index*size(elem). Arrays decay to their
// address, pointers are loaded.
func (fe *funcEmitter) genIndexAddr(id ast.ExprID) error {
	ix, _ := fe.exprs.Index(id)
	if err := fe.gen(ix.Target); err != nil {
		return err
	}
	fe.push("rax")
	if err := fe.gen(ix.Index); err != nil {
		return err
	}
	fe.pop("rdi")
	fe.scale("rax", fe.elemSize(fe.exprs.Get(ix.Target).Type))
	fe.emit("add rax, rdi")
	return nil
}

// load replaces the address in rax by the value stored there. Aggregates
// stay addresses.
func (fe *funcEmitter) load(t types.TypeID) {
	switch fe.kindOf(t) {
	case types.KindArray, types.KindStr, types.KindNamed:
	case types.KindChar:
		fe.emit("movzx rax, byte ptr [rax]")
	case types.KindInt, types.KindPointer, types.KindFn, types.KindInvalid:
		fe.emit("mov rax, [rax]")
	}
}

// store writes rax to [rdi] for a scalar of type t.
func (fe *funcEmitter) store(t types.TypeID) {
	switch fe.kindOf(t) {
	case types.KindChar:
		fe.emit("mov [rdi], al")
	case types.KindInt, types.KindPointer, types.KindFn, types.KindInvalid,
		types.KindArray, types.KindStr, types.KindNamed:
		fe.emit("mov [rdi], rax")
	}
}

func (fe *funcEmitter) kindOf(t types.TypeID) types.Kind {
	tt, ok := fe.e.types.Lookup(t)
	if !ok {
		return types.KindInvalid
	}
	return tt.Kind
}

func (fe *funcEmitter) isAggregate(t types.TypeID) bool {
	switch fe.kindOf(t) {
	case types.KindArray, types.KindStr, types.KindNamed:
		return true
	case types.KindInvalid, types.KindInt, types.KindChar, types.KindPointer, types.KindFn:
	}
	return false
}

func (fe *funcEmitter) genAssign(id ast.ExprID) error {
	a, _ := fe.exprs.Assign(id)
	target := fe.exprs.Get(a.Target)
	value := fe.exprs.Get(a.Value)
	if err := fe.genAddr(a.Target); err != nil {
		return err
	}
	fe.push("rax")

	if !fe.isAggregate(target.Type) {
		if err := fe.gen(a.Value); err != nil {
			return err
		}
		fe.pop("rdi")
		fe.store(target.Type)
		return nil
	}

	if value.Kind == ast.ExprArray {
		fe.emit("mov rax, [rsp]")
		if err := fe.genArrayInto(a.Value, target.Type); err != nil {
			return err
		}
		fe.pop("rax")
		return nil
	}
	if !fe.isAggregate(value.Type) {
		return errorf(diag.SemaUnsupported, value.Span, "cannot assign %s to %s",
			types.Label(fe.e.types, value.Type), types.Label(fe.e.types, target.Type))
	}
	if err := fe.gen(a.Value); err != nil {
		return err
	}
	fe.pop("rdi")
	fe.copyBytes(target.Type, value.Type)
	fe.emit("mov rax, rdi")
	return nil
}

// genArrayInto stores the elements of an array literal at consecutive
// addresses starting at rax.
func (fe *funcEmitter) genArrayInto(id ast.ExprID, dst types.TypeID) error {
	arr, _ := fe.exprs.Array(id)
	elemType := fe.e.types.Elem(dst)
	if elemType == types.NoTypeID {
		elemType = fe.e.types.Elem(fe.exprs.Get(id).Type)
	}
	size, err := fe.e.layout.SizeOf(elemType)
	if err != nil {
		return errorf(diag.SemaTypeUnknown, fe.exprs.Get(id).Span, "array element: %v", err)
	}
	fe.push("rax")
	for _, elem := range arr.Elems {
		if fe.exprs.Get(elem).Kind == ast.ExprArray && fe.isAggregate(elemType) {
			fe.emit("mov rax, [rsp]")
			if err := fe.genArrayInto(elem, elemType); err != nil {
				return err
			}
		} else {
			if err := fe.gen(elem); err != nil {
				return err
			}
			fe.emit("mov rdi, [rsp]")
			fe.store(elemType)
		}
		fe.emit("add qword ptr [rsp], %d", size)
	}
	fe.pop("rax")
	return nil
}

// copyBytes copies an aggregate from [rax] to [rdi] byte by byte. A string
// source is followed by its terminating zero.
func (fe *funcEmitter) copyBytes(dst, src types.TypeID) {
	dstSize, err := fe.e.layout.SizeOf(dst)
	if err != nil {
		return
	}
	srcSize, err := fe.e.layout.SizeOf(src)
	if err != nil {
		return
	}
	n := min(dstSize, srcSize)
	for i := range n {
		fe.emit("mov cl, byte ptr [rax+%d]", i)
		fe.emit("mov byte ptr [rdi+%d], cl", i)
	}
	if fe.kindOf(src) == types.KindStr && (dstSize > n || fe.kindOf(dst) == types.KindStr) {
		fe.emit("mov byte ptr [rdi+%d], 0", n)
	}
}
