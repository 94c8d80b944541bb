package x86

import (
	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/symbols"
	"zlang/internal/types"
)

// gen evaluates id into rax.
func (fe *funcEmitter) gen(id ast.ExprID) error {
	expr := fe.exprs.Get(id)
	if expr == nil {
		fe.emit("mov rax, 0")
		return nil
	}
	switch expr.Kind {
	case ast.ExprIntLit:
		lit, _ := fe.exprs.Literal(id)
		fe.emit("mov rax, %d", lit.Value)
		return nil
	case ast.ExprCharLit:
		sym, err := fe.literalSymbol(id)
		if err != nil {
			return err
		}
		fe.emit("lea rax, [rip+%s]", sym.Name)
		fe.emit("movzx rax, byte ptr [rax]")
		return nil
	case ast.ExprStrLit:
		sym, err := fe.literalSymbol(id)
		if err != nil {
			return err
		}
		fe.emit("lea rax, [rip+%s]", sym.Name)
		return nil
	case ast.ExprIdent, ast.ExprPath:
		return fe.genName(id)
	case ast.ExprUnary:
		return fe.genUnary(id)
	case ast.ExprBinary:
		return fe.genBinary(id)
	case ast.ExprAssign:
		return fe.genAssign(id)
	case ast.ExprBlock:
		block, _ := fe.exprs.Block(id)
		if len(block.Stmts) == 0 {
			fe.emit("mov rax, 0")
		}
		// значение последней инструкции остаётся в rax
		for _, stmt := range block.Stmts {
			if err := fe.gen(stmt); err != nil {
				return err
			}
		}
		return nil
	case ast.ExprIf:
		return fe.genIf(id)
	case ast.ExprFor:
		return fe.genFor(id)
	case ast.ExprFn, ast.ExprUse, ast.ExprTypeDecl:
		fe.emit("mov rax, 0")
		return nil
	case ast.ExprCall:
		return fe.genCall(id)
	case ast.ExprCtCall:
		return fe.genCtCall(id)
	case ast.ExprArray:
		arr, _ := fe.exprs.Array(id)
		if len(arr.Elems) == 1 {
			return fe.gen(arr.Elems[0])
		}
		return errorf(diag.SemaUnsupported, expr.Span, "array literal of %d elements is only supported as an assigned value", len(arr.Elems))
	case ast.ExprIndex:
		if err := fe.genIndexAddr(id); err != nil {
			return err
		}
		fe.load(expr.Type)
		return nil
	case ast.ExprInvalid:
		return errorf(diag.SemaUnsupported, expr.Span, "invalid expression")
	}
	return errorf(diag.SemaUnsupported, expr.Span, "cannot generate code for %s", expr.Kind)
}

func (fe *funcEmitter) genName(id ast.ExprID) error {
	expr := fe.exprs.Get(id)
	symID := fe.symbolOf(id)
	sym := fe.e.syms.Get(symID)
	if sym == nil {
		return errorf(diag.SemaUndefinedIdent, expr.Span, "unresolved name")
	}
	switch sym.Kind {
	case symbols.SymbolVar, symbols.SymbolConst:
		if err := fe.slotAddr(symID, expr.Span); err != nil {
			return err
		}
		typ := expr.Type
		if typ == types.NoTypeID {
			typ = sym.Type
		}
		fe.load(typ)
		return nil
	case symbols.SymbolModule:
		fe.emit("mov rax, 0")
		return nil
	case symbols.SymbolFunc:
		return errorf(diag.SemaUnsupported, expr.Span, "function %s used as a value", sym.Name)
	case symbols.SymbolAlias, symbols.SymbolInvalid:
		return errorf(diag.SemaUndefinedIdent, expr.Span, "unresolved name %s", sym.Name)
	}
	return errorf(diag.SemaUnsupported, expr.Span, "cannot load %s", sym.Name)
}

func (fe *funcEmitter) genUnary(id ast.ExprID) error {
	expr := fe.exprs.Get(id)
	u, _ := fe.exprs.Unary(id)
	switch u.Op {
	case ast.UnaryNeg:
		if err := fe.gen(u.Operand); err != nil {
			return err
		}
		fe.emit("neg rax")
	case ast.UnaryNot:
		if err := fe.gen(u.Operand); err != nil {
			return err
		}
		fe.emit("cmp rax, 0")
		fe.emit("sete al")
		fe.emit("movzx rax, al")
	case ast.UnaryAddr:
		return fe.genAddr(u.Operand)
	case ast.UnaryDeref:
		if err := fe.gen(u.Operand); err != nil {
			return err
		}
		fe.load(expr.Type)
	}
	return nil
}

func (fe *funcEmitter) genBinary(id ast.ExprID) error {
	b, _ := fe.exprs.Binary(id)
	if err := fe.gen(b.Left); err != nil {
		return err
	}
	fe.push("rax")
	if err := fe.gen(b.Right); err != nil {
		return err
	}
	fe.push("rax")
	fe.pop("rdi")
	fe.pop("rax")

	lt := fe.exprs.Get(b.Left).Type
	rt := fe.exprs.Get(b.Right).Type
	switch b.Op {
	case ast.BinAdd:
		if fe.e.types.HasPointee(lt) {
			fe.scale("rdi", fe.elemSize(lt))
		}
		fe.emit("add rax, rdi")
	case ast.BinSub:
		switch {
		case fe.e.types.HasPointee(lt) && fe.e.types.HasPointee(rt):
			fe.emit("sub rax, rdi")
			if size := fe.elemSize(lt); size > 1 {
				fe.emit("mov rdi, %d", size)
				fe.emit("cqo")
				fe.emit("idiv rdi")
			}
		case fe.e.types.HasPointee(lt):
			fe.scale("rdi", fe.elemSize(lt))
			fe.emit("sub rax, rdi")
		default:
			fe.emit("sub rax, rdi")
		}
	case ast.BinMul:
		fe.emit("imul rax, rdi")
	case ast.BinDiv:
		fe.emit("cqo")
		fe.emit("idiv rdi")
	case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe:
		fe.emit("cmp rax, rdi")
		fe.emit("%s al", setcc(b.Op))
		fe.emit("movzx rax, al")
	}
	return nil
}

func setcc(op ast.BinaryOp) string {
	switch op {
	case ast.BinEq:
		return "sete"
	case ast.BinNe:
		return "setne"
	case ast.BinLt:
		return "setl"
	case ast.BinLe:
		return "setle"
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv:
		return ""
	}
	return ""
}

func (fe *funcEmitter) scale(reg string, size int) {
	if size > 1 {
		fe.emit("imul %s, %d", reg, size)
	}
}

func (fe *funcEmitter) genIf(id ast.ExprID) error {
	data, _ := fe.exprs.If(id)
	c := fe.e.nextSeq()
	if err := fe.gen(data.Cond); err != nil {
		return err
	}
	fe.emit("cmp rax, 0")
	fe.emit("je .L.else.%d", c)
	if err := fe.gen(data.Then); err != nil {
		return err
	}
	fe.emit("jmp .L.end.%d", c)
	fe.label(".L.else.%d", c)
	if data.Else.IsValid() {
		if err := fe.gen(data.Else); err != nil {
			return err
		}
	}
	fe.label(".L.end.%d", c)
	return nil
}

func (fe *funcEmitter) genFor(id ast.ExprID) error {
	data, _ := fe.exprs.For(id)
	c := fe.e.nextSeq()
	fe.label(".L.begin.%d", c)
	if err := fe.gen(data.Cond); err != nil {
		return err
	}
	fe.emit("cmp rax, 0")
	fe.emit("je .L.end.%d", c)
	if err := fe.gen(data.Body); err != nil {
		return err
	}
	fe.emit("jmp .L.begin.%d", c)
	fe.label(".L.end.%d", c)
	return nil
}

func (fe *funcEmitter) symbolOf(id ast.ExprID) symbols.SymbolID {
	return fe.e.syms.Resolve(fe.mod.Bindings.Of(id))
}

func (fe *funcEmitter) literalSymbol(id ast.ExprID) (*symbols.Symbol, error) {
	sym := fe.e.syms.Get(fe.symbolOf(id))
	if sym == nil || sym.Kind != symbols.SymbolConst {
		return nil, errorf(diag.SemaUnsupported, fe.exprs.Get(id).Span, "literal has no backing constant")
	}
	return sym, nil
}

func (fe *funcEmitter) elemSize(t types.TypeID) int {
	size, err := fe.e.layout.SizeOf(fe.e.types.Elem(t))
	if err != nil {
		return 1
	}
	return size
}
