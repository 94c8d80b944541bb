package sema

import (
	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/source"
	"zlang/internal/types"
)

// NewAdd builds lhs + rhs with pointer-aware rules:
//
//	num + num  -> arithmetic
//	ptr + ptr  -> error
//	num + ptr  -> operands swapped, pointer on the left
//	ptr + num  -> pointer arithmetic
func (t *Typer) NewAdd(span source.Span, lhs, rhs ast.ExprID) (ast.ExprID, bool) {
	if !t.markOperands(span, lhs, rhs) {
		return ast.NoExprID, false
	}
	lt, rt := t.TypeOf(lhs), t.TypeOf(rhs)
	switch {
	case t.types.IsNumeric(lt) && t.types.IsNumeric(rt):
		return t.binary(span, ast.BinAdd, lhs, rhs, lt), true
	case t.types.HasPointee(lt) && t.types.HasPointee(rt):
		t.errorf(diag.SemaInvalidPtrArith, span, "cannot add two pointers (%s + %s)", types.Label(t.types, lt), types.Label(t.types, rt))
		return ast.NoExprID, false
	case t.types.IsNumeric(lt) && t.types.HasPointee(rt):
		return t.binary(span, ast.BinAdd, rhs, lhs, t.types.Decay(rt)), true
	case t.types.HasPointee(lt) && t.types.IsNumeric(rt):
		return t.binary(span, ast.BinAdd, lhs, rhs, t.types.Decay(lt)), true
	}
	t.errorf(diag.SemaInvalidPtrArith, span, "invalid operands %s + %s", types.Label(t.types, lt), types.Label(t.types, rt))
	return ast.NoExprID, false
}

// NewSub builds lhs - rhs:
//
//	num - num  -> arithmetic
//	num - ptr  -> error
//	ptr - ptr  -> int, distance in elements
//	ptr - num  -> pointer arithmetic
func (t *Typer) NewSub(span source.Span, lhs, rhs ast.ExprID) (ast.ExprID, bool) {
	if !t.markOperands(span, lhs, rhs) {
		return ast.NoExprID, false
	}
	lt, rt := t.TypeOf(lhs), t.TypeOf(rhs)
	switch {
	case t.types.IsNumeric(lt) && t.types.IsNumeric(rt):
		return t.binary(span, ast.BinSub, lhs, rhs, lt), true
	case t.types.IsNumeric(lt) && t.types.HasPointee(rt):
		t.errorf(diag.SemaInvalidPtrArith, span, "cannot subtract a pointer from a number (%s - %s)", types.Label(t.types, lt), types.Label(t.types, rt))
		return ast.NoExprID, false
	case t.types.HasPointee(lt) && t.types.HasPointee(rt):
		return t.binary(span, ast.BinSub, lhs, rhs, t.types.Builtins().Int), true
	case t.types.HasPointee(lt) && t.types.IsNumeric(rt):
		return t.binary(span, ast.BinSub, lhs, rhs, t.types.Decay(lt)), true
	}
	t.errorf(diag.SemaInvalidPtrArith, span, "invalid operands %s - %s", types.Label(t.types, lt), types.Label(t.types, rt))
	return ast.NoExprID, false
}

func (t *Typer) binary(span source.Span, op ast.BinaryOp, lhs, rhs ast.ExprID, result types.TypeID) ast.ExprID {
	id := t.exprs.NewBinary(span, op, lhs, rhs)
	t.exprs.Get(id).Type = result
	return id
}

// markOperands types both operands. An identifier whose symbol has no type
// yet does not fail here: both operands fall back to int with a warning.
func (t *Typer) markOperands(span source.Span, lhs, rhs ast.ExprID) bool {
	if t.untypedIdent(lhs) || t.untypedIdent(rhs) {
		diag.ReportWarning(t.reporter, diag.SemaUnknownOperandType, span,
			"cannot determine operand types, assuming int").Emit()
		intID := t.types.Builtins().Int
		for _, id := range []ast.ExprID{lhs, rhs} {
			if e := t.exprs.Get(id); e != nil {
				e.Type = intID
			}
		}
	}
	return t.MarkType(lhs) && t.MarkType(rhs)
}

func (t *Typer) untypedIdent(id ast.ExprID) bool {
	expr := t.exprs.Get(id)
	if expr == nil || expr.Kind != ast.ExprIdent || expr.Type != types.NoTypeID {
		return false
	}
	sym := t.symbolOf(id)
	return sym != nil && sym.Kind.HasStorage() && sym.Type == types.NoTypeID
}
