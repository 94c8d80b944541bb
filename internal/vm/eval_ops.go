package vm

import (
	"zlang/internal/ast"
	"zlang/internal/source"
)

func (vm *VM) evalUnary(f *Frame, id ast.ExprID) (Value, error) {
	exprs := f.Mod.Builder.Exprs
	expr := exprs.Get(id)
	u, _ := exprs.Unary(id)
	switch u.Op {
	case ast.UnaryAddr:
		return vm.addrOf(f, u.Operand)
	case ast.UnaryDeref:
		p, err := vm.placeOf(f, id)
		if err != nil {
			return Value{}, err
		}
		return vm.load(p, expr.Span)
	case ast.UnaryNeg, ast.UnaryNot:
	}
	v, err := vm.eval(f, u.Operand)
	if err != nil {
		return Value{}, err
	}
	if u.Op == ast.UnaryNot {
		if v.Truthy() {
			return IntValue(0), nil
		}
		return IntValue(1), nil
	}
	if !v.IsScalar() {
		return Value{}, vm.typeMismatch(expr.Span, "-", v)
	}
	return IntValue(-v.Int), nil
}

func (vm *VM) evalBinary(f *Frame, id ast.ExprID) (Value, error) {
	exprs := f.Mod.Builder.Exprs
	expr := exprs.Get(id)
	b, _ := exprs.Binary(id)
	lhs, err := vm.eval(f, b.Left)
	if err != nil {
		return Value{}, err
	}
	rhs, err := vm.eval(f, b.Right)
	if err != nil {
		return Value{}, err
	}
	switch b.Op {
	case ast.BinAdd:
		return vm.add(lhs, rhs, expr.Span)
	case ast.BinSub:
		return vm.sub(lhs, rhs, expr.Span)
	case ast.BinMul, ast.BinDiv:
		if !lhs.IsScalar() {
			return Value{}, vm.typeMismatch(expr.Span, b.Op.String(), lhs)
		}
		if !rhs.IsScalar() {
			return Value{}, vm.typeMismatch(expr.Span, b.Op.String(), rhs)
		}
		if b.Op == ast.BinMul {
			return IntValue(lhs.Int * rhs.Int), nil
		}
		if rhs.Int == 0 {
			return Value{}, vm.makeError(PanicDivByZero, expr.Span, "division by zero")
		}
		return IntValue(lhs.Int / rhs.Int), nil
	case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe:
		return vm.compare(b.Op, lhs, rhs, expr.Span)
	}
	return Value{}, vm.unsupported(expr.Span, "unknown operator %s", b.Op)
}

// asPointer decays arrays and strings; ok is false for scalars.
func asPointer(v Value) (Value, bool) {
	switch v.Kind {
	case VKPtr:
		return v, true
	case VKArray, VKStr:
		return Value{Kind: VKPtr, Cell: v.Cell}, true
	case VKInt, VKChar, VKInvalid:
	}
	return Value{}, false
}

// add: pointer offsets count elements, not bytes.
func (vm *VM) add(lhs, rhs Value, sp source.Span) (Value, error) {
	if p, ok := asPointer(lhs); ok {
		if !rhs.IsScalar() {
			return Value{}, vm.typeMismatch(sp, "+", rhs)
		}
		p.Index += int(rhs.Int)
		return p, nil
	}
	if p, ok := asPointer(rhs); ok && lhs.IsScalar() {
		p.Index += int(lhs.Int)
		return p, nil
	}
	if !lhs.IsScalar() || !rhs.IsScalar() {
		return Value{}, vm.typeMismatch(sp, "+", lhs)
	}
	return IntValue(lhs.Int + rhs.Int), nil
}

func (vm *VM) sub(lhs, rhs Value, sp source.Span) (Value, error) {
	lp, lok := asPointer(lhs)
	rp, rok := asPointer(rhs)
	switch {
	case lok && rok:
		if lp.Cell != rp.Cell {
			return Value{}, vm.makeError(PanicOutOfRange, sp, "subtracting pointers into different objects")
		}
		return IntValue(int64(lp.Index - rp.Index)), nil
	case lok:
		if !rhs.IsScalar() {
			return Value{}, vm.typeMismatch(sp, "-", rhs)
		}
		lp.Index -= int(rhs.Int)
		return lp, nil
	case rok:
		return Value{}, vm.typeMismatch(sp, "-", rhs)
	}
	if !lhs.IsScalar() || !rhs.IsScalar() {
		return Value{}, vm.typeMismatch(sp, "-", lhs)
	}
	return IntValue(lhs.Int - rhs.Int), nil
}

func (vm *VM) compare(op ast.BinaryOp, lhs, rhs Value, sp source.Span) (Value, error) {
	var l, r int64
	switch {
	case lhs.IsScalar() && rhs.IsScalar():
		l, r = lhs.Int, rhs.Int
	default:
		lp, lok := asPointer(lhs)
		rp, rok := asPointer(rhs)
		if !lok || !rok {
			return Value{}, vm.typeMismatch(sp, op.String(), lhs)
		}
		if lp.Cell != rp.Cell {
			if op == ast.BinEq || op == ast.BinNe {
				return boolValue(op == ast.BinNe), nil
			}
			return Value{}, vm.makeError(PanicOutOfRange, sp, "comparing pointers into different objects")
		}
		l, r = int64(lp.Index), int64(rp.Index)
	}
	switch op {
	case ast.BinEq:
		return boolValue(l == r), nil
	case ast.BinNe:
		return boolValue(l != r), nil
	case ast.BinLt:
		return boolValue(l < r), nil
	case ast.BinLe:
		return boolValue(l <= r), nil
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv:
	}
	return Value{}, vm.unsupported(sp, "%s is not a comparison", op)
}

func boolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

func (vm *VM) evalAssign(f *Frame, id ast.ExprID) (Value, error) {
	exprs := f.Mod.Builder.Exprs
	expr := exprs.Get(id)
	a, _ := exprs.Assign(id)
	p, err := vm.placeOf(f, a.Target)
	if err != nil {
		return Value{}, err
	}
	v, err := vm.eval(f, a.Value)
	if err != nil {
		return Value{}, err
	}
	if err := vm.store(p, v, expr.Span); err != nil {
		return Value{}, err
	}
	return vm.load(p, expr.Span)
}
