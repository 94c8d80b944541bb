package vm

import (
	"zlang/internal/ast"
	"zlang/internal/source"
)

// place is one element of a cell.
type place struct {
	cell  *Cell
	index int
}

// placeOf resolves an lvalue: a variable slot, a dereferenced pointer or an
// indexed element.
func (vm *VM) placeOf(f *Frame, id ast.ExprID) (place, error) {
	exprs := f.Mod.Builder.Exprs
	expr := exprs.Get(id)
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprPath:
		cell, err := vm.slot(vm.syms.Resolve(f.Mod.Bindings.Of(id)), expr.Span)
		if err != nil {
			return place{}, err
		}
		return place{cell: cell}, nil
	case ast.ExprUnary:
		u, _ := exprs.Unary(id)
		if u.Op != ast.UnaryDeref {
			break
		}
		v, err := vm.eval(f, u.Operand)
		if err != nil {
			return place{}, err
		}
		return vm.pointee(v, 0, expr.Span)
	case ast.ExprIndex:
		ix, _ := exprs.Index(id)
		base, err := vm.eval(f, ix.Target)
		if err != nil {
			return place{}, err
		}
		idx, err := vm.eval(f, ix.Index)
		if err != nil {
			return place{}, err
		}
		if !idx.IsScalar() {
			return place{}, vm.typeMismatch(expr.Span, "index", idx)
		}
		return vm.pointee(base, int(idx.Int), expr.Span)
	case ast.ExprInvalid, ast.ExprIntLit, ast.ExprCharLit, ast.ExprStrLit, ast.ExprBinary,
		ast.ExprAssign, ast.ExprBlock, ast.ExprIf, ast.ExprFor, ast.ExprFn, ast.ExprCall,
		ast.ExprCtCall, ast.ExprArray, ast.ExprUse, ast.ExprTypeDecl:
	}
	return place{}, vm.unsupported(expr.Span, "%s is not addressable", expr.Kind)
}

// pointee is the element offset elements past what v points at. Arrays and
// strings decay to their first element.
func (vm *VM) pointee(v Value, offset int, sp source.Span) (place, error) {
	switch v.Kind {
	case VKPtr:
		if v.Cell == nil {
			return place{}, vm.makeError(PanicOutOfRange, sp, "null pointer dereference")
		}
		return place{cell: v.Cell, index: v.Index + offset}, nil
	case VKArray, VKStr:
		return place{cell: v.Cell, index: offset}, nil
	case VKInt, VKChar, VKInvalid:
	}
	return place{}, vm.typeMismatch(sp, "dereference", v)
}

func (vm *VM) load(p place, sp source.Span) (Value, error) {
	if p.cell == nil || p.index < 0 || p.index >= len(p.cell.Elems) {
		return Value{}, vm.outOfRange(sp, p.index, cellLen(p.cell))
	}
	return p.cell.Elems[p.index], nil
}

// store assigns v to p. Aggregates are copied element by element into the
// aggregate already there; a shorter string is followed by a zero byte.
func (vm *VM) store(p place, v Value, sp source.Span) error {
	if p.cell == nil || p.index < 0 || p.index >= len(p.cell.Elems) {
		return vm.outOfRange(sp, p.index, cellLen(p.cell))
	}
	cur := p.cell.Elems[p.index]
	if !cur.isAggregate() || !v.isAggregate() || cur.Cell == nil || v.Cell == nil {
		p.cell.Elems[p.index] = convertScalar(cur, v.clone())
		return nil
	}
	n := min(len(cur.Cell.Elems), len(v.Cell.Elems))
	for i := range n {
		if err := vm.store(place{cell: cur.Cell, index: i}, v.Cell.Elems[i], sp); err != nil {
			return err
		}
	}
	if v.Kind == VKStr && n < len(cur.Cell.Elems) {
		cur.Cell.Elems[n] = CharValue(0)
	}
	return nil
}

// convertScalar приводит скаляр к виду ячейки: в char попадает только
// младший байт, как у mov [rdi], al.
func convertScalar(cur, v Value) Value {
	if !v.IsScalar() {
		return v
	}
	switch cur.Kind {
	case VKChar:
		return CharValue(byte(v.Int))
	case VKInt:
		return IntValue(v.Int)
	case VKArray, VKStr, VKPtr, VKInvalid:
	}
	return v
}

// addrOf implements &x. Taking the address of an array or string yields a
// pointer to its first element.
func (vm *VM) addrOf(f *Frame, id ast.ExprID) (Value, error) {
	sp := f.Mod.Builder.Exprs.Get(id).Span
	p, err := vm.placeOf(f, id)
	if err != nil {
		return Value{}, err
	}
	cur, err := vm.load(p, sp)
	if err != nil {
		return Value{}, err
	}
	if cur.isAggregate() {
		return Value{Kind: VKPtr, Cell: cur.Cell}, nil
	}
	return Value{Kind: VKPtr, Cell: p.cell, Index: p.index}, nil
}

func cellLen(c *Cell) int {
	if c == nil {
		return 0
	}
	return len(c.Elems)
}
