package vm

import (
	"zlang/internal/ast"
	"zlang/internal/symbols"
)

// eval evaluates id in frame f. f.Mod owns the expression.
func (vm *VM) eval(f *Frame, id ast.ExprID) (Value, error) {
	exprs := f.Mod.Builder.Exprs
	expr := exprs.Get(id)
	if expr == nil {
		return IntValue(0), nil
	}
	switch expr.Kind {
	case ast.ExprIntLit:
		lit, _ := exprs.Literal(id)
		return IntValue(lit.Value), nil
	case ast.ExprCharLit, ast.ExprStrLit, ast.ExprIdent, ast.ExprPath:
		return vm.evalName(f, id)
	case ast.ExprUnary:
		return vm.evalUnary(f, id)
	case ast.ExprBinary:
		return vm.evalBinary(f, id)
	case ast.ExprAssign:
		return vm.evalAssign(f, id)
	case ast.ExprBlock:
		block, _ := exprs.Block(id)
		result := IntValue(0)
		for _, stmt := range block.Stmts {
			v, err := vm.eval(f, stmt)
			if err != nil {
				return Value{}, err
			}
			result = v
		}
		return result, nil
	case ast.ExprIf:
		data, _ := exprs.If(id)
		cond, err := vm.eval(f, data.Cond)
		if err != nil {
			return Value{}, err
		}
		if cond.Truthy() {
			return vm.eval(f, data.Then)
		}
		if data.Else.IsValid() {
			return vm.eval(f, data.Else)
		}
		return IntValue(0), nil
	case ast.ExprFor:
		data, _ := exprs.For(id)
		for {
			if err := vm.ctx.Err(); err != nil {
				return Value{}, err
			}
			cond, err := vm.eval(f, data.Cond)
			if err != nil {
				return Value{}, err
			}
			if !cond.Truthy() {
				return IntValue(0), nil
			}
			if _, err := vm.eval(f, data.Body); err != nil {
				return Value{}, err
			}
		}
	case ast.ExprFn, ast.ExprTypeDecl:
		return IntValue(0), nil
	case ast.ExprUse:
		use, _ := exprs.Use(id)
		if vm.ran[use.Name] {
			return IntValue(0), nil
		}
		mod, ok := vm.reg.Module(use.Name)
		if !ok {
			return Value{}, vm.unsupported(expr.Span, "module %s is not loaded", use.Name)
		}
		if _, err := vm.runModule(mod); err != nil {
			return Value{}, err
		}
		return IntValue(0), nil
	case ast.ExprCall, ast.ExprCtCall:
		return vm.evalCall(f, id)
	case ast.ExprArray:
		arr, _ := exprs.Array(id)
		elems := make([]Value, len(arr.Elems))
		for i, el := range arr.Elems {
			v, err := vm.eval(f, el)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{Kind: VKArray, Cell: &Cell{Elems: elems}}, nil
	case ast.ExprIndex:
		p, err := vm.placeOf(f, id)
		if err != nil {
			return Value{}, err
		}
		return vm.load(p, expr.Span)
	case ast.ExprInvalid:
		return Value{}, vm.unsupported(expr.Span, "invalid expression")
	}
	return Value{}, vm.unsupported(expr.Span, "cannot evaluate %s", expr.Kind)
}

// evalName loads a variable or constant; literals are bound to their
// hidden constants.
func (vm *VM) evalName(f *Frame, id ast.ExprID) (Value, error) {
	expr := f.Mod.Builder.Exprs.Get(id)
	symID := vm.syms.Resolve(f.Mod.Bindings.Of(id))
	sym := vm.syms.Get(symID)
	if sym == nil {
		return Value{}, vm.unsupported(expr.Span, "unresolved name")
	}
	switch sym.Kind {
	case symbols.SymbolVar, symbols.SymbolConst:
		cell, err := vm.slot(symID, expr.Span)
		if err != nil {
			return Value{}, err
		}
		return cell.Elems[0], nil
	case symbols.SymbolModule:
		return IntValue(0), nil
	case symbols.SymbolFunc:
		return Value{}, vm.unsupported(expr.Span, "function %s used as a value", sym.Name)
	case symbols.SymbolAlias, symbols.SymbolInvalid:
	}
	return Value{}, vm.unsupported(expr.Span, "unresolved name %s", sym.Name)
}
