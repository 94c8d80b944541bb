package ast

// Children returns the direct sub-expressions of id in evaluation order.
// Function bodies are included; a path yields its module ident only.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ExprIntLit, ExprCharLit, ExprStrLit, ExprIdent, ExprUse, ExprTypeDecl, ExprInvalid:
		return nil
	case ExprUnary:
		u, _ := e.Unary(id)
		return []ExprID{u.Operand}
	case ExprBinary:
		b, _ := e.Binary(id)
		return []ExprID{b.Left, b.Right}
	case ExprAssign:
		a, _ := e.Assign(id)
		return []ExprID{a.Target, a.Value}
	case ExprBlock:
		b, _ := e.Block(id)
		return b.Stmts
	case ExprIf:
		data, _ := e.If(id)
		return nonZero(data.Cond, data.Then, data.Else)
	case ExprFor:
		data, _ := e.For(id)
		return []ExprID{data.Cond, data.Body}
	case ExprFn:
		data, _ := e.Fn(id)
		return nonZero(data.Body)
	case ExprCall, ExprCtCall:
		data, _ := e.Call(id)
		out := make([]ExprID, 0, len(data.Args)+1)
		out = append(out, data.Callee)
		return append(out, data.Args...)
	case ExprArray:
		data, _ := e.Array(id)
		return data.Elems
	case ExprIndex:
		data, _ := e.Index(id)
		return []ExprID{data.Target, data.Index}
	case ExprPath:
		data, _ := e.Path(id)
		return []ExprID{data.Module}
	}
	return nil
}

func nonZero(ids ...ExprID) []ExprID {
	out := ids[:0]
	for _, id := range ids {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

// Walk visits id and its descendants depth-first, pre-order.
// Returning false from visit skips the children of that node.
func (e *Exprs) Walk(id ExprID, visit func(ExprID) bool) {
	if !id.IsValid() || !visit(id) {
		return
	}
	for _, child := range e.Children(id) {
		e.Walk(child, visit)
	}
}
