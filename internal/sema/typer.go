package sema

import (
	"fmt"

	"fortio.org/safecast"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/types"
)

// Options configure the typer of one module.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	Symbols  *symbols.Table
	Bindings *symbols.Bindings
}

// Typer assigns a type to every node of one module's AST in place.
// It is driven by the parser: operands of + and - are typed while the
// expression is built, every finished statement is typed right after parsing.
type Typer struct {
	exprs    *ast.Exprs
	reporter diag.Reporter
	types    *types.Interner
	symbols  *symbols.Table
	bindings *symbols.Bindings
}

func NewTyper(builder *ast.Builder, opts Options) *Typer {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Typer{
		exprs:    builder.Exprs,
		reporter: reporter,
		types:    opts.Types,
		symbols:  opts.Symbols,
		bindings: opts.Bindings,
	}
}

// MarkType types id and all of its children. Nodes that already carry a type
// are not revisited, so a second call is a no-op. Returns false when a fatal
// type error was reported.
func (t *Typer) MarkType(id ast.ExprID) bool {
	expr := t.exprs.Get(id)
	if expr == nil || expr.Type != types.NoTypeID {
		return true
	}

	builtins := t.types.Builtins()
	switch expr.Kind {
	case ast.ExprIntLit:
		expr.Type = builtins.Int
	case ast.ExprCharLit:
		expr.Type = builtins.Char
	case ast.ExprStrLit:
		lit, _ := t.exprs.Literal(id)
		expr.Type = t.types.Str(count(len(lit.Text)))
	case ast.ExprIdent:
		return t.markIdent(id, expr)
	case ast.ExprUnary:
		return t.markUnary(id, expr)
	case ast.ExprBinary:
		return t.markBinary(id, expr)
	case ast.ExprAssign:
		return t.markAssign(id, expr)
	case ast.ExprCall, ast.ExprCtCall:
		return t.markCall(id, expr)
	case ast.ExprArray:
		return t.markArray(id, expr)
	case ast.ExprIndex:
		return t.markIndex(id, expr)
	case ast.ExprPath:
		return t.markPath(id, expr)
	case ast.ExprBlock, ast.ExprIf, ast.ExprFor, ast.ExprFn:
		// не значения: заглушка int
		if !t.markAll(t.exprs.Children(id)) {
			return false
		}
		expr.Type = builtins.Int
	case ast.ExprUse, ast.ExprTypeDecl:
		expr.Type = builtins.Int
	case ast.ExprInvalid:
		t.errorf(diag.SemaUnsupported, expr.Span, "invalid expression")
		return false
	}
	return true
}

func (t *Typer) markAll(ids []ast.ExprID) bool {
	for _, child := range ids {
		if !t.MarkType(child) {
			return false
		}
	}
	return true
}

// TypeOf returns the type recorded on id.
func (t *Typer) TypeOf(id ast.ExprID) types.TypeID {
	if expr := t.exprs.Get(id); expr != nil {
		return expr.Type
	}
	return types.NoTypeID
}

func (t *Typer) symbolOf(id ast.ExprID) *symbols.Symbol {
	return t.symbols.Get(t.symbols.Resolve(t.bindings.Of(id)))
}

func (t *Typer) markIdent(id ast.ExprID, expr *ast.Expr) bool {
	sym := t.symbolOf(id)
	if sym == nil {
		t.errorf(diag.SemaUndefinedIdent, expr.Span, "identifier has no symbol")
		return false
	}
	switch sym.Kind {
	case symbols.SymbolModule:
		expr.Type = t.types.Builtins().Int
		return true
	case symbols.SymbolVar, symbols.SymbolConst, symbols.SymbolFunc:
	case symbols.SymbolAlias, symbols.SymbolInvalid:
		t.errorf(diag.SemaUndefinedIdent, expr.Span, "unresolved alias %s", sym.Name)
		return false
	}
	if sym.Type == types.NoTypeID {
		t.errorf(diag.SemaTypeUnknown, expr.Span, "type of %s is not known here", sym.Name)
		return false
	}
	expr.Type = sym.Type
	return true
}

func (t *Typer) markUnary(id ast.ExprID, expr *ast.Expr) bool {
	u, _ := t.exprs.Unary(id)
	if !t.MarkType(u.Operand) {
		return false
	}
	operand := t.TypeOf(u.Operand)
	switch u.Op {
	case ast.UnaryNeg, ast.UnaryNot:
		expr.Type = operand
	case ast.UnaryAddr:
		// &arr даёт указатель на элемент, а не на массив
		if elem := t.decayElem(operand); elem != types.NoTypeID {
			expr.Type = t.types.Pointer(elem)
		} else {
			expr.Type = t.types.Pointer(operand)
		}
	case ast.UnaryDeref:
		elem := t.types.Elem(operand)
		if elem == types.NoTypeID {
			t.errorf(diag.SemaDerefNonPointer, expr.Span, "cannot dereference a value of type %s", types.Label(t.types, operand))
			return false
		}
		expr.Type = elem
	}
	return true
}

// decayElem returns the element type for arrays and strings.
func (t *Typer) decayElem(id types.TypeID) types.TypeID {
	tt, ok := t.types.Lookup(id)
	if !ok || (tt.Kind != types.KindArray && tt.Kind != types.KindStr) {
		return types.NoTypeID
	}
	return t.types.Elem(id)
}

func (t *Typer) markBinary(id ast.ExprID, expr *ast.Expr) bool {
	b, _ := t.exprs.Binary(id)
	if !t.MarkType(b.Left) || !t.MarkType(b.Right) {
		return false
	}
	left, right := t.TypeOf(b.Left), t.TypeOf(b.Right)
	switch {
	case b.Op.IsComparison():
		expr.Type = t.types.Builtins().Int
	case b.Op == ast.BinSub && t.types.HasPointee(left) && t.types.HasPointee(right):
		expr.Type = t.types.Builtins().Int
	case (b.Op == ast.BinAdd || b.Op == ast.BinSub) && t.types.HasPointee(left):
		expr.Type = t.types.Decay(left)
	default:
		expr.Type = left
	}
	return true
}

func (t *Typer) markAssign(id ast.ExprID, expr *ast.Expr) bool {
	a, _ := t.exprs.Assign(id)
	if !t.MarkType(a.Value) {
		return false
	}
	value := t.TypeOf(a.Value)

	// let x = expr: тип символа выводится из правой части
	if target := t.exprs.Get(a.Target); target != nil && target.Kind == ast.ExprIdent && target.Type == types.NoTypeID {
		if sym := t.symbolOf(a.Target); sym != nil && sym.Kind.HasStorage() && sym.Type == types.NoTypeID {
			sym.Type = value
		}
	}
	if !t.MarkType(a.Target) {
		return false
	}
	expr.Type = value
	return true
}

func (t *Typer) markCall(id ast.ExprID, expr *ast.Expr) bool {
	call, _ := t.exprs.Call(id)
	if !t.MarkType(call.Callee) || !t.markAll(call.Args) {
		return false
	}
	if info, ok := t.types.FnInfo(t.TypeOf(call.Callee)); ok {
		expr.Type = info.Result
		return true
	}
	t.errorf(diag.SynNotCallable, expr.Span, "%s is not a function", types.Label(t.types, t.TypeOf(call.Callee)))
	return false
}

func (t *Typer) markArray(id ast.ExprID, expr *ast.Expr) bool {
	arr, _ := t.exprs.Array(id)
	if !t.markAll(arr.Elems) {
		return false
	}
	elem := t.types.Builtins().Int
	if len(arr.Elems) > 0 {
		elem = t.TypeOf(arr.Elems[0])
	}
	expr.Type = t.types.Array(elem, count(len(arr.Elems)))
	return true
}

func (t *Typer) markIndex(id ast.ExprID, expr *ast.Expr) bool {
	idx, _ := t.exprs.Index(id)
	if !t.MarkType(idx.Target) || !t.MarkType(idx.Index) {
		return false
	}
	elem := t.types.Elem(t.TypeOf(idx.Target))
	if elem == types.NoTypeID {
		t.errorf(diag.SemaIndexNonArray, expr.Span, "cannot index a value of type %s", types.Label(t.types, t.TypeOf(idx.Target)))
		return false
	}
	expr.Type = elem
	return true
}

func (t *Typer) markPath(id ast.ExprID, expr *ast.Expr) bool {
	p, _ := t.exprs.Path(id)
	if !t.MarkType(p.Module) {
		return false
	}
	sym := t.symbolOf(id)
	if sym == nil || sym.Type == types.NoTypeID {
		t.errorf(diag.SemaTypeUnknown, expr.Span, "type of member %s is not known", p.Member)
		return false
	}
	expr.Type = sym.Type
	return true
}

func (t *Typer) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(t.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func count(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("length overflow: %w", err))
	}
	return v
}
