package symbols

import "zlang/internal/ast"

// Bindings maps expressions of one module to the symbols they resolved to.
// Indexed densely by ExprID.
type Bindings struct {
	data []SymbolID
}

// Bind records that expr refers to sym.
func (b *Bindings) Bind(expr ast.ExprID, sym SymbolID) {
	idx := int(expr)
	if idx >= len(b.data) {
		b.data = append(b.data, make([]SymbolID, idx+1-len(b.data))...)
	}
	b.data[idx] = sym
}

// Of returns the symbol bound to expr, NoSymbolID when none.
func (b *Bindings) Of(expr ast.ExprID) SymbolID {
	if b == nil || int(expr) >= len(b.data) {
		return NoSymbolID
	}
	return b.data[expr]
}
