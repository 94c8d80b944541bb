package x86

import (
	"fmt"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/module"
	"zlang/internal/symbols"
)

type fnDecl struct {
	mod   *module.Module
	sym   symbols.SymbolID
	decl  ast.ExprID
	label string
}

// collect finds every function with a body: the main module first, then the
// imported modules in load order.
func (e *Emitter) collect() error {
	if err := e.collectModule(e.main); err != nil {
		return err
	}
	for _, m := range e.reg.Modules() {
		if m == e.main {
			continue
		}
		if err := e.collectModule(m); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) collectModule(m *module.Module) error {
	exprs := m.Builder.Exprs
	var err error
	exprs.Walk(m.Root, func(id ast.ExprID) bool {
		if err != nil {
			return false
		}
		if exprs.Get(id).Kind != ast.ExprFn {
			return true
		}
		symID := m.Bindings.Of(id)
		sym := e.syms.Get(symID)
		if sym == nil || sym.Kind != symbols.SymbolFunc {
			err = errorf(diag.SemaUnsupported, exprs.Get(id).Span, "function declaration without a symbol")
			return false
		}
		if len(sym.Params) > len(argRegs) {
			err = errorf(diag.SemaTooManyArgs, sym.Span,
				"function %s declares %d parameters, at most %d are supported", sym.Name, len(sym.Params), len(argRegs))
			return false
		}
		if sym.IsExtern() {
			e.labels[symID] = sym.Name
			return true
		}
		label := e.uniqueLabel(m, symID, sym.Name)
		e.labels[symID] = label
		e.funcs = append(e.funcs, fnDecl{mod: m, sym: symID, decl: id, label: label})
		return true
	})
	return err
}

// uniqueLabel names a function `name` in main and `mod.name` elsewhere.
// Nested functions that reuse a name get the symbol id appended.
func (e *Emitter) uniqueLabel(m *module.Module, id symbols.SymbolID, name string) string {
	label := name
	if m != e.main {
		label = m.Name + "." + name
	}
	if e.taken[label] {
		label = fmt.Sprintf("%s.%d", label, id)
	}
	e.taken[label] = true
	return label
}

// funcLabel returns the call target of a function symbol.
func (e *Emitter) funcLabel(id symbols.SymbolID) (string, bool) {
	if label, ok := e.labels[id]; ok {
		return label, true
	}
	sym := e.syms.Get(id)
	if sym != nil && sym.Kind == symbols.SymbolFunc && sym.IsExtern() {
		return sym.Name, true
	}
	return "", false
}
