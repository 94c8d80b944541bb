package symbols

import (
	"zlang/internal/ast"
	"zlang/internal/source"
	"zlang/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVar
	SymbolConst
	SymbolFunc
	SymbolModule
	SymbolAlias
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "var"
	case SymbolConst:
		return "const"
	case SymbolFunc:
		return "fn"
	case SymbolModule:
		return "module"
	case SymbolAlias:
		return "alias"
	case SymbolInvalid:
		return "invalid"
	}
	return "invalid"
}

// HasStorage reports whether symbols of this kind occupy a slot in their region.
func (k SymbolKind) HasStorage() bool {
	return k == SymbolVar || k == SymbolConst
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagGlobal SymbolFlags = 1 << iota
	SymbolFlagParam
	SymbolFlagExtern
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&SymbolFlagGlobal != 0 {
		labels = append(labels, "global")
	}
	if f&SymbolFlagParam != 0 {
		labels = append(labels, "param")
	}
	if f&SymbolFlagExtern != 0 {
		labels = append(labels, "extern")
	}
	return labels
}

// Symbol describes one declared name (the "Meta" of a module).
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Flags  SymbolFlags
	Type   types.TypeID
	Span   source.Span
	Scope  ScopeID       // where the name is bound
	Region RegionID      // where the storage lives (storage kinds only)
	File   source.FileID // owning module
	Offset int           // слот в регионе; backend-ы считают свои смещения сами

	// functions
	Params    []SymbolID
	Body      ast.ExprID // NoExprID for extern declarations
	Decl      ast.ExprID // the fn node
	FnRegion  RegionID
	FuncScope ScopeID

	// modules
	ModuleScope ScopeID
	ModuleName  string

	// aliases
	Target SymbolID

	// constants
	Bytes []byte
}

// IsGlobal reports whether the symbol lives in module-global storage.
func (s *Symbol) IsGlobal() bool { return s.Flags&SymbolFlagGlobal != 0 }

// IsExtern reports whether a function symbol has no body.
func (s *Symbol) IsExtern() bool { return s.Flags&SymbolFlagExtern != 0 }
