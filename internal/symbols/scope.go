package symbols

import (
	"zlang/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeRoot               // builtins, parent of every module
	ScopeModule             // module-level (top-level declarations)
	ScopeFunction           // function parameters
	ScopeBlock              // generic block scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeInvalid:
		return "invalid"
	}
	return "invalid"
}

// Scope models a lexical level with a parent index.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Span      source.Span
	NameIndex map[string][]SymbolID
	Symbols   []SymbolID // в порядке объявления
	Children  []ScopeID
}

// RegionKind distinguishes module storage from function frames.
type RegionKind uint8

const (
	RegionInvalid RegionKind = iota
	RegionGlobal
	RegionFunction
)

func (k RegionKind) String() string {
	switch k {
	case RegionGlobal:
		return "global"
	case RegionFunction:
		return "function"
	case RegionInvalid:
		return "invalid"
	}
	return "invalid"
}

// Region groups storage symbols of one function (or one module) regardless of
// the block nesting they were declared in.
type Region struct {
	Kind   RegionKind
	Parent RegionID
	Owner  SymbolID // function symbol; NoSymbolID for module regions
	File   source.FileID
	Locals []SymbolID
}
