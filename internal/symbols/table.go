package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"zlang/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols, Regions uint }

// Table aggregates the symbol, scope and region arenas shared by all modules of
// one compilation.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Regions *Regions
	root    ScopeID
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	regCap, err := safecast.Conv[uint32](h.Regions)
	if err != nil {
		panic(fmt.Errorf("region capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Regions: NewRegions(regCap),
	}
	t.root = t.Scopes.New(ScopeRoot, NoScopeID, source.Span{})
	return t
}

// Root returns the builtin scope every module scope hangs from.
func (t *Table) Root() ScopeID { return t.root }

// Declare binds sym in scope. Storage kinds are also appended to region;
// Region and Scope of the symbol are filled in here.
func (t *Table) Declare(scope ScopeID, region RegionID, sym *Symbol) SymbolID {
	sym.Scope = scope
	reg := t.Regions.Get(region)
	if sym.Kind.HasStorage() && reg != nil {
		sym.Region = region
		sym.Offset = len(reg.Locals)
	}
	id := t.Symbols.New(sym)
	if sc := t.Scopes.Get(scope); sc != nil {
		sc.Symbols = append(sc.Symbols, id)
		sc.NameIndex[sym.Name] = append(sc.NameIndex[sym.Name], id)
	}
	if sym.Kind.HasStorage() && reg != nil {
		reg.Locals = append(reg.Locals, id)
	}
	return id
}

// LookupLocal looks name up in a single scope; the latest binding wins.
func (t *Table) LookupLocal(scope ScopeID, name string) SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID
	}
	bucket := sc.NameIndex[name]
	if len(bucket) == 0 {
		return NoSymbolID
	}
	return bucket[len(bucket)-1]
}

// Lookup walks from scope outward through parent indices; first match wins.
func (t *Table) Lookup(scope ScopeID, name string) SymbolID {
	for id := scope; id.IsValid(); {
		if sym := t.LookupLocal(id, name); sym.IsValid() {
			return sym
		}
		sc := t.Scopes.Get(id)
		if sc == nil {
			break
		}
		id = sc.Parent
	}
	return NoSymbolID
}

// Resolve follows alias chains to the symbol that owns storage or code.
func (t *Table) Resolve(id SymbolID) SymbolID {
	for range t.Symbols.Len() + 1 {
		sym := t.Symbols.Get(id)
		if sym == nil || sym.Kind != SymbolAlias {
			return id
		}
		id = sym.Target
	}
	return NoSymbolID
}

// Get is a shorthand for Symbols.Get.
func (t *Table) Get(id SymbolID) *Symbol { return t.Symbols.Get(id) }

// FunctionRegion returns the nearest enclosing function region of r, or
// NoRegionID when r belongs to module storage.
func (t *Table) FunctionRegion(r RegionID) RegionID {
	for id := r; id.IsValid(); {
		reg := t.Regions.Get(id)
		if reg == nil {
			break
		}
		if reg.Kind == RegionFunction {
			return id
		}
		id = reg.Parent
	}
	return NoRegionID
}
