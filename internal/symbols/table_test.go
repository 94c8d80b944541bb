package symbols

import (
	"testing"

	"zlang/internal/ast"
	"zlang/internal/source"
)

func newModuleTable(t *testing.T) (*Table, ScopeID, RegionID) {
	t.Helper()
	table := NewTable(Hints{})
	scope := table.Scopes.New(ScopeModule, table.Root(), source.Span{})
	region := table.Regions.New(RegionGlobal, NoRegionID, NoSymbolID, 0)
	return table, scope, region
}

func TestLookupWalksParents(t *testing.T) {
	table, mod, region := newModuleTable(t)
	outer := table.Declare(mod, region, &Symbol{Name: "x", Kind: SymbolVar})

	block := table.Scopes.New(ScopeBlock, mod, source.Span{})
	if got := table.Lookup(block, "x"); got != outer {
		t.Fatalf("outer x not visible in block: %d", got)
	}

	inner := table.Declare(block, region, &Symbol{Name: "x", Kind: SymbolVar})
	if got := table.Lookup(block, "x"); got != inner {
		t.Fatalf("shadowing failed: %d", got)
	}
	if got := table.Lookup(mod, "x"); got != outer {
		t.Fatalf("outer binding lost: %d", got)
	}

	tmp := table.Declare(block, region, &Symbol{Name: "tmp", Kind: SymbolVar})
	if table.Lookup(mod, "tmp").IsValid() {
		t.Fatalf("block-local %d visible outside block", tmp)
	}

	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRegionCollectsAllBlockLocals(t *testing.T) {
	table, mod, global := newModuleTable(t)
	fn := table.Declare(mod, global, &Symbol{Name: "f", Kind: SymbolFunc})
	region := table.Regions.New(RegionFunction, global, fn, 0)
	fnScope := table.Scopes.New(ScopeFunction, mod, source.Span{})
	a := table.Declare(fnScope, region, &Symbol{Name: "a", Kind: SymbolVar, Flags: SymbolFlagParam})
	inner := table.Scopes.New(ScopeBlock, fnScope, source.Span{})
	b := table.Declare(inner, region, &Symbol{Name: "b", Kind: SymbolVar})
	alias := table.Declare(inner, region, &Symbol{Name: "c", Kind: SymbolAlias, Target: a})

	locals := table.Regions.Get(region).Locals
	if len(locals) != 2 || locals[0] != a || locals[1] != b {
		t.Fatalf("locals = %v, want [%d %d]", locals, a, b)
	}
	if table.Get(b).Offset != 1 {
		t.Errorf("b offset = %d", table.Get(b).Offset)
	}
	if len(table.Regions.Get(global).Locals) != 0 {
		t.Errorf("function symbol must not take storage")
	}
	if table.Resolve(alias) != a {
		t.Errorf("alias does not resolve")
	}
	if table.FunctionRegion(region) != region || table.FunctionRegion(global).IsValid() {
		t.Errorf("FunctionRegion mismatch")
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBindings(t *testing.T) {
	var b Bindings
	b.Bind(ast.ExprID(5), SymbolID(3))
	if b.Of(5) != 3 || b.Of(4) != NoSymbolID || b.Of(100) != NoSymbolID {
		t.Fatalf("bindings lookup broken")
	}
}
