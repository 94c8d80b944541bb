package symbols

import (
	"errors"
	"fmt"
	"slices"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID := ScopeID(idx) // #nosec G115 -- arena size is checked on allocation
		scope := t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.Parent.IsValid() {
			if scope.Parent >= scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
				continue
			}
			if !slices.Contains(t.Scopes.data[scope.Parent].Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
		}
		covered := 0
		for name, bucket := range scope.NameIndex {
			for _, id := range bucket {
				if !slices.Contains(scope.Symbols, id) {
					errs = append(errs, fmt.Errorf("scope %d name %q references missing symbol %d", scopeID, name, id))
				}
				covered++
			}
		}
		if covered != len(scope.Symbols) {
			errs = append(errs, fmt.Errorf("scope %d name index covers %d of %d symbols", scopeID, covered, len(scope.Symbols)))
		}
	}

	for idx := 1; idx < len(t.Regions.data); idx++ {
		regionID := RegionID(idx) // #nosec G115 -- arena size is checked on allocation
		region := t.Regions.data[idx]
		if region.Parent.IsValid() && region.Parent >= regionID {
			errs = append(errs, fmt.Errorf("region %d has invalid parent %d", regionID, region.Parent))
		}
		for slot, id := range region.Locals {
			sym := t.Symbols.Get(id)
			if sym == nil {
				errs = append(errs, fmt.Errorf("region %d references missing symbol %d", regionID, id))
				continue
			}
			if sym.Region != regionID || sym.Offset != slot {
				errs = append(errs, fmt.Errorf("symbol %d (%s) slot mismatch: region %d/%d offset %d/%d",
					id, sym.Name, sym.Region, regionID, sym.Offset, slot))
			}
		}
	}

	for idx := 1; idx < len(t.Symbols.data); idx++ {
		symbolID := SymbolID(idx) // #nosec G115 -- arena size is checked on allocation
		symbol := t.Symbols.data[idx]
		scope := t.Scopes.Get(symbol.Scope)
		if scope == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", symbolID, symbol.Scope))
			continue
		}
		if !slices.Contains(scope.Symbols, symbolID) {
			errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d list", symbolID, symbol.Scope))
		}
		if symbol.Kind == SymbolAlias && !symbol.Target.IsValid() {
			errs = append(errs, fmt.Errorf("alias %d (%s) has no target", symbolID, symbol.Name))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
