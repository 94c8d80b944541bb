package x86

import (
	"fmt"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/symbols"
	"zlang/internal/types"
)

// allocFrame assigns [rbp-off] slots to the variables of fe.region in
// declaration order. Constants live in .data and get no slot.
func (fe *funcEmitter) allocFrame(at ast.ExprID) (uint32, error) {
	frame := fe.e.layout.NewFrame()
	fe.slots = make(map[symbols.SymbolID]int)
	reg := fe.e.syms.Regions.Get(fe.region)
	if reg == nil {
		return 0, errorf(diag.SemaUnsupported, fe.exprs.Get(at).Span, "%s has no storage region", fe.name)
	}
	for _, id := range reg.Locals {
		sym := fe.e.syms.Get(id)
		if sym == nil || sym.Kind != symbols.SymbolVar {
			continue
		}
		size, err := fe.slotSize(sym)
		if err != nil {
			return 0, err
		}
		fe.slots[id] = frame.Alloc(size)
	}
	size, err := frame.Size32()
	if err != nil {
		return 0, errorf(diag.SemaUnsupported, fe.exprs.Get(at).Span, "%s: %v", fe.name, err)
	}
	return size, nil
}

// slotSize is the layout size; string slots keep one extra byte for the
// terminating zero.
func (fe *funcEmitter) slotSize(sym *symbols.Symbol) (int, error) {
	if sym.Type == types.NoTypeID {
		return 0, errorf(diag.SemaTypeUnknown, sym.Span, "type of %s is unknown", sym.Name)
	}
	size, err := fe.e.layout.SizeOf(sym.Type)
	if err != nil {
		return 0, errorf(diag.SemaTypeUnknown, sym.Span, "%s: %v", sym.Name, err)
	}
	if tt, ok := fe.e.types.Lookup(sym.Type); ok && tt.Kind == types.KindStr {
		size++
	}
	return size, nil
}

// storeParam spills argument register i into the parameter slot.
func (fe *funcEmitter) storeParam(id symbols.SymbolID, i int) error {
	sym := fe.e.syms.Get(id)
	off, ok := fe.slots[id]
	if !ok || sym == nil {
		return fmt.Errorf("x86: parameter %d of %s has no slot", i, fe.name)
	}
	size, err := fe.e.layout.SizeOf(sym.Type)
	if err != nil {
		return errorf(diag.SemaTypeUnknown, sym.Span, "%s: %v", sym.Name, err)
	}
	switch size {
	case 1:
		fe.emit("mov [rbp-%d], %s", off, argRegs8[i])
	case 8:
		fe.emit("mov [rbp-%d], %s", off, argRegs[i])
	default:
		return errorf(diag.SemaUnsupported, sym.Span,
			"parameter %s of type %s does not fit in a register", sym.Name, types.Label(fe.e.types, sym.Type))
	}
	return nil
}
