package vm

import (
	"fortio.org/safecast"

	"zlang/internal/module"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/types"
)

// Frame is one activation: a function call or the top level of a module.
// Slots are indexed by the position of the symbol in its region.
type Frame struct {
	Name   string
	Mod    *module.Module
	Region symbols.RegionID
	Slots  []*Cell
	Span   source.Span // call site, or the module root
}

func (vm *VM) newFrame(name string, mod *module.Module, region symbols.RegionID, sp source.Span) *Frame {
	f := &Frame{Name: name, Mod: mod, Region: region, Span: sp}
	reg := vm.syms.Regions.Get(region)
	if reg == nil {
		return f
	}
	f.Slots = make([]*Cell, len(reg.Locals))
	for i, id := range reg.Locals {
		f.Slots[i] = &Cell{Elems: []Value{vm.initial(vm.syms.Get(id))}}
	}
	return f
}

// initial is the value a slot holds before its first assignment.
func (vm *VM) initial(sym *symbols.Symbol) Value {
	if sym == nil {
		return IntValue(0)
	}
	if sym.Kind == symbols.SymbolConst {
		return vm.constValue(sym)
	}
	return vm.zero(sym.Type)
}

func (vm *VM) constValue(sym *symbols.Symbol) Value {
	tt, ok := vm.types.Lookup(sym.Type)
	if ok && tt.Kind == types.KindChar && len(sym.Bytes) > 0 {
		return CharValue(sym.Bytes[0])
	}
	elems := make([]Value, len(sym.Bytes))
	for i, b := range sym.Bytes {
		elems[i] = CharValue(b)
	}
	return Value{Kind: VKStr, Cell: &Cell{Elems: elems}}
}

func (vm *VM) zero(t types.TypeID) Value {
	tt, ok := vm.types.Lookup(t)
	if !ok {
		return IntValue(0)
	}
	switch tt.Kind {
	case types.KindChar:
		return CharValue(0)
	case types.KindPointer:
		return Value{Kind: VKPtr}
	case types.KindArray:
		n, err := safecast.Conv[int](tt.Count)
		if err != nil {
			n = 0
		}
		elems := make([]Value, n)
		for i := range elems {
			elems[i] = vm.zero(tt.Elem)
		}
		return Value{Kind: VKArray, Cell: &Cell{Elems: elems}}
	case types.KindStr:
		n, err := safecast.Conv[int](tt.Count)
		if err != nil {
			n = 0
		}
		elems := make([]Value, n)
		for i := range elems {
			elems[i] = CharValue(0)
		}
		return Value{Kind: VKStr, Cell: &Cell{Elems: elems}}
	case types.KindNamed:
		info, ok := vm.types.NamedInfo(t)
		if !ok {
			return IntValue(0)
		}
		elems := make([]Value, len(info.Fields))
		for i, f := range info.Fields {
			elems[i] = vm.zero(f.Type)
		}
		return Value{Kind: VKArray, Cell: &Cell{Elems: elems}}
	case types.KindInt, types.KindFn, types.KindInvalid:
		return IntValue(0)
	}
	return IntValue(0)
}

// slot finds the storage cell of a variable or constant: the nearest active
// frame of its function region, or the frame of its module.
func (vm *VM) slot(id symbols.SymbolID, sp source.Span) (*Cell, error) {
	sym := vm.syms.Get(id)
	if sym == nil || !sym.Kind.HasStorage() {
		return nil, vm.unsupported(sp, "name has no storage")
	}
	var frame *Frame
	if vm.syms.FunctionRegion(sym.Region).IsValid() {
		for i := len(vm.stack) - 1; i >= 0; i-- {
			if vm.stack[i].Region == sym.Region {
				frame = vm.stack[i]
				break
			}
		}
		if frame == nil {
			return nil, vm.unsupported(sp, "%s belongs to a function that is not running", sym.Name)
		}
	} else {
		frame = vm.moduleFrame(sym.Region, sym.File)
	}
	if sym.Offset < 0 || sym.Offset >= len(frame.Slots) {
		return nil, vm.outOfRange(sp, sym.Offset, len(frame.Slots))
	}
	return frame.Slots[sym.Offset], nil
}

// moduleFrame returns the globals of a module region, creating them on
// first use.
func (vm *VM) moduleFrame(region symbols.RegionID, file source.FileID) *Frame {
	if f, ok := vm.globals[region]; ok {
		return f
	}
	mod := vm.moduleOf(file)
	name := "<module>"
	if mod != nil {
		name = mod.Name
	}
	f := vm.newFrame(name, mod, region, source.Span{File: file})
	vm.globals[region] = f
	return f
}
