package layout

import (
	"fortio.org/safecast"

	"zlang/internal/types"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Named-only:
	FieldOffsets []int
}

// LayoutEngine computes memory layout for types.
type LayoutEngine struct {
	Target Target
	Types  *types.Interner

	cache map[types.TypeID]TypeLayout
}

// New creates a new LayoutEngine for the specified target.
func New(target Target, typesIn *types.Interner) *LayoutEngine {
	return &LayoutEngine{
		Target: target,
		Types:  typesIn,
		cache:  make(map[types.TypeID]TypeLayout, 64),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *LayoutEngine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	if l, ok := e.cache[t]; ok {
		return l, nil
	}
	l, err := e.compute(t)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, err
	}
	e.cache[t] = l
	return l, nil
}

// SizeOf returns the size of a type in bytes.
func (e *LayoutEngine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// MustSizeOf is SizeOf for types already checked by the front end.
func (e *LayoutEngine) MustSizeOf(t types.TypeID) int {
	n, err := e.SizeOf(t)
	if err != nil {
		panic(err)
	}
	return n
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *LayoutEngine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// FieldOffset returns the byte offset of a named type's field.
func (e *LayoutEngine) FieldOffset(named types.TypeID, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(named)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.FieldOffsets) {
		return 0, nil
	}
	return l.FieldOffsets[fieldIdx], nil
}

func (e *LayoutEngine) compute(id types.TypeID) (TypeLayout, error) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{}, &LayoutError{Kind: LayoutErrUnknownType, Type: id}
	}
	switch tt.Kind {
	case types.KindInt:
		return TypeLayout{Size: e.Target.IntSize, Align: e.Target.IntSize}, nil
	case types.KindChar:
		return TypeLayout{Size: 1, Align: 1}, nil
	case types.KindPointer, types.KindFn:
		return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}, nil
	case types.KindStr:
		n, err := safecast.Conv[int](tt.Count)
		if err != nil {
			return TypeLayout{}, &LayoutError{Kind: LayoutErrSizeOverflow, Type: id, Err: err}
		}
		return TypeLayout{Size: n, Align: 1}, nil
	case types.KindArray:
		elem, err := e.LayoutOf(tt.Elem)
		if err != nil {
			return TypeLayout{}, err
		}
		n, err := safecast.Conv[int](tt.Count)
		if err != nil {
			return TypeLayout{}, &LayoutError{Kind: LayoutErrSizeOverflow, Type: id, Err: err}
		}
		return TypeLayout{Size: n * elem.Size, Align: elem.Align}, nil
	case types.KindNamed:
		return e.namedLayout(id)
	case types.KindInvalid:
		return TypeLayout{}, &LayoutError{Kind: LayoutErrUnknownType, Type: id}
	}
	return TypeLayout{}, &LayoutError{Kind: LayoutErrUnknownType, Type: id}
}

// namedLayout: каждое поле выравнивается по своему выравниванию, размер - сумма.
func (e *LayoutEngine) namedLayout(id types.TypeID) (TypeLayout, error) {
	info, ok := e.Types.NamedInfo(id)
	if !ok {
		return TypeLayout{}, &LayoutError{Kind: LayoutErrUnknownType, Type: id}
	}
	out := TypeLayout{Align: 1, FieldOffsets: make([]int, len(info.Fields))}
	off := 0
	for i, f := range info.Fields {
		fl, err := e.LayoutOf(f.Type)
		if err != nil {
			return TypeLayout{}, err
		}
		off = AlignTo(off, fl.Align)
		out.FieldOffsets[i] = off
		off += fl.Size
		out.Align = max(out.Align, fl.Align)
	}
	out.Size = off
	return out, nil
}

// AlignTo rounds n up to a multiple of align.
func AlignTo(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
