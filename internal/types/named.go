package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Field is one member of a named record type.
type Field struct {
	Name string
	Type TypeID
}

// NamedInfo stores the declaration of a named record type.
type NamedInfo struct {
	Name   string
	Fields []Field
}

// RegisterNamed creates a fresh nominal type; two declarations with the same
// name and fields are still distinct types.
func (in *Interner) RegisterNamed(name string, fields []Field) TypeID {
	in.named = append(in.named, NamedInfo{Name: name, Fields: slices.Clone(fields)})
	slot, err := safecast.Conv[uint32](len(in.named) - 1)
	if err != nil {
		panic(fmt.Errorf("named info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindNamed, Payload: slot})
}

// NamedInfo retrieves the declaration of a named type.
func (in *Interner) NamedInfo(id TypeID) (*NamedInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed || tt.Payload == 0 || int(tt.Payload) >= len(in.named) {
		return nil, false
	}
	return &in.named[tt.Payload], true
}
