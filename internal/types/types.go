package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindChar
	KindPointer
	KindArray
	KindFn
	KindStr
	KindNamed
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindChar:
		return "char"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindFn:
		return "fn"
	case KindStr:
		return "str"
	case KindNamed:
		return "named"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // pointee for pointers, element for arrays
	Count   uint32 // array length or string length in bytes
	Payload uint32 // index into fn/named side tables
}

// Descriptor helpers ---------------------------------------------------------

// MakeArray describes a fixed array of count elements.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakePointer describes a raw pointer.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeStr describes a string constant of n bytes.
func MakeStr(n uint32) Type {
	return Type{Kind: KindStr, Count: n}
}
