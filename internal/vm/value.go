// Package vm is a tree-walking interpreter over the typed AST of a module.
// Every call gets its own frame, so recursion works.
package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	VKInvalid ValueKind = iota
	VKInt
	VKChar
	VKArray
	VKStr
	VKPtr
)

func (k ValueKind) String() string {
	switch k {
	case VKInvalid:
		return "invalid"
	case VKInt:
		return "int"
	case VKChar:
		return "char"
	case VKArray:
		return "array"
	case VKStr:
		return "str"
	case VKPtr:
		return "ptr"
	}
	return fmt.Sprintf("ValueKind(%d)", k)
}

// Cell is a run of values addressable by index: a variable slot, the
// elements of an array or the bytes of a string.
type Cell struct {
	Elems []Value
}

// Value is a runtime value. Array and Str refer to their cell; Ptr refers
// to one element of a cell. A nil Cell on a Ptr is the null pointer.
type Value struct {
	Kind  ValueKind
	Int   int64 // Int, Char
	Cell  *Cell // Array, Str, Ptr
	Index int   // Ptr
}

func IntValue(n int64) Value { return Value{Kind: VKInt, Int: n} }

func CharValue(c byte) Value { return Value{Kind: VKChar, Int: int64(c)} }

// IsScalar reports whether v is an int or a char.
func (v Value) IsScalar() bool { return v.Kind == VKInt || v.Kind == VKChar }

// isAggregate reports whether v owns a cell that is copied on assignment.
func (v Value) isAggregate() bool { return v.Kind == VKArray || v.Kind == VKStr }

// Truthy is integer truthiness used by if and for.
func (v Value) Truthy() bool {
	switch v.Kind {
	case VKInt, VKChar:
		return v.Int != 0
	case VKPtr:
		return v.Cell != nil
	case VKArray, VKStr:
		return true
	case VKInvalid:
		return false
	}
	return false
}

// Bytes returns the characters of a string or char array up to the first
// zero byte, starting at index from.
func (c *Cell) Bytes(from int) []byte {
	if c == nil || from < 0 {
		return nil
	}
	var out []byte
	for i := from; i < len(c.Elems); i++ {
		e := c.Elems[i]
		if !e.IsScalar() || e.Int == 0 {
			break
		}
		out = append(out, byte(e.Int))
	}
	return out
}

func (v Value) String() string {
	switch v.Kind {
	case VKInt:
		return strconv.FormatInt(v.Int, 10)
	case VKChar:
		return strconv.QuoteRune(rune(byte(v.Int)))
	case VKStr:
		return strconv.Quote(string(v.Cell.Bytes(0)))
	case VKArray:
		var sb strings.Builder
		sb.WriteByte('[')
		if v.Cell != nil {
			for i, e := range v.Cell.Elems {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(e.String())
			}
		}
		sb.WriteByte(']')
		return sb.String()
	case VKPtr:
		if v.Cell == nil {
			return "ptr(nil)"
		}
		return fmt.Sprintf("ptr(+%d)", v.Index)
	case VKInvalid:
		return "invalid"
	}
	return "invalid"
}

// ExitCode maps a program result to a process status.
func ExitCode(v Value) int {
	switch v.Kind {
	case VKInt:
		return int(v.Int)
	case VKChar:
		return int(byte(v.Int))
	case VKArray:
		if v.Cell == nil || len(v.Cell.Elems) == 0 {
			return 0
		}
		return ExitCode(v.Cell.Elems[0])
	case VKStr:
		if v.Cell == nil || len(v.Cell.Elems) == 0 {
			return 0
		}
		return int(byte(v.Cell.Elems[0].Int))
	case VKPtr, VKInvalid:
		return 0
	}
	return 0
}

// clone copies an aggregate deeply; scalars and pointers are returned as is.
func (v Value) clone() Value {
	if !v.isAggregate() || v.Cell == nil {
		return v
	}
	elems := make([]Value, len(v.Cell.Elems))
	for i, e := range v.Cell.Elems {
		elems[i] = e.clone()
	}
	return Value{Kind: v.Kind, Cell: &Cell{Elems: elems}}
}
