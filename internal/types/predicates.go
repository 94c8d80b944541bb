package types

// IsNumeric reports whether id is int or char.
func (in *Interner) IsNumeric(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && (tt.Kind == KindInt || tt.Kind == KindChar)
}

// IsPointer reports whether id is a pointer type.
func (in *Interner) IsPointer(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindPointer
}

// IsArray reports whether id is a fixed array type.
func (in *Interner) IsArray(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindArray
}

// HasPointee reports whether id can be dereferenced or indexed.
func (in *Interner) HasPointee(id TypeID) bool {
	return in.Elem(id) != NoTypeID
}

// Elem returns the pointee of a pointer, the element of an array and char for
// string constants. Anything else has no element.
func (in *Interner) Elem(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	switch tt.Kind {
	case KindPointer, KindArray:
		return tt.Elem
	case KindStr:
		return in.builtins.Char
	case KindInvalid, KindInt, KindChar, KindFn, KindNamed:
		return NoTypeID
	}
	return NoTypeID
}

// Decay returns *elem for arrays and strings and id itself otherwise.
func (in *Interner) Decay(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindArray, KindStr:
		return in.Pointer(in.Elem(id))
	case KindInvalid, KindInt, KindChar, KindPointer, KindFn, KindNamed:
		return id
	}
	return id
}
