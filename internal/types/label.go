package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindInt:
		return "int"
	case KindChar:
		return "char"
	case KindPointer:
		return "*" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindArray:
		return fmt.Sprintf("[%d]%s", tt.Count, labelDepth(typesIn, tt.Elem, depth+1))
	case KindStr:
		return fmt.Sprintf("str(%d)", tt.Count)
	case KindFn:
		info, ok := typesIn.FnInfo(id)
		if !ok {
			return "fn(?)"
		}
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = labelDepth(typesIn, p, depth+1)
		}
		return "fn(" + strings.Join(parts, ", ") + ") " + labelDepth(typesIn, info.Result, depth+1)
	case KindNamed:
		if info, ok := typesIn.NamedInfo(id); ok {
			return info.Name
		}
		return "named(?)"
	case KindInvalid:
		return "invalid"
	}
	return "?"
}
