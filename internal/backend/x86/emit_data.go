package x86

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"zlang/internal/symbols"
)

// emitData writes every literal constant of the registry as a
// zero-terminated byte string.
func (e *Emitter) emitData() {
	consts := e.literals()
	if len(consts) == 0 {
		return
	}
	fmt.Fprint(&e.buf, "  .data\n")
	for _, id := range consts {
		sym := e.syms.Get(id)
		fmt.Fprintf(&e.buf, "%s:\n  .byte %s\n", sym.Name, byteList(sym.Bytes))
	}
}

func (e *Emitter) literals() []symbols.SymbolID {
	var out []symbols.SymbolID
	for i := 1; i <= e.syms.Symbols.Len(); i++ {
		raw, err := safecast.Conv[uint32](i)
		if err != nil {
			break
		}
		id := symbols.SymbolID(raw)
		sym := e.syms.Get(id)
		if sym != nil && sym.Kind == symbols.SymbolConst {
			out = append(out, id)
		}
	}
	return out
}

func byteList(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteString(strconv.Itoa(int(c)))
		sb.WriteString(", ")
	}
	sb.WriteString("0")
	return sb.String()
}
