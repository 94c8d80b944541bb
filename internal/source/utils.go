package source

import (
	"bytes"
	"path/filepath"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// prepare normalizes raw bytes the same way for every origin:
// BOM stripped, CRLF folded, NFC applied outside literals, and a trailing
// '\n' guaranteed.
func prepare(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if !norm.NFC.IsNormal(content) {
		content = normalizeOutsideLiterals(content)
	}
	if len(content) == 0 || content[len(content)-1] != '\n' {
		content = append(slices.Clip(content), '\n')
		flags |= FileAddedNewline
	}
	return content, flags
}

// normalizeOutsideLiterals применяет NFC ко всему, кроме "..." и '...':
// литералы остаются сырыми байтами. Незакрытый литерал тянется до конца.
func normalizeOutsideLiterals(content []byte) []byte {
	out := make([]byte, 0, len(content))
	for len(content) > 0 {
		i := bytes.IndexAny(content, "\"'")
		if i < 0 {
			return append(out, norm.NFC.Bytes(content)...)
		}
		out = append(out, norm.NFC.Bytes(content[:i])...)
		end := bytes.IndexByte(content[i+1:], content[i])
		if end < 0 {
			return append(out, content[i:]...)
		}
		end += i + 2
		out = append(out, content[i:end]...)
		content = content[end:]
	}
	return out
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- content length is checked by FileSet.Add
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: находим количество переводов строки строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	var startOff uint32
	if lo > 0 {
		startOff = lineIdx[lo-1] + 1
	}
	return LineCol{Line: uint32(lo + 1), Col: off - startOff + 1} // #nosec G115 -- lo <= len(lineIdx)
}

func normalizePath(p string) string {
	if p == "" || p[0] == '<' {
		return p
	}
	return filepath.ToSlash(filepath.Clean(p))
}
