package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a sha256 over cache key material.
type Digest [32]byte

// Hash digests parts in order; each part is length-prefixed so that
// ("ab", "c") and ("a", "bc") differ.
func Hash(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		size := uint64(len(p))
		for i := range n {
			n[i] = byte(size >> (8 * i))
		}
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
