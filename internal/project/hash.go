package project

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash).
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Combine hashes content followed by every dep in order: H(content || dep1 || ...).
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// UnitKey keys one checked file by its content hash salted with the cache
// schema version, so a schema bump invalidates every entry.
func UnitKey(content Digest, schema uint16) Digest {
	var salt [2]byte
	binary.LittleEndian.PutUint16(salt[:], schema)
	return Combine(content, sha256.Sum256(salt[:]))
}
