// Package hasher provides the sink that engine-threaded hashing writes into.
//
// Every Write* call is length- or width-prefixed so that adjacent fields can
// not collide by concatenation ("ab"+"c" vs "a"+"bc").
package hasher

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hasher accumulates a 64-bit structural hash.
type Hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

// New returns an empty hasher.
func New() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// Reset clears the accumulated state.
func (h *Hasher) Reset() {
	h.d.Reset()
}

func (h *Hasher) WriteUint8(v uint8) {
	h.buf[0] = v
	_, _ = h.d.Write(h.buf[:1])
}

func (h *Hasher) WriteBool(v bool) {
	if v {
		h.WriteUint8(1)
		return
	}
	h.WriteUint8(0)
}

func (h *Hasher) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(h.buf[:4], v)
	_, _ = h.d.Write(h.buf[:4])
}

func (h *Hasher) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:8], v)
	_, _ = h.d.Write(h.buf[:8])
}

// WriteLen records a sequence length; use it before hashing elements.
func (h *Hasher) WriteLen(n int) {
	h.WriteUint64(uint64(n))
}

func (h *Hasher) WriteString(s string) {
	h.WriteLen(len(s))
	_, _ = h.d.WriteString(s)
}

// Sum64 returns the hash of everything written so far.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}
