package wire

import (
	"encoding/binary"
	"math/bits"
)

// Mask is a 512-bit column-selection vector: bit i set means the chunk at
// column i is included in the linear combination this row/header
// represents. Stored as 16 little-endian uint32 words, matching the wire
// layout exactly so Encode/Decode are a straight copy.
type Mask [maskWords]uint32

// Encode writes m to buf in wire order. buf must be at least maskWords*4 bytes.
func (m *Mask) Encode(buf []byte) {
	for i, w := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
}

// Decode parses m from buf. buf must be at least maskWords*4 bytes.
func (m *Mask) Decode(buf []byte) {
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
}

// Set sets bit i.
func (m *Mask) Set(i int) {
	m[i/32] |= 1 << uint(i%32)
}

// Clear clears bit i.
func (m *Mask) Clear(i int) {
	m[i/32] &^= 1 << uint(i%32)
}

// Test reports whether bit i is set.
func (m *Mask) Test(i int) bool {
	return m[i/32]&(1<<uint(i%32)) != 0
}

// IsZero reports whether no bit is set.
func (m *Mask) IsZero() bool {
	for _, w := range m {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether m and other select exactly the same columns.
func (m *Mask) Equal(other *Mask) bool {
	return *m == *other
}

// XOR sets m to m XOR other.
func (m *Mask) XOR(other *Mask) {
	for i := range m {
		m[i] ^= other[i]
	}
}

// Lowest returns the index of the lowest set bit and true, or (0, false) if
// the mask is zero. Mirrors the original's word-scan-plus-ctz approach.
func (m *Mask) Lowest() (int, bool) {
	for word, w := range m {
		if w == 0 {
			continue
		}
		return word*32 + bits.TrailingZeros32(w), true
	}
	return 0, false
}

// NextInWord returns the index of the lowest set bit within the given word,
// or (0, false) if that word is zero. Used by the receiver to walk set bits
// one word at a time, matching process_rows' per-word loop.
func (m *Mask) NextInWord(word int) (int, bool) {
	w := m[word]
	if w == 0 {
		return 0, false
	}
	return word*32 + bits.TrailingZeros32(w), true
}
