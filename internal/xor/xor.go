// Package xor implements the block-XOR primitive the codec builds every
// linear combination on top of.
package xor

import "encoding/binary"

// wordSize is the unit the in-place XOR processes per iteration: one
// uint64 (8 bytes). The original C implementation XORs 64-byte cache
// lines with SSE2 intrinsics; portable Go has no equivalent vector type,
// so this XORs one machine word at a time instead of one byte at a time,
// keeping the loop cheap without the intrinsic.
const wordSize = 8

// Into XORs src into acc in place, acc[i] ^= src[i] for i in [0, n).
// Both slices must have length >= n; acc is mutated, src is read-only.
func Into(acc, src []byte, n int) {
	if n > len(acc) || n > len(src) {
		panic("xor: n exceeds slice length")
	}

	i := 0
	for ; i+wordSize <= n; i += wordSize {
		a := binary.LittleEndian.Uint64(acc[i : i+wordSize])
		s := binary.LittleEndian.Uint64(src[i : i+wordSize])
		binary.LittleEndian.PutUint64(acc[i:i+wordSize], a^s)
	}
	for ; i < n; i++ {
		acc[i] ^= src[i]
	}
}

// IntoFull XORs src into acc across their full shared length, the common
// case when both buffers are the same fixed chunk-data capacity.
func IntoFull(acc, src []byte) {
	n := len(acc)
	if len(src) < n {
		n = len(src)
	}
	Into(acc, src, n)
}
