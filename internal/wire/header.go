// Package wire implements the on-wire chunk header and its binary framing.
//
// The header is 128 bytes, little-endian, with no interior padding: two
// cache lines exactly, matching the fixed C layout this protocol was ported
// from.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Limits from the original protocol; see SPEC_FULL.md §3/§6.
const (
	ChunkMax      = 512   // maximum chunk_count
	ChunkDataMax  = 8192  // maximum bytes of payload per chunk
	MaxRedundant  = 64    // maximum number of random-parity rows a sender will emit
	maskWords     = ChunkMax / 32
	HeaderSize    = 8 + 16 + 32 + 4 + 2 + 2 + maskWords*4 // 128
)

// Header is the fixed 128-byte chunk header.
type Header struct {
	SendTimestampUS uint64
	MessageID       uuid.UUID
	Hash            [32]byte
	MessageBytes    uint32
	ChunkCount      uint16
	ChunkBytes      uint16
	Mask            Mask
}

// Encode writes h to buf in wire order. buf must be at least HeaderSize bytes.
func (h *Header) Encode(buf []byte) {
	if len(buf) < HeaderSize {
		panic("wire: Encode buffer too small")
	}
	off := 0
	binary.LittleEndian.PutUint64(buf[off:], h.SendTimestampUS)
	off += 8
	copy(buf[off:off+16], h.MessageID[:])
	off += 16
	copy(buf[off:off+32], h.Hash[:])
	off += 32
	binary.LittleEndian.PutUint32(buf[off:], h.MessageBytes)
	off += 4
	binary.LittleEndian.PutUint16(buf[off:], h.ChunkCount)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], h.ChunkBytes)
	off += 2
	h.Mask.Encode(buf[off : off+maskWords*4])
}

// Decode parses a Header from buf. buf must be at least HeaderSize bytes.
func (h *Header) Decode(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("wire: short header: %d bytes", len(buf))
	}
	off := 0
	h.SendTimestampUS = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	copy(h.MessageID[:], buf[off:off+16])
	off += 16
	copy(h.Hash[:], buf[off:off+32])
	off += 32
	h.MessageBytes = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	h.ChunkCount = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	h.ChunkBytes = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	h.Mask.Decode(buf[off : off+maskWords*4])
	return nil
}

// ReadHeader reads and parses exactly HeaderSize bytes from r.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("wire: read header: %w", err)
	}
	var h Header
	if err := h.Decode(buf[:]); err != nil {
		return Header{}, err
	}
	return h, nil
}
