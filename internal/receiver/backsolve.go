package receiver

import (
	"github.com/pkhuong/strokkur/internal/protoerrors"
	"github.com/pkhuong/strokkur/internal/wire"
	"github.com/pkhuong/strokkur/internal/xor"
)

// backsolve reduces the full-rank row-echelon basis to the identity in
// place, so row i's data becomes column i of the payload: reverse
// iterating from the last row, it XORs each row's data into every
// lower-indexed row that still has that row's pivot bit set, eliminating
// all dependencies above the diagonal. It is idempotent: once
// alreadyExtracted is set, a repeat call is a no-op.
func (s *State) backsolve() {
	if s.alreadyExtracted {
		return
	}
	if int(s.chunkReceived) != int(s.chunkCount) {
		return
	}

	for i := int(s.chunkCount) - 1; i >= 0; i-- {
		row := s.chunks[i]
		chunkSize := int(row.Header.ChunkBytes)
		word, bit := i/32, uint32(1)<<uint(i%32)

		for j := 0; j < i; j++ {
			if s.chunks[j].Header.Mask[word]&bit == 0 {
				continue
			}
			xor.Into(s.chunks[j].Data[:chunkSize], row.Data[:chunkSize], chunkSize)
		}
	}

	s.alreadyExtracted = true
}

// Size reports the total reassembled message length, the pure sizing
// query the original exposed via Extract(buf, 0) without touching the
// basis. Valid any time after Init, even before Ready.
func (s *State) Size() int { return int(s.messageBytes) }

// Extract triggers back-substitution (idempotent; a no-op on repeat calls
// once the basis has already been solved) and returns the reassembled
// message payload. It requires Ready() to be true; calling it before that
// returns ErrNotReady.
func (s *State) Extract() ([]byte, error) {
	if !s.Ready() {
		return nil, protoerrors.ErrNotReady
	}
	if uint32(s.chunkCount)*wire.ChunkDataMax < s.messageBytes {
		return nil, protoerrors.NewCapacityError(protoerrors.CapacityPayloadTooLarge)
	}

	s.backsolve()

	bufsz := int(s.messageBytes)
	out := make([]byte, 0, bufsz)
	for i := 0; i < int(s.chunkCount) && len(out) < bufsz; i++ {
		remaining := bufsz - len(out)
		toRead := wire.ChunkDataMax
		if toRead > remaining {
			toRead = remaining
		}
		out = append(out, s.chunks[i].Data[:toRead]...)
	}

	return out, nil
}
