package sender

import (
	"context"
	"fmt"

	"net"

	"github.com/pkhuong/strokkur/internal/protoerrors"
	"github.com/pkhuong/strokkur/internal/transport"
	"github.com/pkhuong/strokkur/internal/wire"
	"github.com/pkhuong/strokkur/internal/xor"
)

// xorColumns builds the linear combination selected by s.header.Mask into
// s.scratch: the first selected column is copied in (zero-extended if its
// chunk is shorter than ChunkDataMax), every subsequent selected column is
// XORed in at full width. Returns false if the mask selects no columns (a
// "nop row" the original skips rather than transmits).
func (s *State) xorColumns() bool {
	first := true
	for col := 0; col < s.nBase; col++ {
		if !s.header.Mask.Test(col) {
			continue
		}
		chunk := chunkSlice(s.data, col)
		if first {
			for i := range s.scratch {
				s.scratch[i] = 0
			}
			copy(s.scratch[:], chunk)
			first = false
			continue
		}
		var padded [wire.ChunkDataMax]byte
		copy(padded[:], chunk)
		xor.IntoFull(s.scratch[:], padded[:])
	}
	return !first
}

// send transmits the current header (chunk_bytes bytes already set) plus
// data over ch to dst.
func (s *State) send(ctx context.Context, ch transport.Channel, dst net.Addr, data []byte) error {
	headerBuf := make([]byte, wire.HeaderSize)
	s.header.Encode(headerBuf)
	if _, err := ch.Send(ctx, dst, headerBuf, data[:s.header.ChunkBytes]); err != nil {
		return protoerrors.NewTransportError("send", err)
	}
	return nil
}

// Pump advances the state machine by one step, transmitting exactly one
// datagram (except for internal no-op retries over empty parity rows,
// which are invisible to the caller and simply consume no network I/O
// while still returning promptly). Returns true if more steps remain,
// false once every step has been pumped.
func (s *State) Pump(ctx context.Context, ch transport.Channel, dst net.Addr) (bool, error) {
	if s.Done() {
		return false, nil
	}

	switch {
	case s.progress < s.nBase:
		return s.pumpBase(ctx, ch, dst)
	case s.nBase == 1:
		return s.pumpSingleton(ctx, ch, dst)
	case s.progress <= s.nBase+1:
		return s.pumpFullRow(ctx, ch, dst)
	default:
		return s.pumpRandomRow(ctx, ch, dst)
	}
}

// pumpBase sends one base chunk per call: the column equal to the current
// progress counter, with a single-bit mask selecting just that column.
func (s *State) pumpBase(ctx context.Context, ch transport.Channel, dst net.Addr) (bool, error) {
	col := s.progress
	chunk := chunkSlice(s.data, col)
	s.header.ChunkBytes = uint16(len(chunk))
	s.header.Mask = wire.Mask{}
	s.header.Mask.Set(col)

	if err := s.send(ctx, ch, dst, chunk); err != nil {
		return false, err
	}
	s.header.Mask.Clear(col)
	s.progress++
	return !s.Done(), nil
}

// pumpSingleton handles the chunk_count == 1 special case: since there is
// only one column, "base" and "parity" coincide, so pumpBase's copy (sent
// at progress 0) is the first of two identical chunks; this step sends the
// second and halts the message regardless of n_redundant, matching the
// "singleton messages emit exactly 2 chunks" rule.
func (s *State) pumpSingleton(ctx context.Context, ch transport.Channel, dst net.Addr) (bool, error) {
	chunk := chunkSlice(s.data, 0)
	s.header.ChunkBytes = uint16(len(chunk))
	s.header.Mask = wire.Mask{}
	s.header.Mask.Set(0)

	if err := s.send(ctx, ch, dst, chunk); err != nil {
		return false, err
	}
	s.progress = s.totalSteps()
	return false, nil
}

// pumpFullRow sends the all-columns parity chunk, spanning exactly two
// Pump calls: the first builds the combination into scratch and sends it,
// the second resends scratch unchanged.
func (s *State) pumpFullRow(ctx context.Context, ch transport.Channel, dst net.Addr) (bool, error) {
	if s.progress == s.nBase {
		s.header.Mask = wire.Mask{}
		for col := 0; col < s.nBase; col++ {
			s.header.Mask.Set(col)
		}
		s.header.ChunkBytes = wire.ChunkDataMax
		s.xorColumns()
		if err := s.send(ctx, ch, dst, s.scratch[:]); err != nil {
			return false, err
		}
		s.progress++
		return !s.Done(), nil
	}

	if err := s.send(ctx, ch, dst, s.scratch[:]); err != nil {
		return false, err
	}
	s.progress++
	return !s.Done(), nil
}

// pumpRandomRow sends one of the random-parity rows, each spanning two
// Pump calls like pumpFullRow. A row whose mask selects no columns (can
// happen when chunk_count is small and ceil(k/2) draws miss) is a "nop
// row": it is skipped without transmitting, and Pump recurses to move on
// to the next step rather than surfacing an empty send to the caller.
func (s *State) pumpRandomRow(ctx context.Context, ch transport.Channel, dst net.Addr) (bool, error) {
	if (s.progress-s.nBase)%2 == 0 {
		row := (s.progress - s.nBase - 2) / 2
		if row < 0 || row >= len(s.masks) {
			return false, fmt.Errorf("sender: pump: row index %d out of range", row)
		}
		s.header.Mask = s.masks[row]
		s.header.ChunkBytes = wire.ChunkDataMax
		if !s.xorColumns() {
			s.progress += 2
			if s.Done() {
				return false, nil
			}
			return s.Pump(ctx, ch, dst)
		}
		if err := s.send(ctx, ch, dst, s.scratch[:]); err != nil {
			return false, err
		}
		s.progress++
		return !s.Done(), nil
	}

	if err := s.send(ctx, ch, dst, s.scratch[:]); err != nil {
		return false, err
	}
	s.progress++
	return !s.Done(), nil
}
