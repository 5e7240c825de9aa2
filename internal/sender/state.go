// Package sender implements the sender codec state machine: base chunks,
// full-parity chunks, and a stream of random-parity chunks, pumped one
// step at a time by the caller.
package sender

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/pkhuong/strokkur/internal/digest"
	"github.com/pkhuong/strokkur/internal/protoerrors"
	"github.com/pkhuong/strokkur/internal/wire"
)

// State is the sender's codec state for a single message. It is not safe
// for concurrent use: like the codec it was ported from, it is a
// single-threaded, cooperatively-pumped state machine.
type State struct {
	header wire.Header

	data       []byte // the full message, sliced into chunks of chunkBytes
	nBase      int     // chunk_count
	nRedundant int     // number of random-parity rows
	progress   int     // steps completed so far
	masks      []wire.Mask // one mask per redundant row, built at Init
	scratch    [wire.ChunkDataMax]byte

	rng           io.Reader
	computeDigest bool
}

// Option configures State at construction.
type Option func(*State)

// WithRand overrides the randomness source used to build parity-row masks.
// Defaults to crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(s *State) { s.rng = r }
}

// WithDigest populates the header's reserved hash field with the BLAKE2b
// digest of the payload. Left unset, the field stays all-zero, matching
// the original protocol's unimplemented hash hook.
func WithDigest(enable bool) Option {
	return func(s *State) { s.computeDigest = enable }
}

// Init initializes a sender state for data, with redundantMessages random
// parity rows (clamped to MaxRedundant). nowUS is the send timestamp in
// microseconds (the caller's clock, so tests can control it).
func Init(data []byte, redundantMessages int, nowUS uint64, opts ...Option) (*State, error) {
	if len(data) == 0 {
		return nil, protoerrors.NewCapacityError(protoerrors.CapacityPayloadEmpty)
	}
	if len(data) > wire.ChunkMax*wire.ChunkDataMax {
		return nil, protoerrors.NewCapacityError(protoerrors.CapacityPayloadTooLarge)
	}
	if redundantMessages > wire.MaxRedundant {
		redundantMessages = wire.MaxRedundant
	}
	if redundantMessages < 0 {
		redundantMessages = 0
	}

	nChunk := (len(data) + wire.ChunkDataMax - 1) / wire.ChunkDataMax

	s := &State{
		data:       data,
		nBase:      nChunk,
		nRedundant: redundantMessages,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.Reader
	}

	s.header = wire.Header{
		SendTimestampUS: nowUS,
		MessageID:       uuid.New(),
		MessageBytes:    uint32(len(data)),
		ChunkCount:      uint16(nChunk),
	}
	if s.computeDigest {
		d := digest.Compute(data)
		s.header.Hash = d
	}

	masks, err := buildRedundantMasks(nChunk, redundantMessages, s.rng)
	if err != nil {
		return nil, fmt.Errorf("sender: building parity masks: %w", err)
	}
	s.masks = masks

	return s, nil
}

// Initialised reports whether the state was successfully constructed with
// a non-empty message (mirrors the original's message_bytes != 0 check).
func (s *State) Initialised() bool { return s.header.MessageBytes != 0 }

// totalSteps is the number of Pump calls needed to emit every base chunk,
// the full-parity chunk (sent twice), and every random-parity chunk (each
// sent twice): chunk_count + 2*(1+n_redundant).
func (s *State) totalSteps() int {
	return s.nBase + 2*(1+s.nRedundant)
}

// Done reports whether every step has been pumped.
func (s *State) Done() bool { return s.progress >= s.totalSteps() }

func chunkSlice(data []byte, column int) []byte {
	start := column * wire.ChunkDataMax
	if start >= len(data) {
		return nil
	}
	end := start + wire.ChunkDataMax
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}
