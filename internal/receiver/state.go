// Package receiver implements the receiver codec: online Gaussian
// elimination over GF(2) of incoming chunks into a full-rank basis, and
// back-substitution to recover the original payload.
package receiver

import (
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/pkhuong/strokkur/internal/digest"
	"github.com/pkhuong/strokkur/internal/protoerrors"
	"github.com/pkhuong/strokkur/internal/wire"
)

// State is the receiver's codec state for a single in-progress message.
// Like sender.State, it is single-threaded and not safe for concurrent use.
type State struct {
	firstReceived time.Time
	source        net.Addr

	sendTimestampUS uint64
	messageID       uuid.UUID
	hash            [32]byte
	messageBytes    uint32
	chunkCount      uint16
	chunkReceived   uint16

	chunks           []*wire.Chunk // len chunkCount; nil entries are unfilled basis rows
	alreadyExtracted bool
}

// Init creates receiver state seeded by the first chunk accepted for a new
// message, establishing the identity fields every subsequent chunk must
// match.
func Init(source net.Addr, chunk *wire.Chunk) *State {
	h := chunk.Header
	return &State{
		firstReceived:   time.Now(),
		source:          source,
		sendTimestampUS: h.SendTimestampUS,
		messageID:       h.MessageID,
		hash:            h.Hash,
		messageBytes:    h.MessageBytes,
		chunkCount:      h.ChunkCount,
		chunks:          make([]*wire.Chunk, h.ChunkCount),
	}
}

// Initialised reports whether the state was seeded by a real chunk.
func (s *State) Initialised() bool { return s.messageBytes != 0 }

// MessageID returns the identity this state was initialized for.
func (s *State) MessageID() uuid.UUID { return s.messageID }

// FirstReceived returns when this state was created, for idle-eviction
// bookkeeping by the session driver.
func (s *State) FirstReceived() time.Time { return s.firstReceived }

// Ready reports whether the receiver holds a full-rank basis and can
// extract the payload. Unlike the original's `chunk_received > chunk_count`
// (dead code: chunk_received never exceeds chunk_count before backsolve
// runs), this uses the straightforward `>=` the design notes call for, and
// alreadyExtracted keeps repeated calls after backsolve idempotent.
func (s *State) Ready() bool {
	return s.alreadyExtracted || s.chunkReceived >= s.chunkCount
}

// checkIdentity verifies an incoming chunk belongs to the message this
// state was initialized for.
func (s *State) checkIdentity(source net.Addr, h *wire.Header) error {
	if source.String() != s.source.String() {
		return protoerrors.NewIdentityError(protoerrors.IdentitySource)
	}
	if s.sendTimestampUS != h.SendTimestampUS {
		return protoerrors.NewIdentityError(protoerrors.IdentityTimestamp)
	}
	if s.messageID != h.MessageID {
		return protoerrors.NewIdentityError(protoerrors.IdentityMessageID)
	}
	if s.hash != h.Hash {
		return protoerrors.NewIdentityError(protoerrors.IdentityHash)
	}
	if s.messageBytes != h.MessageBytes {
		return protoerrors.NewIdentityError(protoerrors.IdentityMessageBytes)
	}
	if s.chunkCount != h.ChunkCount {
		return protoerrors.NewIdentityError(protoerrors.IdentityChunkCount)
	}
	return nil
}

// VerifyDigest checks the reserved hash field against the extracted
// payload. Only meaningful after Extract; returns ErrDigestNotProvided if
// the sender never populated the hook.
func (s *State) VerifyDigest(payload []byte) (bool, error) {
	if !digest.Provided(s.hash) {
		return false, protoerrors.ErrDigestNotProvided
	}
	return digest.Verify(s.hash, payload), nil
}
