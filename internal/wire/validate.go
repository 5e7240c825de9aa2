package wire

import "github.com/pkhuong/strokkur/internal/protoerrors"

// ValidateFraming checks the syntactic framing invariants a receiver must
// enforce before trusting a decoded chunk: that the declared sizes are
// internally consistent and within protocol bounds. n is the number of
// bytes the transport actually delivered for this datagram (header+data).
func ValidateFraming(h *Header, n int) error {
	expected := HeaderSize + int(h.ChunkBytes)
	if n != expected {
		return protoerrors.NewFramingError(protoerrors.FramingSizeMismatch)
	}
	// A header claiming less payload overall than this one chunk carries
	// is malformed; compared against the carried chunk_bytes, not against
	// n (header+chunk_bytes), which would reject every single-chunk
	// message since message_bytes == chunk_bytes there.
	if h.MessageBytes < uint32(h.ChunkBytes) {
		return protoerrors.NewFramingError(protoerrors.FramingTooSmall)
	}
	if h.ChunkCount == 0 || h.ChunkCount > ChunkMax {
		return protoerrors.NewFramingError(protoerrors.FramingBadChunkCount)
	}
	if h.MessageBytes <= uint32(h.ChunkCount-1)*ChunkDataMax {
		return protoerrors.NewFramingError(protoerrors.FramingTooSmall)
	}
	if h.MessageBytes > uint32(h.ChunkCount-1)*ChunkDataMax+uint32(h.ChunkBytes) {
		return protoerrors.NewFramingError(protoerrors.FramingTooLarge)
	}
	return nil
}
