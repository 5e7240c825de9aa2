package receiver

import (
	"net"

	"github.com/pkhuong/strokkur/internal/wire"
	"github.com/pkhuong/strokkur/internal/xor"
)

// AddChunkStatus classifies what AddChunk did with an incoming chunk.
type AddChunkStatus int

const (
	// StatusAbsorbed means the chunk became a new basis row.
	StatusAbsorbed AddChunkStatus = iota
	// StatusRejected means no new basis row resulted: the chunk was an
	// exact duplicate of an existing basis row, or it reduced to the zero
	// row against the stored basis. Recycle holds the chunk handed back.
	StatusRejected
	// StatusDisplaced means the chunk replaced an existing basis row
	// because it had strictly smaller lexicographic support, and the
	// displaced row was reduced and re-absorbed at a different position.
	// If the displaced row instead reduces to the zero row, AddChunk
	// reports StatusRejected and hands that row back in Recycle.
	StatusDisplaced
)

// AddChunkResult reports the outcome of AddChunk and which container (if
// any) the caller should recycle back to its pool.
type AddChunkResult struct {
	Status    AddChunkStatus
	Recycle   *wire.Chunk
	Remaining int // chunk_count - chunk_received, 0 once a full basis exists
}

// AddChunk folds an incoming chunk into the online GF(2) basis. It is the
// Go expression of the original's pointer-to-pointer ownership handshake,
// as a single return value: the chunk is either kept (absorbed into the
// basis, possibly displacing a previous occupant that continues being
// reduced) or handed back to the caller to recycle (exact duplicate, or a
// linear combination that reduced to the zero row).
func (s *State) AddChunk(source net.Addr, chunk *wire.Chunk) (AddChunkResult, error) {
	if err := s.checkIdentity(source, &chunk.Header); err != nil {
		return AddChunkResult{}, err
	}

	if s.alreadyExtracted {
		return AddChunkResult{Status: StatusRejected, Recycle: chunk}, nil
	}

	nWord := (int(s.chunkCount) + 31) / 32
	status := StatusAbsorbed
	cur := chunk

	for word := 0; word < nWord && cur != nil; word++ {
		if cur.Header.Mask[word] == 0 {
			continue
		}
		var displaced bool
		cur, displaced = s.processRows(cur, word)
		if displaced {
			status = StatusDisplaced
		}
	}

	remaining := int(s.chunkCount) - int(s.chunkReceived)
	if remaining < 0 {
		remaining = 0
	}

	if cur == nil {
		return AddChunkResult{Status: status, Remaining: remaining}, nil
	}
	// Whatever reaches here carried no new information: either an exact
	// duplicate of a stored basis row, or a combination that reduced to
	// all-zero (fully dependent on rows we already hold).
	return AddChunkResult{Status: StatusRejected, Recycle: cur, Remaining: remaining}, nil
}

// processRows walks the set bits of chunk's mask within the given word,
// reducing chunk against the stored basis row at each pivot until either
// the chunk is absorbed/rejected (nil) or the word is exhausted.
func (s *State) processRows(chunk *wire.Chunk, word int) (*wire.Chunk, bool) {
	displaced := false
	for chunk != nil {
		row, ok := chunk.Header.Mask.NextInWord(word)
		if !ok {
			break
		}
		var d bool
		chunk, d = s.processRow(chunk, row)
		displaced = displaced || d
		// Only an exact duplicate comes back with its pivot bit still set;
		// it is handed back as-is instead of being processed again.
		if chunk != nil && chunk.Header.Mask.Test(row) {
			break
		}
	}
	return chunk, displaced
}

// processRow reduces chunk against row_index's stored basis row, or
// absorbs/rejects it if row_index matches exactly.
func (s *State) processRow(chunk *wire.Chunk, row int) (*wire.Chunk, bool) {
	if s.chunks[row] == nil {
		s.chunkReceived++
		s.chunks[row] = chunk
		return nil, false
	}

	word, shift := row/32, uint(row%32)
	if chunk.Header.Mask[word] == 1<<shift {
		var baseMask wire.Mask
		baseMask.Set(row)
		if baseMask.Equal(&chunk.Header.Mask) {
			return s.processBasis(chunk, row)
		}
	}

	s.subtractRow(chunk, row)
	return chunk, false
}

// processBasis handles the case where chunk's mask is exactly the single
// basis vector for row: absorb if the slot is empty (impossible here since
// processRow already handled that), reject an exact duplicate, or displace
// the stored row if it differs, continuing reduction on the displaced row.
func (s *State) processBasis(chunk *wire.Chunk, row int) (*wire.Chunk, bool) {
	stored := s.chunks[row]
	if stored == nil {
		s.chunkReceived++
		s.chunks[row] = chunk
		return nil, false
	}

	if chunk.Header.Mask.Equal(&stored.Header.Mask) {
		return chunk, false // exact duplicate: caller recycles it
	}

	displaced := stored
	s.chunks[row] = chunk
	s.subtractRow(displaced, row)
	return displaced, true
}

// subtractRow XORs the stored basis row at row_index into chunk in place
// (mask and data both), reducing chunk's pivot at row_index to zero.
func (s *State) subtractRow(chunk *wire.Chunk, row int) {
	base := s.chunks[row]
	chunk.Header.Mask.XOR(&base.Header.Mask)
	xor.IntoFull(chunk.Data[:], base.Data[:])
}
