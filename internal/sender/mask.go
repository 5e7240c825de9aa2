package sender

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkhuong/strokkur/internal/wire"
)

// buildRedundantMasks constructs nRedundant parity-row masks over nChunk
// base columns. For each column, it assigns the column to ceil(k/2) of the
// nRedundant rows, chosen via a partial Fisher-Yates shuffle of the row
// indices — the same construction as the original's init_extra_row_mask.
func buildRedundantMasks(nChunk, nRedundant int, rng io.Reader) ([]wire.Mask, error) {
	masks := make([]wire.Mask, nRedundant)
	if nRedundant == 0 {
		return masks, nil
	}

	rows := make([]int, nRedundant)
	density := (nRedundant + 1) / 2 // ceil(k/2)

	for col := 0; col < nChunk; col++ {
		for i := range rows {
			rows[i] = i
		}
		randomWords, err := randomUint32s(rng, nRedundant)
		if err != nil {
			return nil, fmt.Errorf("reading randomness for column %d: %w", col, err)
		}
		for j := 0; j < density; j++ {
			remaining := uint64(nRedundant - j)
			offset := (uint64(randomWords[j]) * remaining) >> 32
			pick := j + int(offset)
			rows[j], rows[pick] = rows[pick], rows[j]
			masks[rows[j]].Set(col)
		}
	}
	return masks, nil
}

func randomUint32s(rng io.Reader, n int) ([]uint32, error) {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return out, nil
}
