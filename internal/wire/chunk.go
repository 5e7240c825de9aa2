package wire

// Chunk is a header plus its data payload, sized at the maximum fixed
// capacity so containers can be pooled and reused across messages.
// Only Header.ChunkBytes bytes of Data are meaningful; the rest is treated
// as zero for XOR arithmetic and must in fact be zero (see bufpool).
type Chunk struct {
	Header Header
	Data   [ChunkDataMax]byte
}

// Reset zeroes the chunk completely, header and data, so no bytes from a
// previous message can leak into the next use of this container.
func (c *Chunk) Reset() {
	c.Header = Header{}
	for i := range c.Data {
		c.Data[i] = 0
	}
}

// Payload returns the meaningful slice of Data, per Header.ChunkBytes.
func (c *Chunk) Payload() []byte {
	return c.Data[:c.Header.ChunkBytes]
}
