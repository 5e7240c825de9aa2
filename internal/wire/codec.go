package wire

import "fmt"

// EncodeChunk serializes header and data (exactly chunkBytes of it) into
// buf, which must be at least HeaderSize+chunkBytes bytes long. Returns the
// number of bytes written.
func EncodeChunk(buf []byte, h *Header, data []byte) (int, error) {
	total := HeaderSize + len(data)
	if len(buf) < total {
		return 0, fmt.Errorf("wire: encode buffer too small: have %d need %d", len(buf), total)
	}
	h.Encode(buf[:HeaderSize])
	copy(buf[HeaderSize:total], data)
	return total, nil
}

// DecodeChunk parses a datagram payload (header + data) into c. n is the
// number of bytes actually present in buf (e.g. the return value of a
// socket read); any bytes of c.Data beyond the decoded chunk_bytes are left
// zeroed by the caller's buffer-pool contract, not by this function.
func DecodeChunk(buf []byte, n int, c *Chunk) error {
	if n < HeaderSize {
		return fmt.Errorf("wire: datagram too short for header: %d bytes", n)
	}
	if err := c.Header.Decode(buf[:HeaderSize]); err != nil {
		return err
	}
	dataLen := n - HeaderSize
	if dataLen > ChunkDataMax {
		return fmt.Errorf("wire: datagram data exceeds capacity: %d bytes", dataLen)
	}
	copy(c.Data[:dataLen], buf[HeaderSize:n])
	return nil
}
