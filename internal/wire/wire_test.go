package wire

import (
	"testing"

	"github.com/google/uuid"
)

func TestHeaderSizeIsTwoCacheLines(t *testing.T) {
	if HeaderSize != 128 {
		t.Fatalf("HeaderSize = %d, want 128", HeaderSize)
	}
	if HeaderSize%64 != 0 {
		t.Fatalf("HeaderSize %d not a multiple of 64", HeaderSize)
	}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		SendTimestampUS: 1234567890123,
		MessageID:       uuid.New(),
		MessageBytes:    4096,
		ChunkCount:      3,
		ChunkBytes:      1500,
	}
	h.Hash[0] = 0xAB
	h.Mask.Set(0)
	h.Mask.Set(17)
	h.Mask.Set(511)

	buf := make([]byte, HeaderSize)
	h.Encode(buf)

	var got Header
	if err := got.Decode(buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, h)
	}
}

func TestMaskBits(t *testing.T) {
	var m Mask
	if !m.IsZero() {
		t.Fatal("fresh mask should be zero")
	}
	m.Set(5)
	m.Set(200)
	if m.IsZero() {
		t.Fatal("mask with bits set reported zero")
	}
	if !m.Test(5) || !m.Test(200) {
		t.Fatal("expected bits not set")
	}
	if m.Test(6) {
		t.Fatal("unexpected bit set")
	}
	lo, ok := m.Lowest()
	if !ok || lo != 5 {
		t.Fatalf("Lowest() = %d, %v; want 5, true", lo, ok)
	}
	m.Clear(5)
	if m.Test(5) {
		t.Fatal("bit not cleared")
	}
}

func TestMaskXORSelfInverse(t *testing.T) {
	var a, b Mask
	a.Set(3)
	a.Set(400)
	b.Set(400)
	b.Set(10)
	orig := a
	a.XOR(&b)
	a.XOR(&b)
	if a != orig {
		t.Fatal("XOR twice did not restore original mask")
	}
}

func TestEncodeDecodeChunkRoundTrip(t *testing.T) {
	h := Header{MessageBytes: 10, ChunkCount: 1, ChunkBytes: 5}
	h.MessageID = uuid.New()
	data := []byte{1, 2, 3, 4, 5}

	buf := make([]byte, HeaderSize+len(data))
	n, err := EncodeChunk(buf, &h, data)
	if err != nil {
		t.Fatalf("EncodeChunk: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("n = %d, want %d", n, len(buf))
	}

	var c Chunk
	if err := DecodeChunk(buf, n, &c); err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if c.Header.MessageID != h.MessageID {
		t.Fatal("message id mismatch")
	}
	if string(c.Payload()) != string(data) {
		t.Fatalf("payload mismatch: got %v want %v", c.Payload(), data)
	}
}

func TestDecodeChunkRejectsShortDatagram(t *testing.T) {
	var c Chunk
	if err := DecodeChunk(make([]byte, HeaderSize-1), HeaderSize-1, &c); err == nil {
		t.Fatal("expected error for short datagram")
	}
}
