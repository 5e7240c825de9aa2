package bufpool

import "testing"

func TestGetIsZeroed(t *testing.T) {
	p := New()
	c := p.Get()
	for i, b := range c.Data {
		if b != 0 {
			t.Fatalf("fresh chunk has nonzero byte at %d", i)
		}
	}
	if c.Header.MessageBytes != 0 {
		t.Fatal("fresh chunk has nonzero header")
	}
}

func TestPutZeroesBeforeReuse(t *testing.T) {
	p := New()
	c := p.Get()
	c.Header.MessageBytes = 99
	c.Header.ChunkBytes = 5
	copy(c.Data[:5], []byte{1, 2, 3, 4, 5})
	p.Put(c)

	c2 := p.Get()
	if c2.Header.MessageBytes != 0 {
		t.Fatal("header not zeroed on reuse")
	}
	for i, b := range c2.Data[:5] {
		if b != 0 {
			t.Fatalf("data byte %d not zeroed on reuse", i)
		}
	}
}
