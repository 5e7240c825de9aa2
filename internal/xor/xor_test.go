package xor

import "testing"

func TestIntoBasic(t *testing.T) {
	acc := []byte{0xFF, 0x00, 0xAA, 0x0F, 0x01, 0x02, 0x03, 0x04, 0x05}
	src := []byte{0x0F, 0xFF, 0xAA, 0xF0, 0x01, 0x02, 0x03, 0x04, 0x06}
	want := make([]byte, len(acc))
	for i := range acc {
		want[i] = acc[i] ^ src[i]
	}
	Into(acc, src, len(acc))
	for i := range acc {
		if acc[i] != want[i] {
			t.Fatalf("byte %d: got %02x want %02x", i, acc[i], want[i])
		}
	}
}

func TestIntoSelfInverse(t *testing.T) {
	acc := make([]byte, 37)
	src := make([]byte, 37)
	for i := range src {
		src[i] = byte(i * 7)
	}
	orig := append([]byte(nil), acc...)
	Into(acc, src, len(acc))
	Into(acc, src, len(acc))
	for i := range acc {
		if acc[i] != orig[i] {
			t.Fatalf("XOR twice did not restore original at byte %d", i)
		}
	}
}

func TestIntoFullShorterSrc(t *testing.T) {
	acc := make([]byte, 16)
	for i := range acc {
		acc[i] = 0xFF
	}
	src := []byte{0x01, 0x02, 0x03}
	IntoFull(acc, src)
	for i := 0; i < 3; i++ {
		if acc[i] != 0xFF^src[i] {
			t.Fatalf("byte %d wrong", i)
		}
	}
	for i := 3; i < len(acc); i++ {
		if acc[i] != 0xFF {
			t.Fatalf("byte %d unexpectedly modified", i)
		}
	}
}

func TestIntoPanicsOnOverrun(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for n exceeding slice length")
		}
	}()
	Into(make([]byte, 4), make([]byte, 4), 5)
}
