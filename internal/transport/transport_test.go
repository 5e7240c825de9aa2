package transport

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestUDPChannelLoopback(t *testing.T) {
	a, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP a: %v", err)
	}
	defer a.Close()
	b, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP b: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	header := []byte("HEADERBYTES")
	data := []byte("chunk payload")
	if _, err := a.Send(ctx, b.LocalAddr(), header, data); err != nil {
		t.Fatalf("Send: %v", err)
	}

	buf := make([]byte, 1024)
	n, _, truncated, err := b.Recv(ctx, buf)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if truncated {
		t.Fatal("unexpected truncation")
	}
	want := append(append([]byte(nil), header...), data...)
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("got %q, want %q", buf[:n], want)
	}
}

func TestUDPChannelDetectsTruncation(t *testing.T) {
	a, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP a: %v", err)
	}
	defer a.Close()
	b, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP b: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	big := bytes.Repeat([]byte{0x01}, 100)
	if _, err := a.Send(ctx, b.LocalAddr(), nil, big); err != nil {
		t.Fatalf("Send: %v", err)
	}

	small := make([]byte, 10)
	_, _, truncated, err := b.Recv(ctx, small)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !truncated {
		t.Fatal("expected truncation to be detected")
	}
}

func TestDNSEncodeDecodeQName(t *testing.T) {
	zone := "tunnel.example.org."
	payload := bytes.Repeat([]byte{0x11, 0x22, 0x33}, 10)

	qname, err := encodeQName(payload, zone)
	if err != nil {
		t.Fatalf("encodeQName: %v", err)
	}
	got, err := decodeQName(qname, zone)
	if err != nil {
		t.Fatalf("decodeQName: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %v want %v", got, payload)
	}
}

func TestDNSChannelRoundTrip(t *testing.T) {
	zone := "tunnel.test."
	srv, err := ListenDNS(zone, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenDNS: %v", err)
	}
	defer srv.Close()

	client := NewDNSClient(zone, srv.LocalAddr().String())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload := []byte("small tunneled fragment")
	if _, err := client.Send(ctx, nil, payload, nil); err != nil {
		t.Fatalf("client.Send: %v", err)
	}

	buf := make([]byte, 512)
	n, _, _, err := srv.Recv(ctx, buf)
	if err != nil {
		t.Fatalf("srv.Recv: %v", err)
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Fatalf("got %q, want %q", buf[:n], payload)
	}
}
