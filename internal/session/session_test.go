package session

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/pkhuong/strokkur/internal/bufpool"
	"github.com/pkhuong/strokkur/internal/transport"
)

// loopbackChannel is an in-memory Channel connecting one SendMessage call
// directly to one Receiver, for session-level tests without real sockets.
type loopbackChannel struct {
	inbound chan []byte
	addr    net.Addr
}

func newLoopback() *loopbackChannel {
	return &loopbackChannel{
		inbound: make(chan []byte, 256),
		addr:    &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5000},
	}
}

func (l *loopbackChannel) Send(ctx context.Context, dst net.Addr, header, data []byte) (int, error) {
	buf := append(append([]byte(nil), header...), data...)
	l.inbound <- buf
	return len(buf), nil
}

func (l *loopbackChannel) Recv(ctx context.Context, buf []byte) (int, net.Addr, bool, error) {
	select {
	case d := <-l.inbound:
		n := copy(buf, d)
		return n, l.addr, n < len(d), nil
	case <-ctx.Done():
		return 0, nil, false, ctx.Err()
	}
}

var _ transport.Channel = (*loopbackChannel)(nil)

func TestSessionEndToEnd(t *testing.T) {
	lb := newLoopback()
	pool := bufpool.New()
	recv := NewReceiver(lb, pool)

	payload := bytes.Repeat([]byte{0x5A}, 5000)
	dst := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6000}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := SendMessage(ctx, lb, dst, payload, 6); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	close(lb.inbound)

	var id [16]byte
	var got []byte
	for {
		msgID, ready, err := recv.ReceiveOnce(ctx)
		if err != nil {
			break // channel drained
		}
		id = msgID
		if ready {
			st := recv.State(lb.addr, msgID)
			out, err := st.Extract()
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			got = out
			break
		}
	}
	_ = id
	if !bytes.Equal(got, payload) {
		t.Fatalf("session round trip mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestSweepEvictsStaleState(t *testing.T) {
	lb := newLoopback()
	pool := bufpool.New()
	recv := NewReceiver(lb, pool).WithMaxAge(1 * time.Millisecond)

	payload := bytes.Repeat([]byte{0x33}, 10000) // 2 base columns
	dst := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6001}

	ctx := context.Background()
	if err := SendMessage(ctx, lb, dst, payload, 2); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// Consume only the first datagram so the message stays incomplete.
	ctx2, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if _, _, err := recv.ReceiveOnce(ctx2); err != nil {
		t.Fatalf("ReceiveOnce: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if removed := recv.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d states, want 1", removed)
	}
}
