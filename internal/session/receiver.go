// Package session drives the codec against a transport.Channel: a Sender
// pumps one message to completion, and a Receiver dispatches inbound
// datagrams to the right per-message receiver.State, evicting stale
// in-progress messages the sender never finished.
//
// Grounded on the teacher pack's DNS covert-channel queue manager
// (internal/dns-server/storage.go: MemoryStorage + CleanExpired) for the
// "track in-progress items by key, sweep out anything older than a TTL"
// shape, applied here to per-message receiver state instead of
// fully-assembled messages.
package session

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkhuong/strokkur/internal/bufpool"
	"github.com/pkhuong/strokkur/internal/logger"
	"github.com/pkhuong/strokkur/internal/protoerrors"
	"github.com/pkhuong/strokkur/internal/receiver"
	"github.com/pkhuong/strokkur/internal/transport"
	"github.com/pkhuong/strokkur/internal/wire"
)

// key identifies one in-progress message uniquely enough to route chunks:
// source address plus message id. send_timestamp_us and the other identity
// fields are still checked per-chunk by receiver.State.AddChunk.
type key struct {
	source string
	id     uuid.UUID
}

// Receiver dispatches inbound chunks across any number of concurrently
// in-progress messages on a single Channel.
type Receiver struct {
	ch     transport.Channel
	pool   *bufpool.Pool
	maxAge time.Duration

	mu     sync.Mutex
	states map[key]*receiver.State
}

// DefaultMaxAge is how long an incomplete message is kept before Sweep
// discards it.
const DefaultMaxAge = 30 * time.Second

// NewReceiver creates a Receiver reading from ch.
func NewReceiver(ch transport.Channel, pool *bufpool.Pool) *Receiver {
	return &Receiver{
		ch:     ch,
		pool:   pool,
		maxAge: DefaultMaxAge,
		states: make(map[key]*receiver.State),
	}
}

// WithMaxAge overrides DefaultMaxAge.
func (r *Receiver) WithMaxAge(d time.Duration) *Receiver {
	r.maxAge = d
	return r
}

// ReceiveOnce reads one datagram, folds it into the relevant message's
// basis, and reports whether that message is now ready to extract.
func (r *Receiver) ReceiveOnce(ctx context.Context) (messageID uuid.UUID, ready bool, err error) {
	raw := make([]byte, wire.HeaderSize+wire.ChunkDataMax)
	n, src, truncated, err := r.ch.Recv(ctx, raw)
	if err != nil {
		return uuid.UUID{}, false, protoerrors.NewTransportError("recv", err)
	}
	if truncated {
		return uuid.UUID{}, false, protoerrors.NewFramingError(protoerrors.FramingTruncated)
	}

	c := r.pool.Get()
	if err := wire.DecodeChunk(raw, n, c); err != nil {
		r.pool.Put(c)
		return uuid.UUID{}, false, err
	}
	if err := wire.ValidateFraming(&c.Header, n); err != nil {
		r.pool.Put(c)
		return uuid.UUID{}, false, err
	}

	k := key{source: src.String(), id: c.Header.MessageID}

	r.mu.Lock()
	st, ok := r.states[k]
	if !ok {
		st = receiver.Init(src, c)
		r.states[k] = st
	}
	r.mu.Unlock()

	res, err := st.AddChunk(src, c)
	if err != nil {
		r.pool.Put(c)
		return k.id, false, err
	}
	if res.Recycle != nil {
		r.pool.Put(res.Recycle)
	}

	logger.WithMessage(k.id.String(), src.String()).Debug(
		"chunk folded into basis",
		"status", res.Status,
		"remaining", res.Remaining,
	)

	if st.Ready() {
		return k.id, true, nil
	}
	return k.id, false, nil
}

// State returns the in-progress receiver.State for messageID from source,
// or nil if none is tracked.
func (r *Receiver) State(source net.Addr, messageID uuid.UUID) *receiver.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[key{source: source.String(), id: messageID}]
}

// StateByID looks up an in-progress message by id alone, for callers (like
// a single-peer CLI) that don't track the source address themselves.
// Returns nil if no state for that id exists, or if more than one source
// happens to be sending a message with the same id concurrently.
func (r *Receiver) StateByID(messageID uuid.UUID) *receiver.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *receiver.State
	for k, st := range r.states {
		if k.id == messageID {
			if found != nil {
				return nil
			}
			found = st
		}
	}
	return found
}

// Forget drops tracking for messageID from source, e.g. once its payload
// has been extracted and handed off.
func (r *Receiver) Forget(source net.Addr, messageID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, key{source: source.String(), id: messageID})
}

// Sweep discards any in-progress message whose first chunk arrived more
// than maxAge ago and that never reached a full basis. Callers should run
// this periodically; it is the external "age policy" the codec itself
// deliberately leaves unspecified.
func (r *Receiver) Sweep() int {
	cutoff := time.Now().Add(-r.maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for k, st := range r.states {
		if st.Ready() {
			continue
		}
		if st.FirstReceived().Before(cutoff) {
			delete(r.states, k)
			removed++
		}
	}
	return removed
}
