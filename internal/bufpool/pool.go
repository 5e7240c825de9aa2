// Package bufpool implements the chunk-container pool the codec and
// transports draw from, so a busy sender/receiver doesn't allocate a fresh
// 8KB+ container per chunk.
package bufpool

import (
	"sync"

	"github.com/pkhuong/strokkur/internal/wire"
)

// Pool hands out zeroed *wire.Chunk containers and recycles them. Every
// chunk container this protocol needs is the same fixed size, so unlike a
// general-purpose byte-slice pool this needs only one size class.
type Pool struct {
	pool sync.Pool
}

// New creates a chunk pool.
func New() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return new(wire.Chunk) },
		},
	}
}

// Get returns a chunk container guaranteed to be fully zeroed: header and
// all ChunkDataMax data bytes, not just the bytes the previous user wrote.
// Stale bytes from a shorter prior chunk must never leak into a later,
// longer one.
func (p *Pool) Get() *wire.Chunk {
	c := p.pool.Get().(*wire.Chunk)
	return c
}

// Put returns c to the pool after zeroing it.
func (p *Pool) Put(c *wire.Chunk) {
	if c == nil {
		return
	}
	c.Reset()
	p.pool.Put(c)
}

var defaultPool = New()

// Get draws a chunk container from the package-wide default pool.
func Get() *wire.Chunk { return defaultPool.Get() }

// Put returns a chunk container to the package-wide default pool.
func Put(c *wire.Chunk) { defaultPool.Put(c) }
