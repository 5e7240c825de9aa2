// Package transport implements the datagram Channel collaborator the
// codec sends and receives chunks through. Two implementations are
// provided: a plain UDP channel, and a DNS-tunneled channel for
// environments where only DNS egress is available.
package transport

import (
	"context"
	"net"
)

// Channel is the external datagram-channel contract the sender and
// receiver codecs are built against. Implementations need not be reliable
// or ordered; the FEC layer above tolerates loss, duplication, and
// reordering by construction.
type Channel interface {
	// Send transmits header followed by data as a single datagram to dst.
	Send(ctx context.Context, dst net.Addr, header, data []byte) (int, error)

	// Recv reads one datagram into buf, returning the number of bytes
	// written, the sender's address, and whether the datagram was
	// truncated because it exceeded len(buf).
	Recv(ctx context.Context, buf []byte) (n int, src net.Addr, truncated bool, err error)
}
