package session

import (
	"context"
	"net"
	"time"

	"github.com/pkhuong/strokkur/internal/sender"
	"github.com/pkhuong/strokkur/internal/transport"
)

// SendMessage drives a sender.State to completion against ch, delivering
// payload to dst with redundantMessages random-parity rows.
func SendMessage(ctx context.Context, ch transport.Channel, dst net.Addr, payload []byte, redundantMessages int, opts ...sender.Option) error {
	s, err := sender.Init(payload, redundantMessages, uint64(time.Now().UnixMicro()), opts...)
	if err != nil {
		return err
	}
	for {
		more, err := s.Pump(ctx, ch, dst)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
