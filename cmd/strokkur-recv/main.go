// Command strokkur-recv listens for a datagram-FEC-coded message and
// writes the reassembled payload to a file once a full basis arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkhuong/strokkur/internal/bufpool"
	"github.com/pkhuong/strokkur/internal/logger"
	"github.com/pkhuong/strokkur/internal/session"
	"github.com/pkhuong/strokkur/internal/transport"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.Init(cfg.logLevel)

	if err := run(cfg); err != nil {
		logger.Error(context.Background(), "receive failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *cliConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ch transport.Channel
	if cfg.dns {
		srv, err := transport.ListenDNS(cfg.dnsZone, cfg.listen)
		if err != nil {
			return fmt.Errorf("listening for DNS tunnel: %w", err)
		}
		defer srv.Close()
		ch = srv
	} else {
		c, err := transport.ListenUDP(cfg.listen)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.listen, err)
		}
		defer c.Close()
		ch = c
	}

	pool := bufpool.New()
	recv := session.NewReceiver(ch, pool).WithMaxAge(cfg.maxAge)

	sweepTicker := time.NewTicker(cfg.maxAge / 2)
	defer sweepTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sweepTicker.C:
			if n := recv.Sweep(); n > 0 {
				logger.Info(ctx, "swept stale in-progress messages", "count", n)
			}
		default:
		}

		msgID, ready, err := recv.ReceiveOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn(ctx, "dropping invalid chunk", "error", err)
			continue
		}
		if !ready {
			continue
		}

		st := recv.StateByID(msgID)
		if st == nil {
			continue
		}
		payload, err := st.Extract()
		if err != nil {
			logger.Warn(ctx, "extract failed", "error", err)
			continue
		}
		if err := os.WriteFile(cfg.outputFile, payload, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.outputFile, err)
		}
		logger.Info(ctx, "message received", "bytes", len(payload), "output", cfg.outputFile)
		return nil
	}
}
