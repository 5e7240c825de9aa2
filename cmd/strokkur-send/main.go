// Command strokkur-send transmits a single file as a datagram-FEC-coded
// message, over UDP or a DNS tunnel.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkhuong/strokkur/internal/logger"
	"github.com/pkhuong/strokkur/internal/sender"
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
		logger.Error(context.Background(), "send failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *cliConfig) error {
	payload, err := os.ReadFile(cfg.inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.inputFile, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ch transport.Channel
	var dst net.Addr

	if cfg.dns {
		ch = transport.NewDNSClient(cfg.dnsZone, cfg.dst)
	} else {
		udpDst, err := net.ResolveUDPAddr("udp", cfg.dst)
		if err != nil {
			return fmt.Errorf("resolving -dst %q: %w", cfg.dst, err)
		}
		dst = udpDst
		c, err := transport.ListenUDP(":0")
		if err != nil {
			return fmt.Errorf("opening UDP socket: %w", err)
		}
		defer c.Close()
		ch = c
	}

	var opts []sender.Option
	if cfg.digest {
		opts = append(opts, sender.WithDigest(true))
	}

	start := time.Now()
	if err := session.SendMessage(ctx, ch, dst, payload, cfg.redundancy, opts...); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	logger.Info(ctx, "message sent", "bytes", len(payload), "elapsed", time.Since(start))
	return nil
}
