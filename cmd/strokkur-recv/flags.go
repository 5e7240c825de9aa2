package main

import (
	"flag"
	"fmt"
	"time"
)

type cliConfig struct {
	listen     string
	outputFile string
	logLevel   string
	maxAge     time.Duration
	dns        bool
	dnsZone    string
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("strokkur-recv", flag.ContinueOnError)

	cfg := &cliConfig{}
	fs.StringVar(&cfg.listen, "listen", ":9000", "address to listen on")
	fs.StringVar(&cfg.outputFile, "output", "", "path to write the reassembled message (required)")
	fs.StringVar(&cfg.logLevel, "log.level", "", "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.maxAge, "max-age", 30*time.Second, "discard an incomplete message after this long")
	fs.BoolVar(&cfg.dns, "dns", false, "receive over a DNS tunnel instead of UDP")
	fs.StringVar(&cfg.dnsZone, "dns.zone", "", "DNS zone suffix to tunnel under (required with -dns)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *cliConfig) error {
	if cfg.outputFile == "" {
		return fmt.Errorf("-output is required")
	}
	if cfg.dns && cfg.dnsZone == "" {
		return fmt.Errorf("-dns.zone is required with -dns")
	}
	return nil
}
