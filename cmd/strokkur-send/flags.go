package main

import (
	"flag"
	"fmt"
)

type cliConfig struct {
	dst        string
	inputFile  string
	redundancy int
	logLevel   string
	digest     bool
	dns        bool
	dnsZone    string
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("strokkur-send", flag.ContinueOnError)

	cfg := &cliConfig{}
	fs.StringVar(&cfg.dst, "dst", "", "destination address, host:port")
	fs.StringVar(&cfg.inputFile, "input", "", "path to the file to send (required)")
	fs.IntVar(&cfg.redundancy, "redundant", 8, "number of random-parity rows to emit")
	fs.StringVar(&cfg.logLevel, "log.level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.digest, "digest", false, "populate the reserved hash field with a content digest")
	fs.BoolVar(&cfg.dns, "dns", false, "tunnel over DNS instead of UDP")
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
	if cfg.inputFile == "" {
		return fmt.Errorf("-input is required")
	}
	if cfg.dst == "" {
		return fmt.Errorf("-dst is required")
	}
	if cfg.redundancy < 0 {
		return fmt.Errorf("-redundant must be >= 0")
	}
	if cfg.dns && cfg.dnsZone == "" {
		return fmt.Errorf("-dns.zone is required with -dns")
	}
	return nil
}
