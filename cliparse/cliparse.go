// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendLocal = "local"
	BackendChain = "chain"
)

type Config struct {
	Port    int
	Backend string

	// Local backend
	DatabaseURL  string
	DatabaseType string

	// Chain backend
	GatewayURLs    []string
	GatewayTimeout time.Duration
	SnapshotCron   string

	// How long a request waits for a submission to settle before
	// reporting it as pending.
	SubmitWait time.Duration
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	// Load .env if present; real env always wins.
	_ = godotenv.Load()

	var cfg Config
	var gateways string
	var timeoutStr, waitStr string

	fs := flag.NewFlagSet("chainpoll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.Backend, "b", "", "Ledger backend (local or chain)")

	// Local backend
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Chain backend
	fs.StringVar(&gateways, "g", "", "Comma-separated gateway base URLs")
	fs.StringVar(&timeoutStr, "gateway-timeout", "", "Per-request gateway timeout (e.g. 15s)")
	fs.StringVar(&cfg.SnapshotCron, "snapshot-cron", "", "Snapshot refresh schedule (cron syntax)")
	fs.StringVar(&waitStr, "submit-wait", "", "How long to wait for a submission to settle")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3319 // default
		}
	}

	if cfg.Backend == "" {
		cfg.Backend = os.Getenv("LEDGER_BACKEND")
		if cfg.Backend == "" {
			cfg.Backend = BackendLocal
		}
	}
	if cfg.Backend != BackendLocal && cfg.Backend != BackendChain {
		return Config{}, errors.New("backend must be \"local\" or \"chain\"")
	}

	if gateways == "" {
		gateways = os.Getenv("GATEWAY_URLS")
	}
	for _, g := range strings.Split(gateways, ",") {
		if g = strings.TrimSpace(g); g != "" {
			cfg.GatewayURLs = append(cfg.GatewayURLs, g)
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	// Backend-specific requirements
	switch cfg.Backend {
	case BackendLocal:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case BackendChain:
		if len(cfg.GatewayURLs) == 0 {
			return Config{}, errors.New("gateway URLs required (use -g or GATEWAY_URLS env)")
		}
	}

	if timeoutStr == "" {
		timeoutStr = os.Getenv("GATEWAY_TIMEOUT")
	}
	if timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, errors.New("invalid gateway timeout: " + timeoutStr)
		}
		cfg.GatewayTimeout = d
	}

	if cfg.SnapshotCron == "" {
		cfg.SnapshotCron = os.Getenv("SNAPSHOT_CRON")
		if cfg.SnapshotCron == "" {
			cfg.SnapshotCron = "@every 15s"
		}
	}

	if waitStr == "" {
		waitStr = os.Getenv("SUBMIT_WAIT")
	}
	if waitStr != "" {
		d, err := time.ParseDuration(waitStr)
		if err != nil {
			return Config{}, errors.New("invalid submit wait: " + waitStr)
		}
		cfg.SubmitWait = d
	} else {
		cfg.SubmitWait = 30 * time.Second
	}

	return cfg, nil
}
