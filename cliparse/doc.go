// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first if present;
explicit environment variables override it, and CLI flags override both.

# Config Fields

  - Port: Server listen port (default: 3319)
  - Backend: Ledger backend, "local" or "chain" (default: local)
  - DatabaseURL: Connection string for the local backend
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - GatewayURLs: Gateway base URLs for the chain backend
  - GatewayTimeout: Per-request gateway timeout
  - SnapshotCron: Poll snapshot refresh schedule (default: @every 15s)
  - SubmitWait: How long a request waits for a submission to settle

# CLI Flags

	-p               Server port
	-b               Ledger backend (local or chain)
	-d               Database URL
	-t               Database type
	-g               Comma-separated gateway URLs
	--gateway-timeout Per-request gateway timeout
	--snapshot-cron  Snapshot refresh schedule
	--submit-wait    Submission settle wait

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	LEDGER_BACKEND  → -b
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	GATEWAY_URLS    → -g
	GATEWAY_TIMEOUT → --gateway-timeout
	SNAPSHOT_CRON   → --snapshot-cron
	SUBMIT_WAIT     → --submit-wait

# Validation

ParseFlags returns an error if required values are missing:

  - local backend: DATABASE_URL must be provided
  - chain backend: at least one gateway URL must be provided
*/
package cliparse
