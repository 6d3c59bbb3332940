// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the chainpoll API server.

Chainpoll is a public polling service where every identity gets exactly
one final vote per poll. Polls live until a deadline or until their
creator ends them early; results are derived tallies with half-up
percentages, and creator/poll leaderboards rank by accumulated votes.

# Starting the Server

The local backend stores polls in sqlite or PostgreSQL:

	DATABASE_URL=chainpoll.db go run main.go

The chain backend talks to one or more voting-contract gateways:

	go run main.go -b chain -g http://localhost:8080

# Configuration

Backend-specific settings:

  - local: DATABASE_URL (-d), DATABASE_TYPE (-t, default sqlite)
  - chain: GATEWAY_URLS (-g), GATEWAY_TIMEOUT, SNAPSHOT_CRON

Common settings:

  - PORT (-p): Server port (default: 3319)
  - LEDGER_BACKEND (-b): local or chain (default: local)
  - SUBMIT_WAIT: How long a request waits for a submission to settle

A .env file in the working directory is honored.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, results, rank)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, domain error mapping
  - models: Request/response types and the error taxonomy
  - identity: Voter address normalization and request identity
  - poll: Core service (validation, admission, tallies, listing)
  - rank: Leaderboard computation with time windows
  - reconcile: Submission tracking against the ledger
  - ledger: Backend ports, with localledger and chainledger adapters
  - db: Schema creation for the local backend
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
