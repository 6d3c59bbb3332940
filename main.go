// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/chainpoll/cliparse"
	"github.com/danielhkuo/chainpoll/db"
	"github.com/danielhkuo/chainpoll/ledger"
	"github.com/danielhkuo/chainpoll/ledger/chainledger"
	"github.com/danielhkuo/chainpoll/ledger/localledger"
	"github.com/danielhkuo/chainpoll/poll"
	"github.com/danielhkuo/chainpoll/router"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Wire the ledger backend
	var (
		read   ledger.ReadPort
		write  ledger.WritePort
		purger ledger.Purger
		stop   func()
	)
	switch cfg.Backend {
	case cliparse.BackendLocal:
		dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		if err := dbConn.Ping(); err != nil {
			slog.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
			slog.Error("schema creation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema ready", "type", cfg.DatabaseType)

		local := localledger.New(dbConn, nil)
		read, write, purger = local, local, local

	case cliparse.BackendChain:
		chain, err := chainledger.New(chainledger.Opts{
			Endpoints: cfg.GatewayURLs,
			Timeout:   cfg.GatewayTimeout,
		})
		if err != nil {
			slog.Error("gateway setup failed", "error", err)
			os.Exit(1)
		}
		stop, err = chain.StartRefresher(cfg.SnapshotCron)
		if err != nil {
			slog.Error("snapshot refresher failed", "error", err)
			os.Exit(1)
		}
		defer stop()
		slog.Info("Gateway backend ready", "endpoints", len(cfg.GatewayURLs))

		// Purging confirmed history is not a thing on chain.
		read, write = chain, chain
	}

	svc := poll.NewService(read, write, nil)

	// Create router
	mux := router.NewRouter(svc, purger, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "backend", cfg.Backend)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
