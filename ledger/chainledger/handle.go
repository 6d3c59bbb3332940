// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chainledger

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/chainpoll/ledger"
)

// txHandle observes one submitted transaction. Wait polls the gateway
// until the tx settles or ctx expires; expiry abandons observation
// only — the chain may still apply the tx.
type txHandle struct {
	hash     string
	client   *client
	interval time.Duration
}

func (h *txHandle) ID() string { return h.hash }

func (h *txHandle) Wait(ctx context.Context) (ledger.Receipt, error) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		var tx wireTx
		if err := h.client.getJSON(ctx, pathTx(h.hash), &tx); err != nil {
			return ledger.Receipt{}, fmt.Errorf("query tx %s: %w", h.hash, err)
		}
		if tx.Status != txStatusPending {
			return decodeReceipt(tx), nil
		}
		select {
		case <-ctx.Done():
			return ledger.Receipt{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
