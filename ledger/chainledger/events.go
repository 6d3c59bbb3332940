// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chainledger

import (
	"github.com/danielhkuo/chainpoll/ledger"
)

// Wire shapes for transaction settlement. Decoding is kept here, away
// from domain logic: the rest of the system only ever sees
// ledger.Receipt and ledger.EventRecord.

const (
	txStatusPending   = "pending"
	txStatusConfirmed = "confirmed"
	txStatusFailed    = "failed"
)

type wireTx struct {
	Hash   string      `json:"hash"`
	Status string      `json:"status"`
	Reason string      `json:"reason,omitempty"`
	Events []wireEvent `json:"events,omitempty"`
}

type wireEvent struct {
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
}

// decodeReceipt maps a settled transaction onto a ledger receipt,
// preserving event order. Must not be called while the tx is pending.
func decodeReceipt(tx wireTx) ledger.Receipt {
	status := ledger.StatusFailed
	if tx.Status == txStatusConfirmed {
		status = ledger.StatusConfirmed
	}
	events := make([]ledger.EventRecord, 0, len(tx.Events))
	for _, ev := range tx.Events {
		events = append(events, ledger.EventRecord{Name: ev.Name, Attributes: ev.Attributes})
	}
	return ledger.Receipt{
		Status: status,
		Reason: tx.Reason,
		Events: events,
		TxHash: tx.Hash,
	}
}
