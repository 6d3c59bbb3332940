// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger defines the read/write ports between the poll core and
its authoritative data source.

Two adapters exist: localledger (SQL-backed, synchronous confirmation)
and chainledger (HTTP gateway to the voting contract, asynchronous
confirmation via transaction receipts). Core logic never branches on
which backend is active; it sees only these interfaces.
*/
package ledger
