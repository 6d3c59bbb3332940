// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package chainledger implements the ledger ports against an external
voting-contract gateway over HTTP/JSON.

Writes are two-phase: the gateway broadcasts the transaction and
returns a hash; the submission handle polls the tx endpoint until the
chain confirms or rejects it. List reads come from a periodically
refreshed snapshot cache, so they reflect last-confirmed state and may
lag real time by a confirmation delay.

Event decoding from confirmation payloads is isolated in events.go;
nothing outside this package sees gateway wire shapes.
*/
package chainledger
