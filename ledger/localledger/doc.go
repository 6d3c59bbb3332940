// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package localledger implements the ledger ports over a local SQL
database (sqlite or postgres). It is the demonstration backend: same
contract as the chain, synchronous confirmation.

The exclusive check-and-append the chain gets from global transaction
serialization is emulated here with a UNIQUE(poll_id, voter) constraint
and a single transaction per vote, so the vote row and the cached
total move together.

It additionally implements ledger.Purger, the administrative delete
that has no on-chain counterpart.
*/
package localledger
