// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poll is the core of the service: poll creation and validation,
vote admission control, the Active/Ended lifecycle, and tally
derivation.

The Service runs entirely against the ledger ports, so the same code
serves both the SQL-backed local ledger and the on-chain gateway.
Lifecycle is a two-state machine — Active, Ended — evaluated lazily
against the injected clock on every read; there is no background timer
and Ended has no outgoing edge.

Vote admission checks preconditions in a fixed order (exists, open,
valid option, not yet voted) before submitting; the backend re-checks
the same rules under its own serialization, so concurrent submissions
for the same (poll, voter) can never both succeed.
*/
package poll
