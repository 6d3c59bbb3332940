// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconcile models a mutating ledger call as a three-state
process: Submitted, then Confirmed or Failed. There are no other
states, and a Submitted action cannot be canceled — only abandoned.

For create-poll confirmations the reconciler also recovers the newly
assigned poll id by scanning the confirmation's event records. For
vote/end it simply marks completion; callers re-fetch authoritative
state instead of trusting locally predicted values.
*/
package reconcile
