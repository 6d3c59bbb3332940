// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity is the identity gate: it resolves the acting
participant's address from a request and decides whether mutating
operations are permitted at all.

Identities are opaque address-like strings (0x + 40 hex), supplied by
an external wallet/gateway and normalized to lowercase here. The core
never mints identities and never trusts a request without one.
*/
package identity
