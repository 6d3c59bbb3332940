// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielhkuo/chainpoll/models"
)

// Header carries the acting participant's address on every request that
// needs one. The gateway (or wallet bridge) in front of this server is
// responsible for authenticating it; the core only validates the shape.
const Header = "X-Voter-Address"

var ErrInvalidAddress = errors.New("invalid address: want 0x followed by 40 hex characters")

// Normalize validates an address-like identity and lowercases it.
// All identity comparison in the core happens on normalized forms, so
// 0xAbC... and 0xabc... name the same participant.
func Normalize(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if len(addr) != 42 || addr[0] != '0' || (addr[1] != 'x' && addr[1] != 'X') {
		return "", ErrInvalidAddress
	}
	lower := strings.ToLower(addr)
	for _, c := range lower[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", ErrInvalidAddress
		}
	}
	return lower, nil
}

// Equal compares two identities case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// FromRequest resolves the acting identity for a request. Absence of
// the header means no mutating operation is permitted
// (models.ErrNoIdentity); a malformed value is ErrInvalidAddress.
func FromRequest(r *http.Request) (string, error) {
	raw := r.Header.Get(Header)
	if raw == "" {
		return "", models.ErrNoIdentity
	}
	return Normalize(raw)
}

// Available reports whether the request carries any identity at all.
func Available(r *http.Request) bool {
	return r.Header.Get(Header) != ""
}
