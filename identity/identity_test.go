// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/chainpoll/models"
)

const addr = "0x52908400098527886E0F7030069857D2E4169EE7"

func TestNormalize(t *testing.T) {
	got, err := Normalize(addr)
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886e0f7030069857d2e4169ee7", got)

	// Surrounding whitespace is tolerated.
	got, err = Normalize("  " + addr + " ")
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886e0f7030069857d2e4169ee7", got)
}

func TestNormalizeRejects(t *testing.T) {
	bad := []string{
		"",
		"0x",
		"52908400098527886E0F7030069857D2E4169EE7",
		"0x5290840009852788",
		"0x52908400098527886E0F7030069857D2E4169EE70",
		"0xZZ908400098527886E0F7030069857D2E4169EE7",
	}
	for _, s := range bad {
		_, err := Normalize(s)
		assert.ErrorIs(t, err, ErrInvalidAddress, s)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(addr, "0x52908400098527886e0f7030069857d2e4169ee7"))
	assert.True(t, Equal(" "+addr, addr))
	assert.False(t, Equal(addr, "0x0000000000000000000000000000000000000000"))
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := FromRequest(r)
	assert.ErrorIs(t, err, models.ErrNoIdentity)
	assert.False(t, Available(r))

	r.Header.Set(Header, addr)
	got, err := FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886e0f7030069857d2e4169ee7", got)
	assert.True(t, Available(r))

	r.Header.Set(Header, "not-an-address")
	_, err = FromRequest(r)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
