// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketon/bracketon/internal/platform/sec"
)

const (
	testSecret = "unit-test-signing-secret"
	testIssuer = "bracketon.test"
)

func newTestCodec(t *testing.T) *sec.SessionCodec {
	t.Helper()
	codec, err := sec.NewSessionCodec(testSecret, testIssuer, 7*24*time.Hour)
	require.NoError(t, err)
	return codec
}

/*
TestSessionCodec_MissingSecret verifies that construction without a signing
secret is refused outright.
*/
func TestSessionCodec_MissingSecret(t *testing.T) {
	codec, err := sec.NewSessionCodec("", testIssuer, time.Hour)

	assert.Nil(t, codec)
	assert.ErrorIs(t, err, sec.ErrNoSessionSecret)
}

/*
TestSessionCodec_RoundTrip verifies that an issued token resolves back to the
exact identity it embedded.
*/
func TestSessionCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	original := sec.Identity{
		ID:           42,
		Email:        "player@bracketon.app",
		Username:     "player42",
		IsPrivileged: true,
	}

	token, err := codec.Issue(original)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved := codec.Verify(token)
	require.NotNil(t, resolved)
	assert.Equal(t, original.ID, resolved.ID)
	assert.Equal(t, original.Email, resolved.Email)
	assert.Equal(t, original.Username, resolved.Username)
	assert.True(t, resolved.IsPrivileged)
}

/*
TestSessionCodec_CollapsedFailures verifies that every verification failure
mode collapses into a nil identity with no distinguishing signal.
*/
func TestSessionCodec_CollapsedFailures(t *testing.T) {
	codec := newTestCodec(t)

	otherCodec, err := sec.NewSessionCodec("a-completely-different-secret", testIssuer, time.Hour)
	require.NoError(t, err)

	foreignToken, err := otherCodec.Issue(sec.Identity{ID: 7})
	require.NoError(t, err)

	validToken, err := codec.Issue(sec.Identity{ID: 7})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty_string", ""},
		{"garbage", "not-a-token-at-all"},
		{"wrong_segment_count", "aaaa.bbbb"},
		{"foreign_signature", foreignToken},
		{"tampered_payload", validToken[:len(validToken)-4] + "AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, codec.Verify(tt.token))
		})
	}
}

/*
TestSessionCodec_Expiry verifies token validity across the TTL boundary using
an injected clock.
*/
func TestSessionCodec_Expiry(t *testing.T) {
	codec, err := sec.NewSessionCodec(testSecret, testIssuer, time.Hour)
	require.NoError(t, err)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec.SetNow(func() time.Time { return issuedAt })

	token, err := codec.Issue(sec.Identity{ID: 9, Username: "expiring"})
	require.NoError(t, err)

	// Just inside the window: still valid.
	codec.SetNow(func() time.Time { return issuedAt.Add(59 * time.Minute) })
	assert.NotNil(t, codec.Verify(token))

	// Past the window: collapses to nil like any other failure.
	codec.SetNow(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	assert.Nil(t, codec.Verify(token))
}
