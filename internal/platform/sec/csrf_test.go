// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package sec_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketon/bracketon/internal/platform/sec"
)

/*
TestCSRFBinder_RoundTrip verifies that a freshly issued token validates for
the user it was bound to.
*/
func TestCSRFBinder_RoundTrip(t *testing.T) {
	binder := sec.NewCSRFBinder("csrf-test-secret", 24*time.Hour)

	token := binder.Issue(101)
	require.NotEmpty(t, token)

	assert.True(t, binder.Verify(token, 101))
}

/*
TestCSRFBinder_TokenShape verifies the wire format: base64 over exactly three
colon-delimited fields (userId, issuedAtMillis, signature).
*/
func TestCSRFBinder_TokenShape(t *testing.T) {
	binder := sec.NewCSRFBinder("csrf-test-secret", 24*time.Hour)

	token := binder.Issue(101)

	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	parts := strings.Split(string(decoded), ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "101", parts[0])
	assert.NotEmpty(t, parts[1])
	// Hex-encoded SHA-256 HMAC is 64 characters.
	assert.Len(t, parts[2], 64)
}

/*
TestCSRFBinder_CrossUserReplay verifies that a valid token presented for a
different user ID is rejected.
*/
func TestCSRFBinder_CrossUserReplay(t *testing.T) {
	binder := sec.NewCSRFBinder("csrf-test-secret", 24*time.Hour)

	token := binder.Issue(101)

	assert.False(t, binder.Verify(token, 202))
}

/*
TestCSRFBinder_Rejections covers the malformed-input failure modes, all of
which must return plain false.
*/
func TestCSRFBinder_Rejections(t *testing.T) {
	binder := sec.NewCSRFBinder("csrf-test-secret", 24*time.Hour)

	forged := base64.StdEncoding.EncodeToString([]byte("101:1767225600000:" + strings.Repeat("ab", 32)))
	twoFields := base64.StdEncoding.EncodeToString([]byte("101:1767225600000"))
	fourFields := base64.StdEncoding.EncodeToString([]byte("101:1767225600000:sig:extra"))
	badUserID := base64.StdEncoding.EncodeToString([]byte("abc:1767225600000:" + strings.Repeat("ab", 32)))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not_base64", "!!!not-base64!!!"},
		{"two_fields", twoFields},
		{"four_fields", fourFields},
		{"non_numeric_user", badUserID},
		{"forged_signature", forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, binder.Verify(tt.token, 101))
		})
	}
}

/*
TestCSRFBinder_Expiry verifies the validity window using an injected clock.
*/
func TestCSRFBinder_Expiry(t *testing.T) {
	binder := sec.NewCSRFBinder("csrf-test-secret", 24*time.Hour)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	binder.SetNow(func() time.Time { return issuedAt })

	token := binder.Issue(101)

	// Inside the window.
	binder.SetNow(func() time.Time { return issuedAt.Add(23 * time.Hour) })
	assert.True(t, binder.Verify(token, 101))

	// Past the window.
	binder.SetNow(func() time.Time { return issuedAt.Add(25 * time.Hour) })
	assert.False(t, binder.Verify(token, 101))
}

/*
TestCSRFBinder_EphemeralSecret verifies that binders constructed without a
secret still work standalone but do not trust each other's tokens.
*/
func TestCSRFBinder_EphemeralSecret(t *testing.T) {
	first := sec.NewCSRFBinder("", 24*time.Hour)
	second := sec.NewCSRFBinder("", 24*time.Hour)

	token := first.Issue(101)

	// Self-consistent within one process lifetime.
	assert.True(t, first.Verify(token, 101))

	// A restarted process gets a new ephemeral secret and rejects old tokens.
	assert.False(t, second.Verify(token, 101))
}
