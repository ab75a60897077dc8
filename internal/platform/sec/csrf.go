// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package sec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CSRFBinder issues and verifies user-bound anti-forgery tokens.
//
// # Design
//
// A token is base64("{userId}:{issuedAtMillis}:{signature}") where the
// signature is HMAC-SHA256 over "{userId}:{issuedAtMillis}". Tokens are
// self-contained (no server-side store), so they survive process restarts
// and horizontal scaling. The trade-off is no revocation: a compromised
// token has to age out of its validity window, or the server secret has to
// be rotated, which invalidates every outstanding token at once.
type CSRFBinder struct {
	secret []byte
	maxAge time.Duration

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewCSRFBinder creates a binder signing with the given secret.
//
// When secret is empty an ephemeral random secret is generated. That keeps
// local development zero-config, but tokens then do not survive a process
// restart — production deployments should always set CSRF_SECRET.
func NewCSRFBinder(secret string, maxAge time.Duration) *CSRFBinder {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		// rand.Read never fails on supported platforms.
		_, _ = rand.Read(key)
	}

	return &CSRFBinder{
		secret: key,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue creates a CSRF token bound to the given user ID.
//
// One token is reused for all mutations within its validity window; it is
// intentionally NOT single-use.
func (binder *CSRFBinder) Issue(userID int64) string {
	issuedAtMillis := binder.now().UnixMilli()
	payload := fmt.Sprintf("%d:%d", userID, issuedAtMillis)
	signature := binder.sign(payload)

	return base64.StdEncoding.EncodeToString([]byte(payload + ":" + signature))
}

// Verify reports whether the token is valid for the EXACT user it was issued
// to. A stolen but syntactically valid token presented for another user ID
// must fail here — that is the cross-user replay invariant.
//
// # Collapsed Failures
//
// Every rejection (bad base64, wrong field count, wrong user, expired,
// signature mismatch) returns plain false. Decode and parse failures are
// swallowed, never propagated.
func (binder *CSRFBinder) Verify(token string, expectedUserID int64) bool {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return false
	}

	// Exactly three colon-delimited fields: userId, issuedAtMillis, signature.
	parts := strings.Split(string(decoded), ":")
	if len(parts) != 3 {
		return false
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || userID != expectedUserID {
		return false
	}

	issuedAtMillis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}

	// Reject tokens older than the validity window.
	issuedAt := time.UnixMilli(issuedAtMillis)
	if binder.now().Sub(issuedAt) > binder.maxAge {
		return false
	}

	// Recompute the signature and compare in constant time. hmac.Equal is
	// mandatory here: a byte-wise early-exit comparison would leak signature
	// bytes through response timing.
	expected := binder.sign(parts[0] + ":" + parts[1])
	return hmac.Equal([]byte(parts[2]), []byte(expected))
}

// sign computes the hex-encoded HMAC-SHA256 signature of the payload.
func (binder *CSRFBinder) sign(payload string) string {
	mac := hmac.New(sha256.New, binder.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
