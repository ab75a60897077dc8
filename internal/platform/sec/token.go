// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random token of byteLength entropy.
//
// Used for opaque single-use credentials (OTP delivery IDs, password reset
// tokens) that are stored server-side with a TTL, unlike the self-contained
// session and CSRF tokens.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateOTPCode returns a numeric one-time code of the given digit count.
func GenerateOTPCode(digits int) (string, error) {
	const numerals = "0123456789"

	buffer := make([]byte, digits)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate otp code: %w", err)
	}

	for i, b := range buffer {
		buffer[i] = numerals[int(b)%len(numerals)]
	}
	return string(buffer), nil
}
