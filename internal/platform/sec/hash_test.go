// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketon/bracketon/internal/platform/sec"
)

/*
TestHashPassword verifies the hash/verify roundtrip and that the plaintext
never appears in the stored hash.
*/
func TestHashPassword(t *testing.T) {
	const password = "correct horse battery staple"

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotContains(t, hash, password)
	assert.True(t, strings.HasPrefix(hash, "$2a$12$"), "hash should carry the cost-12 bcrypt prefix")

	assert.True(t, sec.CheckPasswordHash(password, hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}

/*
TestCheckPasswordHash_InvalidHash verifies that a corrupted stored hash fails
closed instead of erroring out.
*/
func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("anything", ""))
}

/*
TestGenerateSecureToken verifies token length and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 bytes of entropy encode to 43 base64url characters (no padding).
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}

/*
TestGenerateOTPCode verifies the code is purely numeric with the requested
digit count.
*/
func TestGenerateOTPCode(t *testing.T) {
	code, err := sec.GenerateOTPCode(6)
	require.NoError(t, err)

	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "unexpected character %q", r)
	}
}
