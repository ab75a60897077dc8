// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt work factor. Cost 12 keeps a single hash
// around 100ms on current hardware, which is the intended brute-force brake.
const passwordHashCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// An empty plaintext is accepted and produces a valid hash; input length
// policy is enforced by the validation layer, not here.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// bcrypt performs the comparison in constant time, so this function leaks no
// timing signal about how many bytes matched.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
