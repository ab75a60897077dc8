// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account and assigns its ID.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID int64, newHash string) error

	/*
		MarkVerified flips the account's verification flag after OTP confirmation.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID int64) error
}

// # Transient Token Access

// OTPRepository stores one-time registration codes with expiry.
type OTPRepository interface {
	// Set stores the code for an email with the given TTL, replacing any
	// previous code for that email.
	Set(context context.Context, email, code string, ttl time.Duration) error

	// Get returns the active code for an email. Absent or expired codes
	// yield apperr.NotFound.
	Get(context context.Context, email string) (string, error)

	// Delete removes the code once consumed.
	Delete(context context.Context, email string) error
}

// ResetTokenRepository stores password-reset tokens with expiry.
type ResetTokenRepository interface {
	// Set stores a reset token mapped to the owning user ID.
	Set(context context.Context, token string, userID int64, ttl time.Duration) error

	// Get returns the user ID a token was issued for. Absent or expired
	// tokens yield apperr.NotFound.
	Get(context context.Context, token string) (int64, error)

	// Delete removes the token once consumed.
	Delete(context context.Context, token string) error
}
