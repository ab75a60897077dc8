// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package auth

import "time"

// # Authentication Constraints

const (
	// OTPCodeTTL is the duration a registration one-time code remains valid.
	// Short-lived (10 minutes): codes are requested and consumed in one sitting.
	OTPCodeTTL = 10 * time.Minute

	// OTPCodeDigits is the length of the numeric one-time code.
	OTPCodeDigits = 6

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (30 minutes) for security.
	ResetTokenTTL = 30 * time.Minute

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)
