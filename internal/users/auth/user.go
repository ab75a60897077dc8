// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

/*
Package auth implements the user identity and access layer.

It defines the core domain entity (User) and the logic for credential
verification, stateless session issuance, OTP-verified registration, and
password recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/bracketon/bracketon/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Bracketon platform.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name"`
	IsPrivileged bool      `json:"is_privileged"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity converts the stored account into the token-embeddable principal.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		IsPrivileged: user.IsPrivileged,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCode            = "code"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldSessionToken    = "session_token"
	FieldCSRFToken       = "csrf_token"
	FieldUser            = "user"
	FieldMessage         = "message"
)
