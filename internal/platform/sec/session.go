// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Session Signing,
// CSRF Binding) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces.
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal derived from a session token.
//
// # Immutability
//
// Once embedded in a token the fields never change. Freshness-sensitive
// checks (privilege escalation/revocation) must re-read the account from
// storage instead of trusting the embedded IsPrivileged flag.
type Identity struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	IsPrivileged bool   `json:"is_privileged"`
}

// sessionClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// By embedding the ID, Email, Username, and privilege flag directly inside
// the token, the request authenticator can reconstruct the active identity
// WITHOUT querying the database on every single API request. Claim names are
// abbreviated to keep the token compact.
type sessionClaims struct {
	jwt.RegisteredClaims

	UserID     int64  `json:"uid"`
	Email      string `json:"eml"`
	Username   string `json:"unm"`
	Privileged bool   `json:"adm"`
}

// SessionCodec signs and verifies stateless session tokens using HS256.
//
// # Trade-off
//
// Tokens are self-contained: there is no server-side session store and
// therefore no revocation list. Logout is purely client-side (cookie drop);
// a leaked token stays valid until its expiry.
type SessionCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now is injectable for expiry tests.
	now func() time.Time
}

// ErrNoSessionSecret is returned when the codec is constructed without a secret.
// Main treats this as a fatal startup condition, never a per-request error.
var ErrNoSessionSecret = errors.New("sec: session signing secret is not configured")

// NewSessionCodec creates a SessionCodec signing with the given shared secret.
func NewSessionCodec(secret, issuer string, ttl time.Duration) (*SessionCodec, error) {
	if secret == "" {
		return nil, ErrNoSessionSecret
	}

	return &SessionCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed session token embedding the given identity.
//
// Expiry is fixed at construction-time TTL (7 days in production wiring).
func (codec *SessionCodec) Issue(identity Identity) (string, error) {
	currentTime := codec.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(codec.ttl)),
		},
		UserID:     identity.ID,
		Email:      identity.Email,
		Username:   identity.Username,
		Privileged: identity.IsPrivileged,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a session token string.
//
// # Collapsed Failures
//
// It returns nil on ANY failure: malformed token, signature mismatch, or
// expiry. Callers must treat nil as "unauthenticated" — the codec
// deliberately does not reveal WHY verification failed, so a tampered token
// is externally indistinguishable from an expired one.
func (codec *SessionCodec) Verify(tokenString string) *Identity {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("sec: unexpected signing method")
		}
		return codec.secret, nil
	}, jwt.WithTimeFunc(codec.now))

	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil
	}

	return &Identity{
		ID:           claims.UserID,
		Email:        claims.Email,
		Username:     claims.Username,
		IsPrivileged: claims.Privileged,
	}
}
