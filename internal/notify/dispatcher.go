// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

/*
Package notify defines the outbound notification boundary.

The actual delivery pipeline (email/SMS providers, templating, retries) lives
outside this service. This package only defines the contract the auth flows
depend on, plus a development dispatcher that logs instead of sending.
*/
package notify

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// Dispatcher sends transactional messages to users.
type Dispatcher interface {
	// SendOTP delivers a one-time registration code to the given email.
	SendOTP(ctx context.Context, email, code string) error

	// SendPasswordReset delivers a password-reset token to the given email.
	SendPasswordReset(ctx context.Context, email, token string) error
}

// Outbound pacing for the development dispatcher. Providers enforce their own
// quotas; pacing here keeps a runaway loop from flooding the log.
const (
	dispatchPerSecond = 5
	dispatchBurst     = 10
)

// LogDispatcher is the development implementation: it writes the message to
// the structured log instead of invoking a delivery provider.
//
// # Pacing
//
// Sends are paced through a token bucket so the dispatcher mirrors the
// throughput shape of a real provider integration.
type LogDispatcher struct {
	logger *slog.Logger
	pacer  *rate.Limiter
}

// NewLogDispatcher creates a log-backed Dispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{
		logger: logger,
		pacer:  rate.NewLimiter(rate.Limit(dispatchPerSecond), dispatchBurst),
	}
}

// SendOTP implements [Dispatcher].
func (dispatcher *LogDispatcher) SendOTP(ctx context.Context, email, code string) error {
	if err := dispatcher.pacer.Wait(ctx); err != nil {
		return err
	}

	dispatcher.logger.InfoContext(ctx, "otp_dispatched",
		slog.String("email", email),
		slog.String("code", code),
	)
	return nil
}

// SendPasswordReset implements [Dispatcher].
func (dispatcher *LogDispatcher) SendPasswordReset(ctx context.Context, email, token string) error {
	if err := dispatcher.pacer.Wait(ctx); err != nil {
		return err
	}

	dispatcher.logger.InfoContext(ctx, "password_reset_dispatched",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}
