// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bracketon/bracketon/internal/notify"
	"github.com/bracketon/bracketon/internal/platform/apperr"
	"github.com/bracketon/bracketon/internal/platform/ctxutil"
	"github.com/bracketon/bracketon/internal/platform/sec"
)

// # Contracts & Types

// SessionIssuer defines the contract for generating signed session tokens.
type SessionIssuer interface {
	// Issue creates a signed stateless token embedding the identity.
	Issue(identity sec.Identity) (string, error)
}

// CSRFIssuer defines the contract for generating user-bound CSRF tokens.
type CSRFIssuer interface {
	// Issue creates a CSRF token bound to the given user ID.
	Issue(userID int64) string
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login,
// or recovery logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	otpRepository        OTPRepository
	resetTokenRepository ResetTokenRepository
	sessionIssuer        SessionIssuer
	csrfIssuer           CSRFIssuer
	dispatcher           notify.Dispatcher
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	otpRepo OTPRepository,
	resetRepo ResetTokenRepository,
	sessionIssuer SessionIssuer,
	csrfIssuer CSRFIssuer,
	dispatcher notify.Dispatcher,
) *Service {
	return &Service{
		userRepository:       userRepo,
		otpRepository:        otpRepo,
		resetTokenRepository: resetRepo,
		sessionIssuer:        sessionIssuer,
		csrfIssuer:           csrfIssuer,
		dispatcher:           dispatcher,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Creates an unverified account and dispatches a one-time code
to the owner's email. The account stays unverified until [Service.VerifyOTP]
confirms code ownership.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Cost 12 keeps a single hash
	// slow enough to blunt offline brute force.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. The database assigns the numeric ID.
	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		IsPrivileged: false,
		IsVerified:   false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Kick off the OTP verification as a best-effort side effect. A delivery
	// failure must not roll back the account; the user can re-request a code.
	if err := service.SendOTP(context, user.Email); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "register_otp_dispatch_failed",
			slog.String("email", user.Email),
			slog.Any("error", err),
		)
	}

	return user, nil
}

/*
SendOTP generates and dispatches a one-time verification code.

Description: Stores the code in Redis under the email (replacing any earlier
code) and hands it to the notification dispatcher.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: Generation or storage failures
*/
func (service *Service) SendOTP(context context.Context, email string) error {
	// NOTE: We respond identically whether or not the email is registered,
	// to prevent account enumeration through this endpoint.
	if _, err := service.userRepository.FindByEmail(context, email); err != nil {
		return nil
	}

	code, err := sec.GenerateOTPCode(OTPCodeDigits)
	if err != nil {
		return fmt.Errorf("auth_service_generate_otp_failed: %w", err)
	}

	if err := service.otpRepository.Set(context, email, code, OTPCodeTTL); err != nil {
		return fmt.Errorf("auth_service_save_otp_failed: %w", err)
	}

	if err := service.dispatcher.SendOTP(context, email, code); err != nil {
		return fmt.Errorf("auth_service_dispatch_otp_failed: %w", err)
	}

	return nil
}

/*
VerifyOTP confirms email ownership and marks the account verified.

Parameters:
  - context: context.Context
  - email: string
  - code: string

Returns:
  - err: Unauthorized on a wrong/expired code, storage failures otherwise
*/
func (service *Service) VerifyOTP(context context.Context, email, code string) error {
	stored, err := service.otpRepository.Get(context, email)
	if err != nil || stored != code {
		// Wrong and expired codes are indistinguishable to the caller.
		return apperr.Unauthorized("Invalid or expired verification code")
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired verification code")
	}

	if err := service.userRepository.MarkVerified(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_mark_verified_failed: %w", err)
	}

	// Codes are single-use.
	_ = service.otpRepository.Delete(context, email)

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// LoginSession represents a successfully established stateless session.
type LoginSession struct {
	SessionToken string
	CSRFToken    string
	User         *User
}

/*
Login validates user credentials and issues the session/CSRF token pair.

Description: Verifies identity via constant-time password comparison, then
signs a stateless session token and a user-bound CSRF token. Nothing is
persisted — logout is a client-side cookie drop.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready tokens plus the user profile
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	// Flexible login: look up by Email or Username
	user, err := service.userRepository.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// bcrypt compares in constant time, so invalid passwords leak no timing signal.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Sign the stateless session token (7-day expiry baked in by the codec).
	sessionToken, err := service.sessionIssuer.Issue(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// One CSRF token covers all mutations within its 24h validity window.
	csrfToken := service.csrfIssuer.Issue(user.ID)

	return &LoginSession{
		SessionToken: sessionToken,
		CSRFToken:    csrfToken,
		User:         user,
	}, nil
}

// # Account Maintenance

/*
ChangePassword rotates the password of an authenticated user.

Parameters:
  - context: context.Context
  - userID: int64
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized if the current password does not match
*/
func (service *Service) ChangePassword(context context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token, saves it to Redis, and dispatches it
to the account's email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	if err := service.dispatcher.SendPasswordReset(context, email, token); err != nil {
		return fmt.Errorf("auth_service_dispatch_reset_failed: %w", err)
	}

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, and updates the DB.
Outstanding session tokens cannot be revoked (stateless design); they age out
at their 7-day expiry.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}
