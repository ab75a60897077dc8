// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle—from account creation
and OTP verification to login, CSRF token rotation, and password recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Orchestrates session/CSRF cookie injection and clearing.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bracketon/bracketon/internal/platform/constants"
	"github.com/bracketon/bracketon/internal/platform/middleware"
	"github.com/bracketon/bracketon/internal/platform/ratelimit"
	requestutil "github.com/bracketon/bracketon/internal/platform/request"
	"github.com/bracketon/bracketon/internal/platform/respond"
	"github.com/bracketon/bracketon/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, OTP, Login, Password Recovery).
type Handler struct {
	authService *Service
	limiter     *ratelimit.Limiter

	// secureCookies marks cookies Secure; enabled in production wiring only
	// so local HTTP development keeps working.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, limiter *ratelimit.Limiter, secureCookies bool) *Handler {
	return &Handler{authService: service, limiter: limiter, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//
// The public POST endpoints below make up the guard-exempt set: no session
// exists yet on any of them, so the CSRF mutation guard skips them by path.
// Each abuse-sensitive endpoint carries its own per-IP rate-limit rule on
// top of the global one.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.With(middleware.RateLimit(handler.limiter, ratelimit.Registration)).
		Post("/register", handler.register)
	router.With(middleware.RateLimit(handler.limiter, ratelimit.Login)).
		Post("/login", handler.login)
	router.With(middleware.RateLimit(handler.limiter, ratelimit.OTPDispatch)).
		Post("/otp/send", handler.sendOTP)
	router.With(middleware.RateLimit(handler.limiter, ratelimit.OTPDispatch)).
		Post("/otp/verify", handler.verifyOTP)
	router.With(middleware.RateLimit(handler.limiter, ratelimit.PasswordReset)).
		Post("/forgot-password", handler.forgotPassword)
	router.With(middleware.RateLimit(handler.limiter, ratelimit.PasswordReset)).
		Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Get("/csrf", handler.refreshCSRF)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists a new
unverified profile, and dispatches a one-time verification code.

Request:
  - Body: registerRequest (Username, Email, Password, DisplayName)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a stateless session.

POST /api/v1/auth/login

Description: Verifies credentials, then sets the httpOnly session cookie and
the script-readable CSRF cookie. The session token is also returned in the
body for legacy Bearer clients.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Session token, CSRF token, and User profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.SessionToken)
	handler.setCSRFCookie(writer, session.CSRFToken)

	respond.OK(writer, map[string]any{
		FieldSessionToken: session.SessionToken,
		FieldCSRFToken:    session.CSRFToken,
		FieldUser:         session.User,
	})
}

/*
Logout terminates the current client session.

POST /api/v1/auth/logout

Description: Sessions are stateless, so logout clears both security cookies;
the signed token itself stays valid until its expiry (stated limitation of
the no-revocation design).

Response:
  - 204: No Content: Cookies cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.clearCookie(writer, constants.AuthCookieName, true)
	handler.clearCookie(writer, constants.CSRFCookieName, false)

	respond.NoContent(writer)
}

/*
Me returns the profile of the authenticated user.

GET /api/v1/auth/me

Response:
  - 200: User: Fresh profile from storage
  - 401: ErrUnauthorized: Anonymous request
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Re-read from storage: the token's embedded fields can be up to 7 days stale.
	user, err := handler.authService.userRepository.FindByID(request.Context(), identity.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
RefreshCSRF rotates the caller's CSRF token.

GET /api/v1/auth/csrf

Description: CSRF tokens expire after 24 hours while sessions last 7 days,
so long-lived clients call this to obtain a fresh token without re-login.

Response:
  - 200: New CSRF token (also set as cookie)
  - 401: ErrUnauthorized: Anonymous request
*/
func (handler *Handler) refreshCSRF(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := handler.authService.csrfIssuer.Issue(identity.ID)
	handler.setCSRFCookie(writer, token)

	respond.OK(writer, map[string]string{FieldCSRFToken: token})
}

/*
SendOTP dispatches a one-time verification code.

POST /api/v1/auth/otp/send

Description: Always responds with a generic success message to prevent
account enumeration.

Request:
  - Body: sendOTPRequest (Email)

Response:
  - 200: Success: Generic acknowledgement
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) sendOTP(writer http.ResponseWriter, request *http.Request) {
	var input sendOTPRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SendOTP(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a verification code has been sent.",
	})
}

/*
VerifyOTP confirms email ownership via a one-time code.

POST /api/v1/auth/otp/verify

Request:
  - Body: verifyOTPRequest (Email, Code)

Response:
  - 200: Success: Account verified
  - 401: ErrUnauthorized: Wrong or expired code
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input verifyOTPRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldCode, input.Code).
		OTPCode(FieldCode, input.Code)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyOTP(request.Context(), input.Email, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Account verified successfully",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Sends a password reset token to the provided email if the
account exists.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic acknowledgement (or generic security message)
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: Success: Password updated
  - 400: ErrInvalidJSON: Bad token or weak password
  - 404: ErrNotFound: Unknown or expired token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

/*
ChangePassword rotates the password of the authenticated user.

POST /api/v1/auth/change-password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password updated
  - 401: ErrUnauthorized: Current password mismatch
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), identity.ID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

// # Cookie Management

// setSessionCookie installs the httpOnly session-token cookie.
func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   constants.AuthCookieMaxAge,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// setCSRFCookie installs the script-readable CSRF cookie.
//
// HttpOnly is deliberately false: the frontend must read this value and echo
// it back in the X-CSRF-Token header on every mutation.
func (handler *Handler) setCSRFCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   constants.CSRFCookieMaxAge,
		Secure:   handler.secureCookies,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie expires a cookie on the client.
func (handler *Handler) clearCookie(writer http.ResponseWriter, name string, httpOnly bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   handler.secureCookies,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}
