// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketon/bracketon/internal/platform/apperr"
	"github.com/bracketon/bracketon/internal/platform/sec"
	"github.com/bracketon/bracketon/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepository struct {
	byEmail    map[string]*auth.User
	byUsername map[string]*auth.User
	nextID     int64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byEmail:    map[string]*auth.User{},
		byUsername: map[string]*auth.User{},
		nextID:     1,
	}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id int64) (*auth.User, error) {
	for _, user := range repo.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if user, found := repo.byEmail[email]; found {
		return user, nil
	}
	return nil, apperr.NotFound("Account")
}

func (repo *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if user, found := repo.byUsername[username]; found {
		return user, nil
	}
	return nil, apperr.NotFound("Account")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	user.ID = repo.nextID
	repo.nextID++
	repo.byEmail[user.Email] = user
	repo.byUsername[user.Username] = user
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	for _, user := range repo.byEmail {
		if user.ID == userID {
			user.PasswordHash = newHash
			return nil
		}
	}
	return apperr.NotFound("Account")
}

func (repo *fakeUserRepository) MarkVerified(_ context.Context, userID int64) error {
	for _, user := range repo.byEmail {
		if user.ID == userID {
			user.IsVerified = true
			return nil
		}
	}
	return apperr.NotFound("Account")
}

type fakeKVRepository struct {
	values map[string]string
}

func (repo *fakeKVRepository) Set(_ context.Context, key, value string, _ time.Duration) error {
	repo.values[key] = value
	return nil
}

func (repo *fakeKVRepository) Get(_ context.Context, key string) (string, error) {
	if value, found := repo.values[key]; found {
		return value, nil
	}
	return "", apperr.NotFound("Verification code")
}

func (repo *fakeKVRepository) Delete(_ context.Context, key string) error {
	delete(repo.values, key)
	return nil
}

type fakeResetTokenRepository struct {
	owners map[string]int64
}

func (repo *fakeResetTokenRepository) Set(_ context.Context, token string, userID int64, _ time.Duration) error {
	repo.owners[token] = userID
	return nil
}

func (repo *fakeResetTokenRepository) Get(_ context.Context, token string) (int64, error) {
	if userID, found := repo.owners[token]; found {
		return userID, nil
	}
	return 0, apperr.NotFound("Reset token")
}

func (repo *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repo.owners, token)
	return nil
}

// recordingDispatcher captures every outbound notification.
type recordingDispatcher struct {
	otpCodes    map[string]string
	resetTokens map[string]string
}

func (dispatcher *recordingDispatcher) SendOTP(_ context.Context, email, code string) error {
	dispatcher.otpCodes[email] = code
	return nil
}

func (dispatcher *recordingDispatcher) SendPasswordReset(_ context.Context, email, token string) error {
	dispatcher.resetTokens[email] = token
	return nil
}

// # Fixtures

type serviceFixture struct {
	service    *auth.Service
	users      *fakeUserRepository
	otps       *fakeKVRepository
	resets     *fakeResetTokenRepository
	dispatcher *recordingDispatcher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	codec, err := sec.NewSessionCodec("auth-service-secret", "bracketon.test", time.Hour)
	require.NoError(t, err)

	users := newFakeUserRepository()
	otps := &fakeKVRepository{values: map[string]string{}}
	resets := &fakeResetTokenRepository{owners: map[string]int64{}}
	dispatcher := &recordingDispatcher{otpCodes: map[string]string{}, resetTokens: map[string]string{}}
	binder := sec.NewCSRFBinder("auth-service-csrf", 24*time.Hour)

	return &serviceFixture{
		service:    auth.NewService(users, otps, resets, codec, binder, dispatcher),
		users:      users,
		otps:       otps,
		resets:     resets,
		dispatcher: dispatcher,
	}
}

func (fixture *serviceFixture) register(t *testing.T) *auth.User {
	t.Helper()
	user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Username: "kai",
		Email:    "kai@bracketon.app",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	return user
}

// # Registration & Verification

/*
TestService_Register verifies account creation: hashed storage, unverified
start state, and the OTP side effect.
*/
func TestService_Register(t *testing.T) {
	fixture := newServiceFixture(t)

	user := fixture.register(t)

	assert.NotZero(t, user.ID)
	assert.False(t, user.IsVerified)
	assert.False(t, user.IsPrivileged)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	// A verification code was generated, stored, and dispatched.
	code := fixture.dispatcher.otpCodes[user.Email]
	require.NotEmpty(t, code)
	stored, err := fixture.otps.Get(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Equal(t, code, stored)
}

/*
TestService_Register_Conflicts verifies the uniqueness checks on email and
username.
*/
func TestService_Register_Conflicts(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t)

	tests := []struct {
		name  string
		input auth.RegisterInput
	}{
		{"duplicate_email", auth.RegisterInput{
			Username: "someone-else", Email: "kai@bracketon.app", Password: "password123",
		}},
		{"duplicate_username", auth.RegisterInput{
			Username: "kai", Email: "other@bracketon.app", Password: "password123",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.service.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, "CONFLICT", apperr.As(err).Code)
		})
	}
}

/*
TestService_VerifyOTP verifies the code confirmation flow: correct codes flip
the flag and are single-use; wrong and expired codes are indistinguishable.
*/
func TestService_VerifyOTP(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.register(t)
	code := fixture.dispatcher.otpCodes[user.Email]

	// Wrong code first: rejected without revealing why.
	err := fixture.service.VerifyOTP(context.Background(), user.Email, "000000")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Correct code: account verified.
	require.NoError(t, fixture.service.VerifyOTP(context.Background(), user.Email, code))
	assert.True(t, user.IsVerified)

	// Single-use: the same code no longer works.
	err = fixture.service.VerifyOTP(context.Background(), user.Email, code)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestService_SendOTP_UnknownEmail verifies the anti-enumeration behavior: an
unregistered email succeeds silently and dispatches nothing.
*/
func TestService_SendOTP_UnknownEmail(t *testing.T) {
	fixture := newServiceFixture(t)

	require.NoError(t, fixture.service.SendOTP(context.Background(), "ghost@bracketon.app"))
	assert.Empty(t, fixture.dispatcher.otpCodes)
}

// # Login

/*
TestService_Login verifies credential checking via email and username, and
the issued token pair.
*/
func TestService_Login(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.register(t)

	for _, login := range []string{"kai@bracketon.app", "kai"} {
		session, err := fixture.service.Login(context.Background(), auth.LoginInput{
			Login:    login,
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, session.SessionToken)
		assert.NotEmpty(t, session.CSRFToken)
		assert.Equal(t, user.ID, session.User.ID)
	}
}

/*
TestService_Login_Rejections verifies that unknown accounts and wrong
passwords produce the same generic error.
*/
func TestService_Login_Rejections(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t)

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"unknown_account", "ghost@bracketon.app", "hunter2hunter2"},
		{"wrong_password", "kai@bracketon.app", "wrong-password"},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.service.Login(context.Background(), auth.LoginInput{
				Login:    tt.login,
				Password: tt.password,
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			messages = append(messages, ae.Message)
		})
	}

	// Identical messages: no account-existence signal.
	require.Len(t, messages, 2)
	assert.Equal(t, messages[0], messages[1])
}

// # Password Recovery

/*
TestService_PasswordResetFlow verifies the forgot/reset roundtrip including
token single-use.
*/
func TestService_PasswordResetFlow(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.register(t)

	require.NoError(t, fixture.service.RequestPasswordReset(context.Background(), user.Email))

	token := fixture.dispatcher.resetTokens[user.Email]
	require.NotEmpty(t, token)

	require.NoError(t, fixture.service.ResetPassword(context.Background(), token, "a-new-password"))

	// Old password no longer works, new one does.
	_, err := fixture.service.Login(context.Background(), auth.LoginInput{Login: user.Email, Password: "hunter2hunter2"})
	require.Error(t, err)

	_, err = fixture.service.Login(context.Background(), auth.LoginInput{Login: user.Email, Password: "a-new-password"})
	require.NoError(t, err)

	// Token is single-use.
	err = fixture.service.ResetPassword(context.Background(), token, "another-password")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies the anti-enumeration
behavior of the forgot-password entry point.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	fixture := newServiceFixture(t)

	require.NoError(t, fixture.service.RequestPasswordReset(context.Background(), "ghost@bracketon.app"))
	assert.Empty(t, fixture.dispatcher.resetTokens)
}

/*
TestService_ChangePassword verifies the authenticated rotation path.
*/
func TestService_ChangePassword(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.register(t)

	// Wrong current password.
	err := fixture.service.ChangePassword(context.Background(), user.ID, "nope", "a-new-password")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Correct rotation.
	require.NoError(t, fixture.service.ChangePassword(context.Background(), user.ID, "hunter2hunter2", "a-new-password"))

	_, err = fixture.service.Login(context.Background(), auth.LoginInput{Login: user.Email, Password: "a-new-password"})
	require.NoError(t, err)
}
