// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bracketon/bracketon/internal/platform/apperr"
	"github.com/bracketon/bracketon/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical SELECT list shared by every lookup.
const userColumns = `id, username, email, password_hash, display_name, is_privileged, is_verified, created_at, updated_at`

/*
Create persists a new user record into the accounts table.

Description: Inserts the account and back-fills the generated ID and
timestamps onto the entity.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on unique violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO accounts (username, email, password_hash, display_name, is_privileged, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.IsPrivileged,
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	return nil
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, userColumns)
	return repository.scanOne(context, query, id)
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1`, userColumns)
	return repository.scanOne(context, query, email)
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE username = $1`, userColumns)
	return repository.scanOne(context, query, username)
}

/*
UpdatePassword replaces only the password hash of an account.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: apperr.NotFound if the account does not exist
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID int64, newHash string) error {
	const query = `
		UPDATE accounts
		SET password_hash = $2, updated_at = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
MarkVerified flips the verification flag after a successful OTP confirmation.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: apperr.NotFound if the account does not exist
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID int64) error {
	const query = `
		UPDATE accounts
		SET is_verified = TRUE, updated_at = $2
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
IsPrivileged re-reads only the privilege flag for freshness-sensitive checks.

Description: Used by the RequirePrivileged middleware so a demotion takes
effect immediately instead of at session-token expiry.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - bool: Current privilege flag
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) IsPrivileged(context context.Context, userID int64) (bool, error) {
	const query = `SELECT is_privileged FROM accounts WHERE id = $1`

	var privileged bool
	if err := repository.pool.QueryRow(context, query, userID).Scan(&privileged); err != nil {
		return false, dberr.Wrap(err, "Account")
	}

	return privileged, nil
}

// scanOne runs a single-row account query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.IsPrivileged,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return user, nil
}

