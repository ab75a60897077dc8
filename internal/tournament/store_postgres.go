// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package tournament

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bracketon/bracketon/internal/platform/apperr"
	"github.com/bracketon/bracketon/internal/platform/dberr"
)

// # Tournament Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// tournamentColumns is the canonical SELECT list shared by every lookup.
const tournamentColumns = `id, slug, title, game, description, status, capacity, starts_at, created_by, created_at, updated_at`

/*
Create persists a new tournament record.

Description: Inserts the tournament and back-fills the generated ID and
timestamps onto the entity.

Parameters:
  - context: context.Context
  - tournament: *Tournament (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate slug or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, tournament *Tournament) error {
	const query = `
		INSERT INTO tournaments (slug, title, game, description, status, capacity, starts_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := repository.pool.QueryRow(context, query,
		tournament.Slug,
		tournament.Title,
		tournament.Game,
		tournament.Description,
		tournament.Status,
		tournament.Capacity,
		tournament.StartsAt,
		tournament.CreatedBy,
	).Scan(&tournament.ID, &tournament.CreatedAt, &tournament.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "Tournament")
	}

	return nil
}

/*
FindBySlug retrieves a tournament by its unique slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Tournament: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Tournament, error) {
	query := fmt.Sprintf(`SELECT %s FROM tournaments WHERE slug = $1`, tournamentColumns)

	tournament := &Tournament{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&tournament.ID,
		&tournament.Slug,
		&tournament.Title,
		&tournament.Game,
		&tournament.Description,
		&tournament.Status,
		&tournament.Capacity,
		&tournament.StartsAt,
		&tournament.CreatedBy,
		&tournament.CreatedAt,
		&tournament.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Tournament")
	}

	return tournament, nil
}

/*
List retrieves a filtered, paginated page of tournaments.

Description: Builds the WHERE clause dynamically from the non-zero filter
fields, counts total matches, then fetches the requested page ordered by
start date descending.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []Tournament: Page of matched tournaments
  - int: Total rows matching the filter
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]Tournament, int, error) {
	conditions := []string{}
	args := []any{}

	if filter.Game != "" {
		args = append(args, filter.Game)
		conditions = append(conditions, fmt.Sprintf("game = $%d", len(args)))
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// ── 1. Count total matches ────────────────────────────────────────────
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tournaments %s`, whereClause)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Tournament")
	}

	// ── 2. Fetch the page ─────────────────────────────────────────────────
	args = append(args, filter.Limit, filter.Offset)
	listQuery := fmt.Sprintf(`
		SELECT %s FROM tournaments %s
		ORDER BY starts_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		tournamentColumns, whereClause, len(args)-1, len(args))

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Tournament")
	}
	defer rows.Close()

	tournaments := []Tournament{}
	for rows.Next() {
		var tournament Tournament
		err := rows.Scan(
			&tournament.ID,
			&tournament.Slug,
			&tournament.Title,
			&tournament.Game,
			&tournament.Description,
			&tournament.Status,
			&tournament.Capacity,
			&tournament.StartsAt,
			&tournament.CreatedBy,
			&tournament.CreatedAt,
			&tournament.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Tournament")
		}
		tournaments = append(tournaments, tournament)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Tournament")
	}

	return tournaments, total, nil
}

/*
UpdateStatus moves a tournament to a new lifecycle status.

Parameters:
  - context: context.Context
  - id: int64
  - status: string

Returns:
  - error: apperr.NotFound if the tournament does not exist
*/
func (repository *PostgresRepository) UpdateStatus(context context.Context, id int64, status string) error {
	const query = `
		UPDATE tournaments
		SET status = $2, updated_at = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, status, time.Now())
	if err != nil {
		return dberr.Wrap(err, "Tournament")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Tournament")
	}

	return nil
}

// # Registration Repository

// PostgresRegistrationRepository implements RegistrationRepository using pgx.
type PostgresRegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new PostgreSQL implementation of the RegistrationRepository.
func NewRegistrationRepository(pool *pgxpool.Pool) *PostgresRegistrationRepository {
	return &PostgresRegistrationRepository{pool: pool}
}

/*
Create persists a new registration record.

Description: The (tournament_id, user_id) unique constraint enforces the
one-registration-per-user rule at the database level, closing the race
between concurrent sign-ups from the same account.

Parameters:
  - context: context.Context
  - registration: *Registration

Returns:
  - error: apperr.Conflict when the user already registered
*/
func (repository *PostgresRegistrationRepository) Create(context context.Context, registration *Registration) error {
	const query = `
		INSERT INTO registrations (tournament_id, user_id, team_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := repository.pool.QueryRow(context, query,
		registration.TournamentID,
		registration.UserID,
		registration.TeamName,
	).Scan(&registration.ID, &registration.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "Registration")
	}

	return nil
}

/*
CountByTournament returns the number of confirmed registrations.

Parameters:
  - context: context.Context
  - tournamentID: int64

Returns:
  - int: Current registration count
  - error: Database retrieval failures
*/
func (repository *PostgresRegistrationRepository) CountByTournament(context context.Context, tournamentID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM registrations WHERE tournament_id = $1`

	var count int
	if err := repository.pool.QueryRow(context, query, tournamentID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "Registration")
	}

	return count, nil
}

/*
ListByTournament returns all registrations for a tournament in sign-up order.

Parameters:
  - context: context.Context
  - tournamentID: int64

Returns:
  - []Registration: Registrations, oldest first
  - error: Database retrieval failures
*/
func (repository *PostgresRegistrationRepository) ListByTournament(context context.Context, tournamentID int64) ([]Registration, error) {
	const query = `
		SELECT id, tournament_id, user_id, team_name, created_at
		FROM registrations
		WHERE tournament_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := repository.pool.Query(context, query, tournamentID)
	if err != nil {
		return nil, dberr.Wrap(err, "Registration")
	}
	defer rows.Close()

	registrations := []Registration{}
	for rows.Next() {
		var registration Registration
		err := rows.Scan(
			&registration.ID,
			&registration.TournamentID,
			&registration.UserID,
			&registration.TeamName,
			&registration.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Registration")
		}
		registrations = append(registrations, registration)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Registration")
	}

	return registrations, nil
}
