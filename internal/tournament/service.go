// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bracketon/bracketon/internal/platform/apperr"
	"github.com/bracketon/bracketon/internal/platform/ctxutil"
	"github.com/bracketon/bracketon/pkg/slug"
)

// # Definitions & Constructors

// Service implements tournament catalog and registration use cases.
type Service struct {
	repository             Repository
	registrationRepository RegistrationRepository

	// now is injectable for deterministic registration-window tests.
	now func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, registrationRepository RegistrationRepository) *Service {
	return &Service{
		repository:             repository,
		registrationRepository: registrationRepository,
		now:                    time.Now,
	}
}

// # Catalog Operations

// CreateInput holds the data required to schedule a new tournament.
type CreateInput struct {
	Title       string
	Game        string
	Description string
	Capacity    int
	StartsAt    time.Time
	CreatedBy   int64
}

/*
Create schedules a new tournament.

Description: Derives the URL slug from the title, stamps the upcoming status,
and persists the entity. Slug collisions surface as conflicts; organizers
resolve them by picking a distinct title.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Tournament: The persisted entity with its assigned ID and slug
  - error: apperr.ValidationError, apperr.Conflict, or persistence failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Tournament, error) {

	// ── 1. Derive the slug ────────────────────────────────────────────────
	tournamentSlug := slug.From(input.Title)
	if tournamentSlug == "" {
		return nil, apperr.ValidationError("Title must contain at least one alphanumeric character")
	}

	// ── 2. Guard the schedule ─────────────────────────────────────────────
	if !input.StartsAt.After(service.now()) {
		return nil, apperr.ValidationError("Start time must be in the future")
	}

	// ── 3. Persist ────────────────────────────────────────────────────────
	tournament := &Tournament{
		Slug:        tournamentSlug,
		Title:       input.Title,
		Game:        input.Game,
		Description: input.Description,
		Status:      StatusUpcoming,
		Capacity:    input.Capacity,
		StartsAt:    input.StartsAt,
		CreatedBy:   input.CreatedBy,
	}

	if err := service.repository.Create(context, tournament); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "tournament_created",
		slog.Int64("tournament_id", tournament.ID),
		slog.String("slug", tournament.Slug),
		slog.Int64("created_by", tournament.CreatedBy),
	)

	return tournament, nil
}

/*
List returns a filtered page of tournaments plus the total match count.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []Tournament: Page of matched tournaments
  - int: Total rows matching the filter
  - error: apperr.ValidationError on an unknown status, or retrieval failures
*/
func (service *Service) List(context context.Context, filter ListFilter) ([]Tournament, int, error) {
	if filter.Status != "" && !isValidStatus(filter.Status) {
		return nil, 0, apperr.ValidationError(fmt.Sprintf("Unknown status %q", filter.Status))
	}

	return service.repository.List(context, filter)
}

/*
GetBySlug returns a single tournament by its slug.

Parameters:
  - context: context.Context
  - tournamentSlug: string

Returns:
  - *Tournament: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetBySlug(context context.Context, tournamentSlug string) (*Tournament, error) {
	return service.repository.FindBySlug(context, tournamentSlug)
}

/*
UpdateStatus moves a tournament to a new lifecycle status.

Parameters:
  - context: context.Context
  - tournamentSlug: string
  - status: string

Returns:
  - *Tournament: The updated entity
  - error: apperr.ValidationError, apperr.NotFound, or persistence failures
*/
func (service *Service) UpdateStatus(context context.Context, tournamentSlug, status string) (*Tournament, error) {
	if !isValidStatus(status) {
		return nil, apperr.ValidationError(fmt.Sprintf("Unknown status %q", status))
	}

	tournament, err := service.repository.FindBySlug(context, tournamentSlug)
	if err != nil {
		return nil, err
	}

	if err := service.repository.UpdateStatus(context, tournament.ID, status); err != nil {
		return nil, err
	}

	tournament.Status = status

	ctxutil.GetLogger(context).InfoContext(context, "tournament_status_changed",
		slog.Int64("tournament_id", tournament.ID),
		slog.String("status", status),
	)

	return tournament, nil
}

// # Registration Operations

/*
Register signs a team up for a tournament.

Description: Applies the business gates in order — the tournament must still
accept registrations, must have a free slot, and the user must not already
hold one. The database unique constraint backstops the duplicate check under
concurrency.

Parameters:
  - context: context.Context
  - tournamentSlug: string
  - userID: int64
  - teamName: string

Returns:
  - *Registration: The confirmed slot
  - error: apperr.NotFound, apperr.Unprocessable, apperr.Conflict, or persistence failures
*/
func (service *Service) Register(context context.Context, tournamentSlug string, userID int64, teamName string) (*Registration, error) {

	// ── 1. Resolve the tournament ─────────────────────────────────────────
	tournament, err := service.repository.FindBySlug(context, tournamentSlug)
	if err != nil {
		return nil, err
	}

	// ── 2. Registration window ────────────────────────────────────────────
	if !tournament.AcceptsRegistrations(service.now()) {
		return nil, apperr.Unprocessable("Registration for this tournament is closed")
	}

	// ── 3. Capacity gate ──────────────────────────────────────────────────
	count, err := service.registrationRepository.CountByTournament(context, tournament.ID)
	if err != nil {
		return nil, err
	}

	if tournament.Capacity > 0 && count >= tournament.Capacity {
		return nil, apperr.Unprocessable("Tournament is full")
	}

	// ── 4. Persist the slot ───────────────────────────────────────────────
	registration := &Registration{
		TournamentID: tournament.ID,
		UserID:       userID,
		TeamName:     teamName,
	}

	if err := service.registrationRepository.Create(context, registration); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "tournament_registration_created",
		slog.Int64("tournament_id", tournament.ID),
		slog.Int64("user_id", userID),
		slog.String("team_name", teamName),
	)

	return registration, nil
}

/*
ListRegistrations returns every confirmed slot for a tournament.

Parameters:
  - context: context.Context
  - tournamentSlug: string

Returns:
  - []Registration: Registrations in sign-up order
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) ListRegistrations(context context.Context, tournamentSlug string) ([]Registration, error) {
	tournament, err := service.repository.FindBySlug(context, tournamentSlug)
	if err != nil {
		return nil, err
	}

	return service.registrationRepository.ListByTournament(context, tournament.ID)
}

// isValidStatus reports whether status is a known lifecycle value.
func isValidStatus(status string) bool {
	for _, known := range Statuses {
		if status == known {
			return true
		}
	}
	return false
}
