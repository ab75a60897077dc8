// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

/*
Package tournament implements the competition catalog of the Bracketon platform.

It covers the full lifecycle of a tournament entry: creation by privileged
organizers, public discovery through paginated listings, and team sign-ups by
authenticated players.

# Architecture

The package follows the standard layering of the codebase:

  - tournament.go: Domain entities and invariants.
  - store.go / store_postgres.go: Persistence contracts and pgx implementation.
  - service.go: Business orchestration (slugging, capacity, duplicates).
  - http.go: REST delivery.
*/
package tournament

import "time"

// # Status Values

// Tournament lifecycle statuses.
const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Statuses lists every valid lifecycle status, used for input validation.
var Statuses = []string{StatusUpcoming, StatusLive, StatusCompleted, StatusCancelled}

// # Domain Entities

// Tournament represents a scheduled competition players can register for.
type Tournament struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Game        string    `json:"game"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Capacity    int       `json:"capacity"`
	StartsAt    time.Time `json:"starts_at"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AcceptsRegistrations reports whether new sign-ups are currently allowed.
//
// Registration closes once the tournament leaves the upcoming state or its
// scheduled start has passed.
func (t *Tournament) AcceptsRegistrations(now time.Time) bool {
	return t.Status == StatusUpcoming && now.Before(t.StartsAt)
}

// Registration represents a team's confirmed slot in a tournament.
type Registration struct {
	ID           int64     `json:"id"`
	TournamentID int64     `json:"tournament_id"`
	UserID       int64     `json:"user_id"`
	TeamName     string    `json:"team_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// # Field Identifiers

// Field names for validation and filtering in the tournament domain.
const (
	FieldTitle       = "title"
	FieldGame        = "game"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldCapacity    = "capacity"
	FieldStartsAt    = "starts_at"
	FieldTeamName    = "team_name"
	FieldSlug        = "slug"
)
