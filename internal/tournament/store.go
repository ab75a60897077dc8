// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package tournament

import "context"

// ListFilter narrows tournament listings.
//
// Zero values mean "no filter": an empty Game matches every game and an empty
// Status matches every lifecycle state.
type ListFilter struct {
	Game   string
	Status string
	Limit  int
	Offset int
}

// # Tournament Data Access

// Repository defines the data access contract for tournaments.
type Repository interface {

	/*
		FindBySlug returns the tournament with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Tournament: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindBySlug(context context.Context, slug string) (*Tournament, error)

	/*
		List returns a filtered page of tournaments plus the total match count.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []Tournament: Page of matched tournaments, newest start first
		  - int: Total rows matching the filter (ignores Limit/Offset)
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter ListFilter) ([]Tournament, int, error)

	/*
		Create persists a new tournament and assigns its ID.

		Parameters:
		  - context: context.Context
		  - tournament: *Tournament

		Returns:
		  - error: apperr.Conflict on duplicate slug, other persistence failures
	*/
	Create(context context.Context, tournament *Tournament) error

	/*
		UpdateStatus moves a tournament to a new lifecycle status.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - status: string

		Returns:
		  - error: apperr.NotFound when the ID does not exist
	*/
	UpdateStatus(context context.Context, id int64, status string) error
}

// # Registration Data Access

// RegistrationRepository defines the data access contract for sign-ups.
type RegistrationRepository interface {

	/*
		Create persists a new registration and assigns its ID.

		Parameters:
		  - context: context.Context
		  - registration: *Registration

		Returns:
		  - error: apperr.Conflict when the user already registered
	*/
	Create(context context.Context, registration *Registration) error

	/*
		CountByTournament returns the number of confirmed registrations.

		Parameters:
		  - context: context.Context
		  - tournamentID: int64

		Returns:
		  - int: Current registration count
		  - error: Database retrieval failures
	*/
	CountByTournament(context context.Context, tournamentID int64) (int, error)

	/*
		ListByTournament returns all registrations for a tournament, oldest first.

		Parameters:
		  - context: context.Context
		  - tournamentID: int64

		Returns:
		  - []Registration: Registrations in sign-up order
		  - error: Database retrieval failures
	*/
	ListByTournament(context context.Context, tournamentID int64) ([]Registration, error)
}
