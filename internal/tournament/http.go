// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package tournament

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bracketon/bracketon/internal/platform/middleware"
	requestutil "github.com/bracketon/bracketon/internal/platform/request"
	"github.com/bracketon/bracketon/internal/platform/respond"
	"github.com/bracketon/bracketon/internal/platform/validate"
	"github.com/bracketon/bracketon/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements tournament-related HTTP endpoints.
type Handler struct {
	tournamentService *Service
	privilegeSource   middleware.PrivilegeSource
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, privilegeSource middleware.PrivilegeSource) *Handler {
	return &Handler{tournamentService: service, privilegeSource: privilegeSource}
}

// Routes returns a [chi.Router] configured with tournament-specific routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public read endpoints
	router.Get("/", handler.list)
	router.Get("/{slug}", handler.get)
	router.Get("/{slug}/registrations", handler.listRegistrations)

	// Player endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{slug}/register", handler.register)
	})

	// Organizer endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePrivileged(handler.privilegeSource))
		r.Post("/", handler.create)
		r.Patch("/{slug}/status", handler.updateStatus)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Title       string    `json:"title"`
	Game        string    `json:"game"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	StartsAt    time.Time `json:"starts_at"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type registerRequest struct {
	TeamName string `json:"team_name"`
}

/*
List returns a filtered, paginated page of tournaments.

GET /api/v1/tournaments?page=1&limit=20&game=&status=

Response:
  - 200: Paginated list of tournaments with metadata
  - 400: ErrInvalidJSON: Unknown status filter
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := ListFilter{
		Game:   request.URL.Query().Get(FieldGame),
		Status: request.URL.Query().Get(FieldStatus),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}

	tournaments, total, err := handler.tournamentService.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tournaments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns a single tournament by its slug.

GET /api/v1/tournaments/{slug}

Response:
  - 200: Tournament
  - 404: ErrNotFound: Unknown slug
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	tournamentSlug := requestutil.Param(request, FieldSlug)

	tournament, err := handler.tournamentService.GetBySlug(request.Context(), tournamentSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tournament)
}

/*
Create schedules a new tournament.

POST /api/v1/tournaments

Description: Restricted to privileged organizers. The slug is derived from
the title server-side.

Request:
  - Body: createRequest (Title, Game, Description, Capacity, StartsAt)

Response:
  - 201: Tournament: The scheduled entity
  - 403: ErrForbidden: Caller is not privileged
  - 409: ErrConflict: Slug already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 120).
		Required(FieldGame, input.Game).
		MaxLen(FieldGame, input.Game, 60).
		MaxLen(FieldDescription, input.Description, 2000).
		Range(FieldCapacity, input.Capacity, 0, 4096).
		Custom(FieldStartsAt, input.StartsAt.IsZero(), "is required")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tournament, err := handler.tournamentService.Create(request.Context(), CreateInput{
		Title:       input.Title,
		Game:        input.Game,
		Description: input.Description,
		Capacity:    input.Capacity,
		StartsAt:    input.StartsAt,
		CreatedBy:   identity.ID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tournament)
}

/*
UpdateStatus moves a tournament to a new lifecycle status.

PATCH /api/v1/tournaments/{slug}/status

Request:
  - Body: updateStatusRequest (Status)

Response:
  - 200: Tournament: The updated entity
  - 400: ErrInvalidJSON: Unknown status value
  - 404: ErrNotFound: Unknown slug
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	tournamentSlug := requestutil.Param(request, FieldSlug)

	var input updateStatusRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldStatus, input.Status).
		OneOf(FieldStatus, input.Status, Statuses...)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tournament, err := handler.tournamentService.UpdateStatus(request.Context(), tournamentSlug, input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tournament)
}

/*
Register signs the authenticated user's team up for a tournament.

POST /api/v1/tournaments/{slug}/register

Request:
  - Body: registerRequest (TeamName)

Response:
  - 201: Registration: The confirmed slot
  - 404: ErrNotFound: Unknown slug
  - 409: ErrConflict: Already registered
  - 422: ErrUnprocessable: Tournament full or closed
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tournamentSlug := requestutil.Param(request, FieldSlug)

	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTeamName, input.TeamName).
		MaxLen(FieldTeamName, input.TeamName, 80)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registration, err := handler.tournamentService.Register(request.Context(), tournamentSlug, identity.ID, input.TeamName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, registration)
}

/*
ListRegistrations returns every confirmed slot for a tournament.

GET /api/v1/tournaments/{slug}/registrations

Response:
  - 200: []Registration: Registrations in sign-up order
  - 404: ErrNotFound: Unknown slug
*/
func (handler *Handler) listRegistrations(writer http.ResponseWriter, request *http.Request) {
	tournamentSlug := requestutil.Param(request, FieldSlug)

	registrations, err := handler.tournamentService.ListRegistrations(request.Context(), tournamentSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, registrations)
}
