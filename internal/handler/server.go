// Package handler implements the HTTP handlers for the Green Mobility Pass API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (journey.go, auth.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/middleware"
	"github.com/greenmobilitypass/backend/internal/service"
)

// JourneyServicer defines the business operations the journey handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type JourneyServicer interface {
	CreateValidated(ctx context.Context, userID uuid.UUID, in service.JourneyInput) (domain.Journey, error)
	CreatePending(ctx context.Context, userID uuid.UUID, in service.JourneyInput) (domain.Journey, error)
	Get(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error)
	ListValidated(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error)
	ListPending(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error)
	Update(ctx context.Context, journeyID, userID uuid.UUID, upd domain.JourneyUpdate) (domain.Journey, error)
	Validate(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error)
	Reject(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error)
	Delete(ctx context.Context, journeyID, userID uuid.UUID) error
	Recalculate(ctx context.Context, journeyID, userID uuid.UUID) (domain.ScoreHistory, error)
	ScoreHistory(ctx context.Context, journeyID, userID uuid.UUID) ([]domain.ScoreHistory, error)
	Statistics(ctx context.Context, userID uuid.UUID) (domain.UserStatistics, error)
}

// AuthServicer defines the auth operations the token handlers depend on.
// It doubles as the middleware.TokenVerifier for the protected route group.
type AuthServicer interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.User, error)
	Login(ctx context.Context, username, password string) (service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error)
	Verify(token string) (service.Identity, error)
}

// UserServicer defines the user-administration operations.
type UserServicer interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyServicer defines the company-administration operations.
type CompanyServicer interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, company domain.Company) (domain.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExportServicer defines the export operation.
type ExportServicer interface {
	Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds the handlers' dependencies. Methods are in domain-specific
// files but all operate on this struct.
type Server struct {
	journeys  JourneyServicer
	auth      AuthServicer
	users     UserServicer
	companies CompanyServicer
	export    ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(journeys JourneyServicer, auth AuthServicer, users UserServicer, companies CompanyServicer, export ExportServicer) *Server {
	return &Server{journeys: journeys, auth: auth, users: users, companies: companies, export: export}
}

// Routes mounts every endpoint on a fresh chi router. The caller wires the
// outer middleware chain (request id, logging, CORS, body limits) around it.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	// Public surface.
	r.Get("/healthz", s.Health)
	r.Post("/token", s.Login)
	r.Post("/token/refresh", s.Refresh)
	r.Post("/user/", s.RegisterUser)

	// Everything below requires a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.auth))

		r.Get("/me", s.Me)
		r.Get("/user/{id}", s.GetUser) // admin or self, checked in the handler

		r.Route("/journey", func(r chi.Router) {
			r.Post("/", s.CreateJourney)
			r.Post("/pending", s.CreatePendingJourney)
			r.Get("/validated", s.ListValidatedJourneys)
			r.Get("/pending", s.ListPendingJourneys)
			r.Get("/statistics/me", s.Statistics)
			r.Get("/export", s.Export)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetJourney)
				r.Patch("/", s.UpdateJourney)
				r.Delete("/", s.DeleteJourney)
				r.Post("/validate", s.ValidateJourney)
				r.Post("/reject", s.RejectJourney)
				r.Post("/recalculate", s.RecalculateJourney)
				r.Get("/score-history", s.JourneyScoreHistory)
			})
		})

		// Administration.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Get("/user/", s.ListUsers)
			r.Delete("/user/{id}", s.DeleteUser)

			r.Route("/company", func(r chi.Router) {
				r.Post("/", s.CreateCompany)
				r.Get("/", s.ListCompanies)
				r.Get("/{id}", s.GetCompany)
				r.Put("/{id}", s.UpdateCompany)
				r.Delete("/{id}", s.DeleteCompany)
			})
		})
	})

	return r
}

// identity pulls the authenticated caller out of the request context.
// Requests on protected routes always carry one; a missing identity means a
// wiring bug, reported as 401 rather than a panic.
func identity(r *http.Request) (service.Identity, bool) {
	return middleware.IdentityFrom(r.Context())
}
