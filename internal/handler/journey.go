package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/service"
)

// journeyRequest is the JSON body for journey creation.
type journeyRequest struct {
	PlaceDeparture  string                 `json:"place_departure"`
	PlaceArrival    string                 `json:"place_arrival"`
	TimeDeparture   time.Time              `json:"time_departure"`
	TimeArrival     time.Time              `json:"time_arrival"`
	DistanceKM      float64                `json:"distance_km"`
	TransportMode   domain.TransportMode   `json:"transport_mode"`
	DetectionSource domain.DetectionSource `json:"detection_source"`
}

func (req journeyRequest) toInput() service.JourneyInput {
	return service.JourneyInput{
		PlaceDeparture:  req.PlaceDeparture,
		PlaceArrival:    req.PlaceArrival,
		TimeDeparture:   req.TimeDeparture,
		TimeArrival:     req.TimeArrival,
		DistanceKM:      req.DistanceKM,
		TransportMode:   req.TransportMode,
		DetectionSource: req.DetectionSource,
	}
}

// CreateJourney handles POST /journey/.
// The journey is stored already validated and scored in the same request.
func (s *Server) CreateJourney(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	var req journeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := s.journeys.CreateValidated(r.Context(), id.UserID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CreatePendingJourney handles POST /journey/pending.
// Auto-detected journeys land as detected, manual ones as pending_validation;
// neither is scored yet.
func (s *Server) CreatePendingJourney(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	var req journeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := s.journeys.CreatePending(r.Context(), id.UserID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListValidatedJourneys handles GET /journey/validated.
func (s *Server) ListValidatedJourneys(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	journeys, err := s.journeys.ListValidated(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journeys)
}

// ListPendingJourneys handles GET /journey/pending.
func (s *Server) ListPendingJourneys(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	journeys, err := s.journeys.ListPending(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journeys)
}

// GetJourney handles GET /journey/{id}.
func (s *Server) GetJourney(w http.ResponseWriter, r *http.Request) {
	id, journeyID, ok := s.journeyParams(w, r)
	if !ok {
		return
	}

	journey, err := s.journeys.Get(r.Context(), journeyID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journey)
}

// UpdateJourney handles PATCH /journey/{id}.
// Only non-terminal journeys can be edited; the edit moves them to modified.
func (s *Server) UpdateJourney(w http.ResponseWriter, r *http.Request) {
	id, journeyID, ok := s.journeyParams(w, r)
	if !ok {
		return
	}

	var upd domain.JourneyUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.journeys.Update(r.Context(), journeyID, id.UserID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ValidateJourney handles POST /journey/{id}/validate.
func (s *Server) ValidateJourney(w http.ResponseWriter, r *http.Request) {
	id, journeyID, ok := s.journeyParams(w, r)
	if !ok {
		return
	}

	journey, err := s.journeys.Validate(r.Context(), journeyID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journey)
}

// RejectJourney handles POST /journey/{id}/reject.
func (s *Server) RejectJourney(w http.ResponseWriter, r *http.Request) {
	id, journeyID, ok := s.journeyParams(w, r)
	if !ok {
		return
	}

	journey, err := s.journeys.Reject(r.Context(), journeyID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journey)
}

// RecalculateJourney handles POST /journey/{id}/recalculate.
// Responds with the freshly appended score record.
func (s *Server) RecalculateJourney(w http.ResponseWriter, r *http.Request) {
	id, journeyID, ok := s.journeyParams(w, r)
	if !ok {
		return
	}

	entry, err := s.journeys.Recalculate(r.Context(), journeyID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// JourneyScoreHistory handles GET /journey/{id}/score-history.
func (s *Server) JourneyScoreHistory(w http.ResponseWriter, r *http.Request) {
	id, journeyID, ok := s.journeyParams(w, r)
	if !ok {
		return
	}

	entries, err := s.journeys.ScoreHistory(r.Context(), journeyID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// DeleteJourney handles DELETE /journey/{id}.
func (s *Server) DeleteJourney(w http.ResponseWriter, r *http.Request) {
	id, journeyID, ok := s.journeyParams(w, r)
	if !ok {
		return
	}

	if err := s.journeys.Delete(r.Context(), journeyID, id.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Statistics handles GET /journey/statistics/me.
func (s *Server) Statistics(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	stats, err := s.journeys.Statistics(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// journeyParams resolves the caller's identity and the {id} path parameter,
// writing the error response itself when either is unusable.
func (s *Server) journeyParams(w http.ResponseWriter, r *http.Request) (service.Identity, uuid.UUID, bool) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return service.Identity{}, uuid.Nil, false
	}

	journeyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid journey id")
		return service.Identity{}, uuid.Nil, false
	}
	return id, journeyID, true
}
