package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/repo"
)

// ScoreRecorder is the scoring collaborator the journey service depends on.
// *Scorer satisfies it; tests inject a mock.
type ScoreRecorder interface {
	RecordAndApply(ctx context.Context, journey domain.Journey) (domain.ScoreHistory, error)
	History(ctx context.Context, journeyID uuid.UUID) ([]domain.ScoreHistory, error)
	Policy() domain.ScorePolicy
}

// JourneyInput carries the fields of a journey creation request.
type JourneyInput struct {
	PlaceDeparture  string
	PlaceArrival    string
	TimeDeparture   time.Time
	TimeArrival     time.Time
	DistanceKM      float64
	TransportMode   domain.TransportMode
	DetectionSource domain.DetectionSource
}

// JourneyService implements the journey lifecycle: creation, modification,
// validation, rejection, deletion, listing, and statistics. Every operation
// that touches a single journey goes through the ownership check first.
//
// Each operation is one transactional unit against the store. There is no
// optimistic locking: two concurrent transitions on the same journey
// serialize on the database's row locks, and a lost update between them is a
// known limitation of this design.
type JourneyService struct {
	journeys repo.JourneyRepo
	scorer   ScoreRecorder
	now      func() time.Time
}

// NewJourneyService constructs a JourneyService with an injected clock.
func NewJourneyService(journeys repo.JourneyRepo, scorer ScoreRecorder, now func() time.Time) *JourneyService {
	return &JourneyService{journeys: journeys, scorer: scorer, now: now}
}

// CreateValidated creates a journey directly in the validated state and
// scores it. This is the mobile-app flow: the user confirms the trip on the
// phone, and the backend stores it already validated.
func (s *JourneyService) CreateValidated(ctx context.Context, userID uuid.UUID, in JourneyInput) (domain.Journey, error) {
	if err := validateInput(in, s.scorer.Policy()); err != nil {
		return domain.Journey{}, err
	}

	now := s.now().UTC()
	journey := journeyFromInput(userID, in, now)
	journey.Status = domain.StatusValidated
	journey.ValidatedAt = &now

	created, err := s.journeys.Create(ctx, journey)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.CreateValidated: %w", err)
	}

	entry, err := s.scorer.RecordAndApply(ctx, created)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.CreateValidated: %w", err)
	}
	created.Score = &entry.ScoreValue

	return created, nil
}

// CreatePending stores a journey awaiting user review: auto-detected
// submissions land as detected, manual ones as pending_validation.
// No scoring happens until the journey is validated, and the raw data is
// deliberately not range-checked here — Validate re-checks it.
func (s *JourneyService) CreatePending(ctx context.Context, userID uuid.UUID, in JourneyInput) (domain.Journey, error) {
	if err := requireFields(in); err != nil {
		return domain.Journey{}, err
	}

	journey := journeyFromInput(userID, in, s.now().UTC())
	journey.Status = domain.StatusPendingValidation
	if in.DetectionSource == domain.SourceAuto {
		journey.Status = domain.StatusDetected
	}

	created, err := s.journeys.Create(ctx, journey)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.CreatePending: %w", err)
	}
	return created, nil
}

// Get returns a single journey owned by the user.
func (s *JourneyService) Get(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error) {
	journey, err := s.owned(ctx, journeyID, userID)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Get: %w", err)
	}
	return journey, nil
}

// ListValidated returns the user's validated journeys, most recent departure
// first. Always returns a non-nil slice so callers can safely range over it.
func (s *JourneyService) ListValidated(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error) {
	return s.list(ctx, userID, domain.StatusValidated)
}

// ListPending returns the user's pending journeys, most recent departure first.
func (s *JourneyService) ListPending(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error) {
	return s.list(ctx, userID, domain.StatusPendingValidation)
}

func (s *JourneyService) list(ctx context.Context, userID uuid.UUID, status domain.JourneyStatus) ([]domain.Journey, error) {
	journeys, err := s.journeys.ListByStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("service.JourneyService.list: %w", err)
	}
	if journeys == nil {
		return []domain.Journey{}, nil
	}
	return journeys, nil
}

// Update applies a partial edit to a pre-validation journey and moves it to
// the modified state. The first transition into modified snapshots the
// original place and transport values before any change is applied; later
// updates never overwrite that snapshot.
func (s *JourneyService) Update(ctx context.Context, journeyID, userID uuid.UUID, upd domain.JourneyUpdate) (domain.Journey, error) {
	journey, err := s.owned(ctx, journeyID, userID)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w", err)
	}

	if journey.Status.Terminal() {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w: cannot update a %s journey",
			domain.ErrIllegalTransition, journey.Status)
	}
	if upd.Empty() {
		return domain.Journey{}, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	// Capture pre-edit values exactly once, on the first transition into
	// the modified state.
	if journey.Status != domain.StatusModified {
		dep, arr, mode := journey.PlaceDeparture, journey.PlaceArrival, journey.TransportMode
		journey.OriginalPlaceDeparture = &dep
		journey.OriginalPlaceArrival = &arr
		journey.OriginalTransportMode = &mode
	}

	if upd.PlaceDeparture != nil {
		journey.PlaceDeparture = *upd.PlaceDeparture
	}
	if upd.PlaceArrival != nil {
		journey.PlaceArrival = *upd.PlaceArrival
	}
	if upd.TimeDeparture != nil {
		journey.TimeDeparture = *upd.TimeDeparture
	}
	if upd.TimeArrival != nil {
		journey.TimeArrival = *upd.TimeArrival
	}
	if upd.DistanceKM != nil {
		journey.DistanceKM = *upd.DistanceKM
	}
	if upd.TransportMode != nil {
		journey.TransportMode = *upd.TransportMode
	}

	if upd.TimeDeparture != nil || upd.TimeArrival != nil {
		journey.DurationMinutes = domain.DurationMinutes(journey.TimeDeparture, journey.TimeArrival)
	}

	if err := validateJourneyData(journey, s.scorer.Policy()); err != nil {
		return domain.Journey{}, err
	}

	journey.Status = domain.StatusModified

	updated, err := s.journeys.Update(ctx, journey)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Update: %w", err)
	}
	return updated, nil
}

// Validate confirms a pre-validation journey, stamps validated_at, and scores
// it. The raw data is re-checked first: auto-detected journeys may carry
// values the user still needs to correct.
func (s *JourneyService) Validate(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error) {
	journey, err := s.owned(ctx, journeyID, userID)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Validate: %w", err)
	}

	switch journey.Status {
	case domain.StatusValidated:
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Validate: %w: journey is already validated",
			domain.ErrIllegalTransition)
	case domain.StatusRejected:
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Validate: %w: cannot validate a rejected journey",
			domain.ErrIllegalTransition)
	}

	if err := validateJourneyData(journey, s.scorer.Policy()); err != nil {
		return domain.Journey{}, err
	}

	now := s.now().UTC()
	journey.Status = domain.StatusValidated
	journey.ValidatedAt = &now

	updated, err := s.journeys.Update(ctx, journey)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Validate: %w", err)
	}

	entry, err := s.scorer.RecordAndApply(ctx, updated)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Validate: %w", err)
	}
	updated.Score = &entry.ScoreValue

	return updated, nil
}

// Reject discards a journey. Rejected journeys earn no points and are
// excluded from statistics, but stay in the database for audit.
func (s *JourneyService) Reject(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error) {
	journey, err := s.owned(ctx, journeyID, userID)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Reject: %w", err)
	}

	switch journey.Status {
	case domain.StatusValidated:
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Reject: %w: cannot reject a validated journey",
			domain.ErrIllegalTransition)
	case domain.StatusRejected:
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Reject: %w: journey is already rejected",
			domain.ErrIllegalTransition)
	}

	now := s.now().UTC()
	journey.Status = domain.StatusRejected
	journey.RejectedAt = &now

	updated, err := s.journeys.Update(ctx, journey)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("service.JourneyService.Reject: %w", err)
	}
	return updated, nil
}

// Delete removes a journey permanently. Allowed from any state — delete is
// not a status transition — but only for the owner.
func (s *JourneyService) Delete(ctx context.Context, journeyID, userID uuid.UUID) error {
	if _, err := s.owned(ctx, journeyID, userID); err != nil {
		return fmt.Errorf("service.JourneyService.Delete: %w", err)
	}
	if err := s.journeys.Delete(ctx, journeyID); err != nil {
		return fmt.Errorf("service.JourneyService.Delete: %w", err)
	}
	return nil
}

// Recalculate re-runs the score calculation for a validated journey,
// rewriting its score and appending a fresh history row. The computation is
// deterministic, so an unchanged journey gets the same total each time.
func (s *JourneyService) Recalculate(ctx context.Context, journeyID, userID uuid.UUID) (domain.ScoreHistory, error) {
	journey, err := s.owned(ctx, journeyID, userID)
	if err != nil {
		return domain.ScoreHistory{}, fmt.Errorf("service.JourneyService.Recalculate: %w", err)
	}
	if journey.Status != domain.StatusValidated {
		return domain.ScoreHistory{}, fmt.Errorf("service.JourneyService.Recalculate: %w: only validated journeys carry a score",
			domain.ErrIllegalTransition)
	}

	entry, err := s.scorer.RecordAndApply(ctx, journey)
	if err != nil {
		return domain.ScoreHistory{}, fmt.Errorf("service.JourneyService.Recalculate: %w", err)
	}
	return entry, nil
}

// ScoreHistory returns the audit trail of score calculations for a journey
// owned by the user, newest first.
func (s *JourneyService) ScoreHistory(ctx context.Context, journeyID, userID uuid.UUID) ([]domain.ScoreHistory, error) {
	if _, err := s.owned(ctx, journeyID, userID); err != nil {
		return nil, fmt.Errorf("service.JourneyService.ScoreHistory: %w", err)
	}
	entries, err := s.scorer.History(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("service.JourneyService.ScoreHistory: %w", err)
	}
	return entries, nil
}

// Statistics aggregates the user's validated journeys. A user with none gets
// the zeroed structure, not an error.
func (s *JourneyService) Statistics(ctx context.Context, userID uuid.UUID) (domain.UserStatistics, error) {
	stats, err := s.journeys.Statistics(ctx, userID)
	if err != nil {
		return domain.UserStatistics{}, fmt.Errorf("service.JourneyService.Statistics: %w", err)
	}

	stats.TotalDistanceKM = round2(stats.TotalDistanceKM)
	for mode, ts := range stats.ByTransport {
		ts.DistanceKM = round2(ts.DistanceKM)
		stats.ByTransport[mode] = ts
	}
	return stats, nil
}

// owned is the ownership guard: it loads the journey and verifies it belongs
// to the requesting user. Every mutating and single-read operation routes
// through it — no path may bypass this check.
func (s *JourneyService) owned(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error) {
	journey, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return domain.Journey{}, err
	}
	if journey.UserID != userID {
		return domain.Journey{}, fmt.Errorf("%w: journey belongs to another user", domain.ErrForbidden)
	}
	return journey, nil
}

// journeyFromInput builds the common part of a new journey.
func journeyFromInput(userID uuid.UUID, in JourneyInput, now time.Time) domain.Journey {
	source := in.DetectionSource
	if source == "" {
		source = domain.SourceManual
	}
	return domain.Journey{
		UserID:          userID,
		DetectionSource: source,
		PlaceDeparture:  in.PlaceDeparture,
		PlaceArrival:    in.PlaceArrival,
		TimeDeparture:   in.TimeDeparture,
		TimeArrival:     in.TimeArrival,
		DistanceKM:      in.DistanceKM,
		DurationMinutes: domain.DurationMinutes(in.TimeDeparture, in.TimeArrival),
		TransportMode:   in.TransportMode,
		CreatedAt:       now,
	}
}

// requireFields enforces presence of the fields every creation needs,
// without range-checking the values.
func requireFields(in JourneyInput) error {
	if strings.TrimSpace(in.PlaceDeparture) == "" || strings.TrimSpace(in.PlaceArrival) == "" {
		return fmt.Errorf("%w: place_departure and place_arrival are required", domain.ErrValidation)
	}
	if in.TimeDeparture.IsZero() || in.TimeArrival.IsZero() {
		return fmt.Errorf("%w: time_departure and time_arrival are required", domain.ErrValidation)
	}
	if in.TransportMode == "" {
		return fmt.Errorf("%w: transport_mode is required", domain.ErrValidation)
	}
	return nil
}

// validateInput enforces the full business rules for a validated creation.
func validateInput(in JourneyInput, policy domain.ScorePolicy) error {
	if err := requireFields(in); err != nil {
		return err
	}
	if !in.TimeArrival.After(in.TimeDeparture) {
		return fmt.Errorf("%w: time_arrival must be after time_departure", domain.ErrValidation)
	}
	if in.DistanceKM <= 0 {
		return fmt.Errorf("%w: distance_km must be positive", domain.ErrValidation)
	}
	if !policy.Known(in.TransportMode) {
		return fmt.Errorf("%w: unknown transport_mode %q", domain.ErrValidation, in.TransportMode)
	}
	return nil
}

// validateJourneyData re-checks an existing journey's data before it is
// updated or validated.
func validateJourneyData(j domain.Journey, policy domain.ScorePolicy) error {
	return validateInput(JourneyInput{
		PlaceDeparture: j.PlaceDeparture,
		PlaceArrival:   j.PlaceArrival,
		TimeDeparture:  j.TimeDeparture,
		TimeArrival:    j.TimeArrival,
		DistanceKM:     j.DistanceKM,
		TransportMode:  j.TransportMode,
	}, policy)
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
