// Package service contains the business logic for the Green Mobility Pass API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/repo"
)

// Scorer records score calculations. It computes the breakdown with the
// active policy and persists it through ScoreRepo.Apply, which updates the
// journey's score and appends the history row in one transaction.
//
// The computation is deterministic; the storage is append-only. Calling
// RecordAndApply repeatedly for an unchanged journey yields the same total
// every time while adding a new history row each time.
type Scorer struct {
	scores repo.ScoreRepo
	policy domain.ScorePolicy
	now    func() time.Time
}

// NewScorer constructs a Scorer using the given policy and clock.
func NewScorer(scores repo.ScoreRepo, policy domain.ScorePolicy, now func() time.Time) *Scorer {
	return &Scorer{scores: scores, policy: policy, now: now}
}

// Policy returns the score policy the Scorer calculates with.
func (s *Scorer) Policy() domain.ScorePolicy {
	return s.policy
}

// RecordAndApply scores the journey's current transport mode and distance,
// writes the total onto the journey row, and appends the audit record.
// It never touches prior history entries.
func (s *Scorer) RecordAndApply(ctx context.Context, journey domain.Journey) (domain.ScoreHistory, error) {
	breakdown := s.policy.Calculate(journey.TransportMode, journey.DistanceKM)

	entry := domain.ScoreHistory{
		JourneyID:         journey.ID,
		ScoreValue:        breakdown.Total,
		BaseScore:         breakdown.Base,
		DistanceBonus:     breakdown.DistanceBonus,
		EcoBonus:          breakdown.EcoBonus,
		CalculationMethod: s.policy.Version,
		TransportMode:     journey.TransportMode,
		DistanceKM:        journey.DistanceKM,
		CalculatedAt:      s.now().UTC(),
	}

	recorded, err := s.scores.Apply(ctx, entry)
	if err != nil {
		return domain.ScoreHistory{}, fmt.Errorf("service.Scorer.RecordAndApply: %w", err)
	}
	return recorded, nil
}

// History returns all score records for a journey, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *Scorer) History(ctx context.Context, journeyID uuid.UUID) ([]domain.ScoreHistory, error) {
	entries, err := s.scores.ListByJourney(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("service.Scorer.History: %w", err)
	}
	if entries == nil {
		return []domain.ScoreHistory{}, nil
	}
	return entries, nil
}
