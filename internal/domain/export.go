package domain

import "time"

// ExportRow is a single row in the journey export.
// It is a flat, denormalized view: one row per journey, with the latest
// score breakdown (if any) repeated alongside the journey fields.
// Journeys that have never been scored carry zero values in the score
// columns and an empty CalculationMethod.
type ExportRow struct {
	JourneyID       string
	Status          JourneyStatus
	DetectionSource DetectionSource
	PlaceDeparture  string
	PlaceArrival    string
	TimeDeparture   time.Time
	TimeArrival     time.Time
	DistanceKM      float64
	DurationMinutes int
	TransportMode   TransportMode

	// Score fields — from the most recent score_history row, zero values
	// when the journey has never been scored.
	Score             int
	BaseScore         int
	DistanceBonus     int
	EcoBonus          int
	CalculationMethod string
}
