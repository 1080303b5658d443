package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ScoreBreakdown is the result of one score calculation.
// Total is always Base + DistanceBonus + EcoBonus.
type ScoreBreakdown struct {
	Base          int `json:"base_score"`
	DistanceBonus int `json:"distance_bonus"`
	EcoBonus      int `json:"eco_bonus"`
	Total         int `json:"total"`
}

// ScorePolicy is the versioned scoring configuration: the mode→points table,
// the eco-eligible set, and the bonus parameters. Historical score records
// pin the Version used, so any change to the tables must ship under a new
// version string.
type ScorePolicy struct {
	// Version is the calculation_method tag written to every history row.
	Version string

	// BaseScores maps each known transport mode to its base points.
	// Modes absent from the table score 0 — never an error.
	BaseScores map[TransportMode]int

	// EcoModes is the set of zero-emission active modes eligible for EcoBonus.
	EcoModes map[TransportMode]struct{}

	// DistanceBonusPerKM is the per-kilometre distance bonus (points/km).
	DistanceBonusPerKM int

	// EcoBonus is the flat bonus granted to EcoModes.
	EcoBonus int
}

// PolicyV1 returns the scoring rules of the first schema generation:
// four transport modes, eco bonus for walking and cycling.
func PolicyV1() ScorePolicy {
	return ScorePolicy{
		Version: "v1.0",
		BaseScores: map[TransportMode]int{
			ModeWalking:         100,
			ModeBicycle:         90,
			ModePublicTransport: 70,
			ModeCar:             20,
		},
		EcoModes: map[TransportMode]struct{}{
			ModeWalking: {},
			ModeBicycle: {},
		},
		DistanceBonusPerKM: 2,
		EcoBonus:           50,
	}
}

// PolicyV2 returns the extended scoring rules: eleven transport modes graded
// by ecological impact, with scooters added to the eco-eligible set.
func PolicyV2() ScorePolicy {
	return ScorePolicy{
		Version: "v2.0",
		BaseScores: map[TransportMode]int{
			ModeWalking:     100,
			ModeBicycle:     90,
			ModeScooter:     85,
			ModeTrain:       75,
			ModeMetro:       70,
			ModeTram:        70,
			ModeBus:         60,
			ModeCarpool:     40,
			ModeElectricCar: 30,
			ModeMotorbike:   15,
			ModeThermalCar:  10,
		},
		EcoModes: map[TransportMode]struct{}{
			ModeWalking: {},
			ModeBicycle: {},
			ModeScooter: {},
		},
		DistanceBonusPerKM: 2,
		EcoBonus:           50,
	}
}

// PolicyByVersion returns the policy registered under the given version tag.
// The second return value is false for unknown versions.
func PolicyByVersion(version string) (ScorePolicy, bool) {
	switch version {
	case "v1.0":
		return PolicyV1(), true
	case "v2.0":
		return PolicyV2(), true
	}
	return ScorePolicy{}, false
}

// Known reports whether the mode appears in the policy's base score table.
func (p ScorePolicy) Known(mode TransportMode) bool {
	_, ok := p.BaseScores[mode]
	return ok
}

// Calculate computes the score breakdown for a transport mode and distance.
// It is pure and deterministic: same inputs always yield the same breakdown.
//
//   - base: table lookup, 0 for unknown modes
//   - distance bonus: floor(km × DistanceBonusPerKM)
//   - eco bonus: flat EcoBonus for modes in the eco set
func (p ScorePolicy) Calculate(mode TransportMode, distanceKM float64) ScoreBreakdown {
	b := ScoreBreakdown{
		Base:          p.BaseScores[mode],
		DistanceBonus: int(math.Floor(distanceKM * float64(p.DistanceBonusPerKM))),
	}
	if _, ok := p.EcoModes[mode]; ok {
		b.EcoBonus = p.EcoBonus
	}
	b.Total = b.Base + b.DistanceBonus + b.EcoBonus
	return b
}

// ScoreHistory is one immutable record of a score calculation.
// A journey accumulates one row per scoring event (creation, validation,
// recalculation); rows are never updated or deleted by normal flows.
// TransportMode and DistanceKM are snapshots taken at calculation time and
// stay fixed even if the journey is edited later.
type ScoreHistory struct {
	ID                uuid.UUID     `json:"id"`
	JourneyID         uuid.UUID     `json:"journey_id"`
	ScoreValue        int           `json:"score_value"`
	BaseScore         int           `json:"base_score"`
	DistanceBonus     int           `json:"distance_bonus"`
	EcoBonus          int           `json:"eco_bonus"`
	CalculationMethod string        `json:"calculation_method"`
	TransportMode     TransportMode `json:"transport_mode"`
	DistanceKM        float64       `json:"distance_km"`
	CalculatedAt      time.Time     `json:"calculated_at"`
}
