// Package domain contains the core data types for the Green Mobility Pass
// backend. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// JourneyStatus is the lifecycle state of a journey.
// Validated and Rejected are terminal: no further status transition is
// permitted out of either (delete is not a status transition).
type JourneyStatus string

const (
	// StatusDetected is a raw journey produced by the phone's sensors,
	// not yet reviewed by the user.
	StatusDetected JourneyStatus = "detected"
	// StatusPendingValidation is a journey submitted for review.
	StatusPendingValidation JourneyStatus = "pending_validation"
	// StatusValidated is a confirmed journey; its score has been attributed.
	StatusValidated JourneyStatus = "validated"
	// StatusRejected is a discarded journey, kept in the database for audit.
	StatusRejected JourneyStatus = "rejected"
	// StatusModified is a pre-validation journey the user has edited.
	StatusModified JourneyStatus = "modified"
)

// Terminal reports whether the status permits no further transitions.
func (s JourneyStatus) Terminal() bool {
	return s == StatusValidated || s == StatusRejected
}

// DetectionSource records how a journey entered the system.
type DetectionSource string

const (
	// SourceAuto marks journeys detected by the phone's motion sensors.
	SourceAuto DetectionSource = "auto"
	// SourceManual marks journeys entered by hand.
	SourceManual DetectionSource = "manual"
)

// TransportMode is the means of transport for a journey.
// The closed set lives in ScorePolicy; modes unknown to the active policy
// score a base of 0 rather than failing.
type TransportMode string

const (
	ModeWalking     TransportMode = "marche"
	ModeBicycle     TransportMode = "velo"
	ModeScooter     TransportMode = "trottinette"
	ModeTrain       TransportMode = "train"
	ModeMetro       TransportMode = "metro"
	ModeTram        TransportMode = "tram"
	ModeBus         TransportMode = "bus"
	ModeCarpool     TransportMode = "covoiturage"
	ModeElectricCar TransportMode = "voiture_electrique"
	ModeThermalCar  TransportMode = "voiture_thermique"
	ModeMotorbike   TransportMode = "moto"

	// Legacy modes from the first schema generation, still accepted under
	// the v1.0 score policy.
	ModePublicTransport TransportMode = "transport_commun"
	ModeCar             TransportMode = "voiture"
)

// Journey represents a single trip from departure to arrival.
// A journey belongs to exactly one user and is invisible to everyone else.
type Journey struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Status          JourneyStatus   `json:"status"`
	DetectionSource DetectionSource `json:"detection_source"`

	PlaceDeparture string    `json:"place_departure"`
	PlaceArrival   string    `json:"place_arrival"`
	TimeDeparture  time.Time `json:"time_departure"`
	TimeArrival    time.Time `json:"time_arrival"`

	DistanceKM      float64       `json:"distance_km"`
	DurationMinutes int           `json:"duration_minutes"`
	TransportMode   TransportMode `json:"transport_mode"`

	// Score is nil until the journey has been scored (on validation).
	Score *int `json:"score,omitempty"`

	// Original* preserve the pre-edit values, captured once on the first
	// transition into StatusModified and never overwritten afterwards.
	OriginalPlaceDeparture *string        `json:"original_place_departure,omitempty"`
	OriginalPlaceArrival   *string        `json:"original_place_arrival,omitempty"`
	OriginalTransportMode  *TransportMode `json:"original_transport_mode,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
}

// JourneyUpdate carries the optional fields of a PATCH request.
// Nil pointers mean "leave unchanged".
type JourneyUpdate struct {
	PlaceDeparture *string        `json:"place_departure,omitempty"`
	PlaceArrival   *string        `json:"place_arrival,omitempty"`
	TimeDeparture  *time.Time     `json:"time_departure,omitempty"`
	TimeArrival    *time.Time     `json:"time_arrival,omitempty"`
	DistanceKM     *float64       `json:"distance_km,omitempty"`
	TransportMode  *TransportMode `json:"transport_mode,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u JourneyUpdate) Empty() bool {
	return u.PlaceDeparture == nil && u.PlaceArrival == nil &&
		u.TimeDeparture == nil && u.TimeArrival == nil &&
		u.DistanceKM == nil && u.TransportMode == nil
}

// DurationMinutes returns the rounded number of minutes between departure
// and arrival.
func DurationMinutes(departure, arrival time.Time) int {
	return int(math.Round(arrival.Sub(departure).Minutes()))
}
