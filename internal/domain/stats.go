package domain

// TransportStats aggregates the validated journeys of one transport mode.
type TransportStats struct {
	Journeys   int     `json:"journeys"`
	DistanceKM float64 `json:"distance_km"`
	Score      int     `json:"score"`
}

// UserStatistics aggregates a user's validated journeys.
// A user with no validated journeys gets the zero value with an empty
// (non-nil) ByTransport map — never an error.
type UserStatistics struct {
	TotalJourneys   int                              `json:"total_journeys"`
	TotalDistanceKM float64                          `json:"total_distance_km"`
	TotalScore      int                              `json:"total_score"`
	ByTransport     map[TransportMode]TransportStats `json:"by_transport"`
}
