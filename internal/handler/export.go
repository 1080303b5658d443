// Package handler — export.go implements GET /journey/export.
// Returns the caller's journeys as a flat table with the latest score
// breakdown per journey. Supports content negotiation via ?format=csv (CSV)
// or default (JSON).
package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/greenmobilitypass/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"journey_id", "status", "detection_source",
	"place_departure", "place_arrival", "time_departure", "time_arrival",
	"distance_km", "duration_minutes", "transport_mode",
	"score", "base_score", "distance_bonus", "eco_bonus", "calculation_method",
}

// exportRowJSON is the JSON shape of one export row.
type exportRowJSON struct {
	JourneyID       string    `json:"journey_id"`
	Status          string    `json:"status"`
	DetectionSource string    `json:"detection_source"`
	PlaceDeparture  string    `json:"place_departure"`
	PlaceArrival    string    `json:"place_arrival"`
	TimeDeparture   time.Time `json:"time_departure"`
	TimeArrival     time.Time `json:"time_arrival"`
	DistanceKM      float64   `json:"distance_km"`
	DurationMinutes int       `json:"duration_minutes"`
	TransportMode   string    `json:"transport_mode"`

	Score             int    `json:"score"`
	BaseScore         int    `json:"base_score"`
	DistanceBonus     int    `json:"distance_bonus"`
	EcoBonus          int    `json:"eco_bonus"`
	CalculationMethod string `json:"calculation_method"`
}

// Export handles GET /journey/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	rows, err := s.export.Export(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}

	data := make([]exportRowJSON, len(rows))
	for i, row := range rows {
		data[i] = exportRowJSON{
			JourneyID:         row.JourneyID,
			Status:            string(row.Status),
			DetectionSource:   string(row.DetectionSource),
			PlaceDeparture:    row.PlaceDeparture,
			PlaceArrival:      row.PlaceArrival,
			TimeDeparture:     row.TimeDeparture,
			TimeArrival:       row.TimeArrival,
			DistanceKM:        row.DistanceKM,
			DurationMinutes:   row.DurationMinutes,
			TransportMode:     string(row.TransportMode),
			Score:             row.Score,
			BaseScore:         row.BaseScore,
			DistanceBonus:     row.DistanceBonus,
			EcoBonus:          row.EcoBonus,
			CalculationMethod: row.CalculationMethod,
		}
	}
	writeJSON(w, http.StatusOK, data)
}

// writeCSV streams the export as an attachment. Timestamps use RFC 3339 so
// spreadsheet tools parse them unambiguously.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="journeys.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write([]string{
			row.JourneyID,
			string(row.Status),
			string(row.DetectionSource),
			row.PlaceDeparture,
			row.PlaceArrival,
			row.TimeDeparture.Format(time.RFC3339),
			row.TimeArrival.Format(time.RFC3339),
			strconv.FormatFloat(row.DistanceKM, 'f', -1, 64),
			strconv.Itoa(row.DurationMinutes),
			string(row.TransportMode),
			strconv.Itoa(row.Score),
			strconv.Itoa(row.BaseScore),
			strconv.Itoa(row.DistanceBonus),
			strconv.Itoa(row.EcoBonus),
			row.CalculationMethod,
		})
	}
	cw.Flush()
}
