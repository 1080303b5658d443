package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/repo"
)

// ExportService assembles a flat export of a user's journeys with their
// latest score breakdowns.
type ExportService struct {
	journeys repo.JourneyRepo
}

// NewExportService constructs an ExportService backed by the provided JourneyRepo.
func NewExportService(journeys repo.JourneyRepo) *ExportService {
	return &ExportService{journeys: journeys}
}

// Export returns one ExportRow per journey owned by the user, most recent
// departure first. Journeys that have never been scored carry zero values in
// the score columns.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	rows, err := s.journeys.Export(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if rows == nil {
		return []domain.ExportRow{}, nil
	}
	return rows, nil
}
