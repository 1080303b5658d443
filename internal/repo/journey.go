// Package repo contains all database access logic for the Green Mobility Pass
// backend. Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/greenmobilitypass/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// JourneyRepo defines the persistence operations for Journeys.
// GetByID and Delete are deliberately unscoped by user: the service layer
// resolves ownership itself so it can distinguish "not found" from
// "belongs to someone else".
type JourneyRepo interface {
	// Create inserts a new journey and returns the persisted record (with
	// DB-generated id and created_at populated).
	Create(ctx context.Context, journey domain.Journey) (domain.Journey, error)

	// GetByID retrieves a single journey by its UUID primary key.
	// Returns domain.ErrNotFound if no journey with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Journey, error)

	// ListByStatus returns the user's journeys with the given status,
	// ordered by time_departure descending.
	ListByStatus(ctx context.Context, userID uuid.UUID, status domain.JourneyStatus) ([]domain.Journey, error)

	// Update overwrites the mutable fields of an existing journey and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, journey domain.Journey) (domain.Journey, error)

	// Delete removes a journey by ID. Returns domain.ErrNotFound if it does
	// not exist. History rows go with it (ON DELETE CASCADE).
	Delete(ctx context.Context, id uuid.UUID) error

	// Statistics aggregates the user's validated journeys per transport mode.
	// Returns a zero-valued structure with a non-nil map when there are none.
	Statistics(ctx context.Context, userID uuid.UUID) (domain.UserStatistics, error)

	// Export returns one flat row per journey owned by the user, with the
	// latest score breakdown joined in, ordered by time_departure descending.
	Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

// pgJourneyRepo is the Postgres implementation of JourneyRepo.
type pgJourneyRepo struct {
	db db
}

// NewJourneyRepo constructs a JourneyRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewJourneyRepo(db db) JourneyRepo {
	return &pgJourneyRepo{db: db}
}

const journeyColumns = `id, user_id, status, detection_source,
		place_departure, place_arrival, time_departure, time_arrival,
		distance_km, duration_minutes, transport_type, score,
		original_place_departure, original_place_arrival, original_transport_type,
		created_at, validated_at, rejected_at`

// Create inserts a new journey row and returns the full persisted record.
func (r *pgJourneyRepo) Create(ctx context.Context, journey domain.Journey) (domain.Journey, error) {
	const q = `
		INSERT INTO journeys (user_id, status, detection_source,
			place_departure, place_arrival, time_departure, time_arrival,
			distance_km, duration_minutes, transport_type,
			created_at, validated_at)
		VALUES (@user_id, @status, @detection_source,
			@place_departure, @place_arrival, @time_departure, @time_arrival,
			@distance_km, @duration_minutes, @transport_type,
			@created_at, @validated_at)
		RETURNING ` + journeyColumns

	args := pgx.NamedArgs{
		"user_id":          journey.UserID,
		"status":           string(journey.Status),
		"detection_source": string(journey.DetectionSource),
		"place_departure":  journey.PlaceDeparture,
		"place_arrival":    journey.PlaceArrival,
		"time_departure":   journey.TimeDeparture,
		"time_arrival":     journey.TimeArrival,
		"distance_km":      journey.DistanceKM,
		"duration_minutes": journey.DurationMinutes,
		"transport_type":   string(journey.TransportMode),
		"created_at":       journey.CreatedAt,
		"validated_at":     journey.ValidatedAt, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanJourney(row)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a journey by primary key.
func (r *pgJourneyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Journey, error) {
	const q = `SELECT ` + journeyColumns + ` FROM journeys WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanJourney(row)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByStatus returns the user's journeys in the given status, most recent
// departure first.
func (r *pgJourneyRepo) ListByStatus(ctx context.Context, userID uuid.UUID, status domain.JourneyStatus) ([]domain.Journey, error) {
	const q = `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE user_id = @user_id AND status = @status
		ORDER BY time_departure DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID, "status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.ListByStatus: %w", err)
	}
	defer rows.Close()

	var journeys []domain.Journey
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.JourneyRepo.ListByStatus: scan: %w", err)
		}
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.ListByStatus: rows: %w", err)
	}

	return journeys, nil
}

// Update overwrites the mutable fields of a journey and returns the updated
// record. created_at and user_id are immutable and never touched.
func (r *pgJourneyRepo) Update(ctx context.Context, journey domain.Journey) (domain.Journey, error) {
	const q = `
		UPDATE journeys
		SET status                   = @status,
		    place_departure          = @place_departure,
		    place_arrival            = @place_arrival,
		    time_departure           = @time_departure,
		    time_arrival             = @time_arrival,
		    distance_km              = @distance_km,
		    duration_minutes         = @duration_minutes,
		    transport_type           = @transport_type,
		    original_place_departure = @original_place_departure,
		    original_place_arrival   = @original_place_arrival,
		    original_transport_type  = @original_transport_type,
		    validated_at             = @validated_at,
		    rejected_at              = @rejected_at
		WHERE id = @id
		RETURNING ` + journeyColumns

	args := pgx.NamedArgs{
		"id":                       journey.ID,
		"status":                   string(journey.Status),
		"place_departure":          journey.PlaceDeparture,
		"place_arrival":            journey.PlaceArrival,
		"time_departure":           journey.TimeDeparture,
		"time_arrival":             journey.TimeArrival,
		"distance_km":              journey.DistanceKM,
		"duration_minutes":         journey.DurationMinutes,
		"transport_type":           string(journey.TransportMode),
		"original_place_departure": journey.OriginalPlaceDeparture,
		"original_place_arrival":   journey.OriginalPlaceArrival,
		"original_transport_type":  modeToText(journey.OriginalTransportMode),
		"validated_at":             journey.ValidatedAt,
		"rejected_at":              journey.RejectedAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanJourney(row)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a journey by primary key.
func (r *pgJourneyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM journeys WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.JourneyRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.JourneyRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Statistics aggregates validated journeys per transport mode in a single
// grouped query and sums the totals in Go.
func (r *pgJourneyRepo) Statistics(ctx context.Context, userID uuid.UUID) (domain.UserStatistics, error) {
	const q = `
		SELECT transport_type,
		       COUNT(*),
		       COALESCE(SUM(distance_km), 0),
		       COALESCE(SUM(score), 0)
		FROM journeys
		WHERE user_id = @user_id AND status = 'validated'
		GROUP BY transport_type`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return domain.UserStatistics{}, fmt.Errorf("repo.JourneyRepo.Statistics: %w", err)
	}
	defer rows.Close()

	stats := domain.UserStatistics{ByTransport: map[domain.TransportMode]domain.TransportStats{}}
	for rows.Next() {
		var (
			mode  string
			count int
			km    float64
			score int64
		)
		if err := rows.Scan(&mode, &count, &km, &score); err != nil {
			return domain.UserStatistics{}, fmt.Errorf("repo.JourneyRepo.Statistics: scan: %w", err)
		}
		stats.ByTransport[domain.TransportMode(mode)] = domain.TransportStats{
			Journeys:   count,
			DistanceKM: km,
			Score:      int(score),
		}
		stats.TotalJourneys += count
		stats.TotalDistanceKM += km
		stats.TotalScore += int(score)
	}
	if err := rows.Err(); err != nil {
		return domain.UserStatistics{}, fmt.Errorf("repo.JourneyRepo.Statistics: rows: %w", err)
	}

	return stats, nil
}

// Export joins each journey with its most recent score_history row.
func (r *pgJourneyRepo) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	const q = `
		SELECT j.id, j.status, j.detection_source,
		       j.place_departure, j.place_arrival, j.time_departure, j.time_arrival,
		       j.distance_km, j.duration_minutes, j.transport_type,
		       COALESCE(h.score_value, 0), COALESCE(h.base_score, 0),
		       COALESCE(h.distance_bonus, 0), COALESCE(h.eco_bonus, 0),
		       COALESCE(h.calculation_method, '')
		FROM journeys j
		LEFT JOIN LATERAL (
			SELECT score_value, base_score, distance_bonus, eco_bonus, calculation_method
			FROM score_history
			WHERE journey_id = j.id
			ORDER BY calculated_at DESC
			LIMIT 1
		) h ON true
		WHERE j.user_id = @user_id
		ORDER BY j.time_departure DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.Export: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportRow
	for rows.Next() {
		var (
			row    domain.ExportRow
			id     pgtype.UUID
			status string
			source string
			mode   string
		)
		err := rows.Scan(&id, &status, &source,
			&row.PlaceDeparture, &row.PlaceArrival, &row.TimeDeparture, &row.TimeArrival,
			&row.DistanceKM, &row.DurationMinutes, &mode,
			&row.Score, &row.BaseScore, &row.DistanceBonus, &row.EcoBonus,
			&row.CalculationMethod)
		if err != nil {
			return nil, fmt.Errorf("repo.JourneyRepo.Export: scan: %w", err)
		}
		row.JourneyID = uuid.UUID(id.Bytes).String()
		row.Status = domain.JourneyStatus(status)
		row.DetectionSource = domain.DetectionSource(source)
		row.TransportMode = domain.TransportMode(mode)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.Export: rows: %w", err)
	}

	return out, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanJourney maps a single database row into a domain.Journey.
// It handles the UUID, enum, and nullable-column conversions.
func scanJourney(s scanner) (domain.Journey, error) {
	var (
		j            domain.Journey
		id           pgtype.UUID
		userID       pgtype.UUID
		status       string
		source       string
		mode         string
		score        pgtype.Int4
		origDep      pgtype.Text
		origArr      pgtype.Text
		origMode     pgtype.Text
		validatedAt  pgtype.Timestamptz
		rejectedAt   pgtype.Timestamptz
	)

	err := s.Scan(&id, &userID, &status, &source,
		&j.PlaceDeparture, &j.PlaceArrival, &j.TimeDeparture, &j.TimeArrival,
		&j.DistanceKM, &j.DurationMinutes, &mode, &score,
		&origDep, &origArr, &origMode,
		&j.CreatedAt, &validatedAt, &rejectedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Journey{}, domain.ErrNotFound
		}
		return domain.Journey{}, err
	}

	j.ID = uuid.UUID(id.Bytes)
	j.UserID = uuid.UUID(userID.Bytes)
	j.Status = domain.JourneyStatus(status)
	j.DetectionSource = domain.DetectionSource(source)
	j.TransportMode = domain.TransportMode(mode)
	if score.Valid {
		v := int(score.Int32)
		j.Score = &v
	}
	if origDep.Valid {
		j.OriginalPlaceDeparture = &origDep.String
	}
	if origArr.Valid {
		j.OriginalPlaceArrival = &origArr.String
	}
	if origMode.Valid {
		m := domain.TransportMode(origMode.String)
		j.OriginalTransportMode = &m
	}
	if validatedAt.Valid {
		t := validatedAt.Time
		j.ValidatedAt = &t
	}
	if rejectedAt.Valid {
		t := rejectedAt.Time
		j.RejectedAt = &t
	}

	return j, nil
}

// modeToText converts an optional transport mode to a nullable SQL text value.
func modeToText(m *domain.TransportMode) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}
