package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/greenmobilitypass/backend/internal/domain"
)

// txdb extends db with the ability to open a transaction. It is satisfied by
// *pgxpool.Pool and by pgx.Tx (where Begin opens a nested transaction backed
// by a savepoint — which is what makes rollback-isolated integration tests
// work unchanged against this repo).
type txdb interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ScoreRepo defines the persistence operations for score records.
// The history table is append-only: there are no update or delete operations,
// and none may be added — it is the audit trail.
type ScoreRepo interface {
	// Apply atomically writes entry.ScoreValue onto the journey's score
	// column and inserts the history row. Both writes commit together or not
	// at all. Returns domain.ErrNotFound if the journey does not exist.
	Apply(ctx context.Context, entry domain.ScoreHistory) (domain.ScoreHistory, error)

	// ListByJourney returns all score records for a journey, newest first.
	ListByJourney(ctx context.Context, journeyID uuid.UUID) ([]domain.ScoreHistory, error)
}

// pgScoreRepo is the Postgres implementation of ScoreRepo.
type pgScoreRepo struct {
	db txdb
}

// NewScoreRepo constructs a ScoreRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewScoreRepo(db txdb) ScoreRepo {
	return &pgScoreRepo{db: db}
}

// Apply runs the journey score update and the history insert in a single
// transaction. A failure after the first write rolls back both.
func (r *pgScoreRepo) Apply(ctx context.Context, entry domain.ScoreHistory) (domain.ScoreHistory, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.ScoreHistory{}, fmt.Errorf("repo.ScoreRepo.Apply: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — no-op after commit

	const updateQ = `UPDATE journeys SET score = @score WHERE id = @journey_id`
	tag, err := tx.Exec(ctx, updateQ, pgx.NamedArgs{
		"score":      entry.ScoreValue,
		"journey_id": entry.JourneyID,
	})
	if err != nil {
		return domain.ScoreHistory{}, fmt.Errorf("repo.ScoreRepo.Apply: update journey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ScoreHistory{}, fmt.Errorf("repo.ScoreRepo.Apply: %w", domain.ErrNotFound)
	}

	const insertQ = `
		INSERT INTO score_history (journey_id, score_value, base_score,
			distance_bonus, eco_bonus, calculation_method,
			transport_type, distance_km, calculated_at)
		VALUES (@journey_id, @score_value, @base_score,
			@distance_bonus, @eco_bonus, @calculation_method,
			@transport_type, @distance_km, @calculated_at)
		RETURNING id`

	args := pgx.NamedArgs{
		"journey_id":         entry.JourneyID,
		"score_value":        entry.ScoreValue,
		"base_score":         entry.BaseScore,
		"distance_bonus":     entry.DistanceBonus,
		"eco_bonus":          entry.EcoBonus,
		"calculation_method": entry.CalculationMethod,
		"transport_type":     string(entry.TransportMode),
		"distance_km":        entry.DistanceKM,
		"calculated_at":      entry.CalculatedAt,
	}

	var id pgtype.UUID
	if err := tx.QueryRow(ctx, insertQ, args).Scan(&id); err != nil {
		return domain.ScoreHistory{}, fmt.Errorf("repo.ScoreRepo.Apply: insert history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ScoreHistory{}, fmt.Errorf("repo.ScoreRepo.Apply: commit: %w", err)
	}

	entry.ID = uuid.UUID(id.Bytes)
	return entry, nil
}

// ListByJourney returns the journey's score records, newest first.
func (r *pgScoreRepo) ListByJourney(ctx context.Context, journeyID uuid.UUID) ([]domain.ScoreHistory, error) {
	const q = `
		SELECT id, journey_id, score_value, base_score, distance_bonus,
		       eco_bonus, calculation_method, transport_type, distance_km,
		       calculated_at
		FROM score_history
		WHERE journey_id = @journey_id
		ORDER BY calculated_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"journey_id": journeyID})
	if err != nil {
		return nil, fmt.Errorf("repo.ScoreRepo.ListByJourney: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScoreHistory
	for rows.Next() {
		e, err := scanScoreHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ScoreRepo.ListByJourney: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ScoreRepo.ListByJourney: rows: %w", err)
	}

	return entries, nil
}

// scanScoreHistory maps a single database row into a domain.ScoreHistory.
func scanScoreHistory(s scanner) (domain.ScoreHistory, error) {
	var (
		e         domain.ScoreHistory
		id        pgtype.UUID
		journeyID pgtype.UUID
		mode      string
	)

	err := s.Scan(&id, &journeyID, &e.ScoreValue, &e.BaseScore, &e.DistanceBonus,
		&e.EcoBonus, &e.CalculationMethod, &mode, &e.DistanceKM, &e.CalculatedAt)
	if err != nil {
		return domain.ScoreHistory{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.JourneyID = uuid.UUID(journeyID.Bytes)
	e.TransportMode = domain.TransportMode(mode)

	return e, nil
}
