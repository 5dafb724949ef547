package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fridgewatch/backend/services/fridge-monitor/internal/models"
)

// ReadingRepository persists fridge readings in the FridgeReadings table.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository returns repository.
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// EnsureSchema creates the readings table when it does not exist yet.
// The timestamp column is always quoted since TIMESTAMP is a type keyword.
func (r *ReadingRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS FridgeReadings (
			Temperature DOUBLE PRECISION NOT NULL,
			Humidity    DOUBLE PRECISION NOT NULL,
			FridgeNo    BIGINT NOT NULL,
			"timestamp" TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_fridgereadings_timestamp ON FridgeReadings ("timestamp");
	`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("repository: ensure schema: %w", err)
	}
	return nil
}

// Insert stores a reading. A zero Timestamp is filled in by the database and
// copied back into reading.
func (r *ReadingRepository) Insert(ctx context.Context, reading *models.Reading) error {
	const query = `
		INSERT INTO FridgeReadings (Temperature, Humidity, FridgeNo, "timestamp")
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		RETURNING "timestamp"
	`
	var ts sql.NullTime
	if !reading.Timestamp.IsZero() {
		ts = sql.NullTime{Time: reading.Timestamp.UTC(), Valid: true}
	}

	var stored time.Time
	err := r.db.QueryRowContext(ctx, query,
		reading.Temperature,
		reading.Humidity,
		reading.FridgeNo,
		ts,
	).Scan(&stored)
	if err != nil {
		return fmt.Errorf("repository: insert reading: %w", err)
	}
	reading.Timestamp = stored.UTC()
	return nil
}

// ListSince returns every reading with Timestamp >= since.
func (r *ReadingRepository) ListSince(ctx context.Context, since time.Time) ([]models.Reading, error) {
	const query = `
		SELECT Temperature, Humidity, FridgeNo, "timestamp"
		FROM FridgeReadings
		WHERE "timestamp" >= $1
		ORDER BY "timestamp"
	`
	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("repository: list readings: %w", err)
	}
	defer rows.Close()

	readings := make([]models.Reading, 0)
	for rows.Next() {
		var reading models.Reading
		if err := rows.Scan(&reading.Temperature, &reading.Humidity, &reading.FridgeNo, &reading.Timestamp); err != nil {
			return nil, fmt.Errorf("repository: scan reading: %w", err)
		}
		reading.Timestamp = reading.Timestamp.UTC()
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate readings: %w", err)
	}
	return readings, nil
}
