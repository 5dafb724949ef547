package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/models"
)

// ReadingStore is the durable, insert-only readings table.
type ReadingStore interface {
	Insert(ctx context.Context, reading *models.Reading) error
	ListSince(ctx context.Context, since time.Time) ([]models.Reading, error)
}

// LatestCache remembers the most recent reading per fridge.
type LatestCache interface {
	Save(ctx context.Context, reading models.Reading) error
}

// IngestService writes validated readings to the store.
type IngestService struct {
	store  ReadingStore
	cache  LatestCache
	logger *zap.Logger
}

// NewIngestService returns service instance. cache may be nil.
func NewIngestService(store ReadingStore, cache LatestCache, logger *zap.Logger) *IngestService {
	return &IngestService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Record inserts one reading and returns it with the stored timestamp.
// Store failures come back as *StorageError and are not retried.
func (s *IngestService) Record(ctx context.Context, reading models.Reading) (models.Reading, error) {
	if err := s.store.Insert(ctx, &reading); err != nil {
		return models.Reading{}, &StorageError{Op: "insert", Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, reading); err != nil {
			s.logger.Warn("failed to cache latest reading",
				zap.Int64("fridge_no", reading.FridgeNo),
				zap.Error(err),
			)
		}
	}

	s.logger.Debug("reading recorded",
		zap.Int64("fridge_no", reading.FridgeNo),
		zap.Float64("temperature", reading.Temperature),
		zap.Float64("humidity", reading.Humidity),
		zap.Time("timestamp", reading.Timestamp),
	)
	return reading, nil
}
