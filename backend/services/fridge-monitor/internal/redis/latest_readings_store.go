package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fridgewatch/backend/services/fridge-monitor/internal/models"
)

// ErrNotFound is returned when no reading is cached for a fridge.
var ErrNotFound = errors.New("redisstore: reading not found")

// LatestStore caches the most recent reading per fridge.
type LatestStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLatestStore returns redis-backed store. ttl <= 0 keeps keys forever.
func NewLatestStore(client *redis.Client, ttl time.Duration) *LatestStore {
	if ttl < 0 {
		ttl = 0
	}
	return &LatestStore{client: client, ttl: ttl}
}

func (s *LatestStore) key(fridgeNo int64) string {
	return fmt.Sprintf("fridges:latest:%d", fridgeNo)
}

// maxSaveAttempts bounds optimistic retries when concurrent saves race on a key.
const maxSaveAttempts = 10

// Save caches the reading unless a newer one is already stored. The compare
// and the write run under WATCH on the fridge key.
func (s *LatestStore) Save(ctx context.Context, reading models.Reading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return err
	}
	key := s.key(reading.FridgeNo)

	compareAndSet := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var current models.Reading
			if json.Unmarshal(raw, &current) == nil && current.Timestamp.After(reading.Timestamp) {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		err = s.client.Watch(ctx, compareAndSet, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redisstore: save fridge %d: %w", reading.FridgeNo, err)
}

// Get returns the cached reading for fridgeNo.
func (s *LatestStore) Get(ctx context.Context, fridgeNo int64) (*models.Reading, error) {
	result, err := s.client.Get(ctx, s.key(fridgeNo)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var reading models.Reading
	if err := json.Unmarshal([]byte(result), &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}
