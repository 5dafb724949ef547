package service

import (
	"context"
	"sync"
	"time"

	"fridgewatch/backend/services/fridge-monitor/internal/models"
)

type fakeStore struct {
	mu         sync.Mutex
	readings   []models.Reading
	insertErr  error
	listErr    error
	inserts    int
	lastSince  time.Time
	assignTime time.Time
}

func (f *fakeStore) Insert(_ context.Context, reading *models.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = f.assignTime
	}
	f.readings = append(f.readings, *reading)
	return nil
}

func (f *fakeStore) ListSince(_ context.Context, since time.Time) ([]models.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSince = since
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Reading, 0)
	for _, r := range f.readings {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeCache struct {
	saved []models.Reading
	err   error
}

func (f *fakeCache) Save(_ context.Context, reading models.Reading) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, reading)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return f.err
}
