package simulator

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"fridgewatch/backend/libs/httpclient"
)

// Config controls a simulation run.
type Config struct {
	URL            string
	Fridges        int
	Duration       time.Duration
	Interval       time.Duration
	FaultyFridge   int64
	FaultyDelay    time.Duration
	FaultyInterval time.Duration
	Faulty         bool
}

// DefaultConfig mirrors the reference load profile: one healthy fridge every 10s
// and fridge 4 running warm every 30s after a 30s delay, for one minute.
func DefaultConfig() Config {
	return Config{
		Fridges:        1,
		Duration:       time.Minute,
		Interval:       10 * time.Second,
		FaultyFridge:   4,
		FaultyDelay:    30 * time.Second,
		FaultyInterval: 30 * time.Second,
		Faulty:         true,
	}
}

// Validate checks the config before a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("simulator: ingestion url is required")
	}
	if c.Fridges < 0 {
		return errors.New("simulator: fridges must not be negative")
	}
	if c.Duration <= 0 || c.Interval <= 0 {
		return errors.New("simulator: duration and interval must be positive")
	}
	if c.Faulty && c.FaultyInterval <= 0 {
		return errors.New("simulator: faulty interval must be positive")
	}
	return nil
}

// Payload is the ingestion request body.
type Payload struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	FridgeNo    int64   `json:"fridgeNo"`
}

// Summary counts what a run sent.
type Summary struct {
	Sent   int64
	Failed int64
}

type band struct{ lo, hi float64 }

var (
	normalTemperature = band{2, 8}
	faultyTemperature = band{8, 12}
	normalHumidity    = band{30, 55}
)

// Simulator posts synthetic readings to the ingestion endpoint.
type Simulator struct {
	cfg    Config
	client *httpclient.Client
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand

	sent   atomic.Int64
	failed atomic.Int64
}

// New returns simulator. rng may be nil.
func New(cfg Config, client *httpclient.Client, rng *rand.Rand, logger *zap.Logger) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Simulator{cfg: cfg, client: client, rng: rng, logger: logger}
}

// Run drives all fridges until cfg.Duration elapses or ctx is done.
func (s *Simulator) Run(ctx context.Context) (Summary, error) {
	if err := s.cfg.Validate(); err != nil {
		return Summary{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Fridges; i++ {
		fridgeNo := int64(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, fridgeNo, 0, s.cfg.Interval, normalTemperature)
		}()
	}
	if s.cfg.Faulty {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, s.cfg.FaultyFridge, s.cfg.FaultyDelay, s.cfg.FaultyInterval, faultyTemperature)
		}()
	}
	wg.Wait()

	summary := Summary{Sent: s.sent.Load(), Failed: s.failed.Load()}
	s.logger.Info("simulation finished", zap.Int64("sent", summary.Sent), zap.Int64("failed", summary.Failed))
	return summary, nil
}

func (s *Simulator) loop(ctx context.Context, fridgeNo int64, delay, interval time.Duration, temp band) {
	if delay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		s.send(ctx, s.generate(fridgeNo, temp))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Simulator) generate(fridgeNo int64, temp band) Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Payload{
		Temperature: round2(temp.lo + s.rng.Float64()*(temp.hi-temp.lo)),
		Humidity:    round2(normalHumidity.lo + s.rng.Float64()*(normalHumidity.hi-normalHumidity.lo)),
		FridgeNo:    fridgeNo,
	}
}

func (s *Simulator) send(ctx context.Context, payload Payload) {
	resp, err := s.client.PostJSON(ctx, s.cfg.URL, payload)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.failed.Add(1)
		s.logger.Warn("error while sending data", zap.Int64("fridge_no", payload.FridgeNo), zap.Error(err))
		return
	}
	if resp.StatusCode != http.StatusOK {
		s.failed.Add(1)
		s.logger.Warn("failed to send data",
			zap.Int64("fridge_no", payload.FridgeNo),
			zap.Int("status", resp.StatusCode),
		)
		return
	}
	s.sent.Add(1)
	s.logger.Info("data sent successfully",
		zap.Int64("fridge_no", payload.FridgeNo),
		zap.Float64("temperature", payload.Temperature),
		zap.Float64("humidity", payload.Humidity),
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
