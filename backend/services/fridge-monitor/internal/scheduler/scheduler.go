package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/metrics"
	"fridgewatch/backend/services/fridge-monitor/internal/service"
)

// Runner is one evaluation pass.
type Runner interface {
	Run(ctx context.Context, now time.Time) (service.Report, error)
}

// Scheduler fires a Runner on a fixed interval. Each tick runs in its own
// goroutine, so a slow run never delays the next one. Runs may overlap.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger
	now        func() time.Time
	wg         sync.WaitGroup
}

// New returns scheduler.
func New(runner Runner, interval time.Duration, runOnStart bool, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runOnStart: runOnStart,
		logger:     logger,
		now:        time.Now,
	}
}

// Run ticks until ctx is done, then waits for in-flight runs.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.wg.Wait()

	s.logger.Info("evaluation scheduler started", zap.Duration("interval", s.interval))
	if s.runOnStart {
		s.dispatch(ctx, s.now())
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("evaluation scheduler stopping")
			return nil
		case tick := <-ticker.C:
			s.dispatch(ctx, tick)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, now time.Time) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx, now)
	}()
}

// RunOnce executes one evaluation and logs its outcome. It never returns an
// error or panics into the caller.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("evaluation run panicked", zap.Any("panic", r))
		}
		metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	}()

	logger.Info("check recent readings triggered", zap.Time("now", now.UTC()))
	report, err := s.runner.Run(ctx, now.UTC())
	if err == nil {
		return
	}

	fields := []zap.Field{
		zap.Time("since", report.Since),
		zap.Int("scanned", report.Scanned),
		zap.Int("breaches", report.Breaches),
		zap.Error(err),
	}
	var (
		storageErr  *service.StorageError
		deliveryErr *service.DeliveryError
	)
	switch {
	case errors.As(err, &storageErr):
		logger.Error("evaluation run aborted: storage error", fields...)
	case errors.As(err, &deliveryErr):
		logger.Error("evaluation run could not deliver alert", fields...)
	default:
		logger.Error("evaluation run failed", fields...)
	}
}
