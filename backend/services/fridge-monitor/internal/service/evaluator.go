package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/metrics"
	"fridgewatch/backend/services/fridge-monitor/internal/models"
)

// Notifier delivers a rendered alert message to an outward channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Thresholds are the upper safety limits. A value equal to a limit is safe.
type Thresholds struct {
	Temperature float64
	Humidity    float64
}

// Breached reports whether the reading strictly exceeds either limit.
func (t Thresholds) Breached(r models.Reading) bool {
	return r.Temperature > t.Temperature || r.Humidity > t.Humidity
}

// Report summarises one evaluation run.
type Report struct {
	Since    time.Time
	Scanned  int
	Breaches int
	Notified bool
}

// Evaluator scans the trailing window of readings and raises one alert per run.
type Evaluator struct {
	store      ReadingStore
	notifier   Notifier
	thresholds Thresholds
	window     time.Duration
	logger     *zap.Logger
}

// NewEvaluator returns evaluator. window should equal the schedule interval.
func NewEvaluator(store ReadingStore, notifier Notifier, thresholds Thresholds, window time.Duration, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		store:      store,
		notifier:   notifier,
		thresholds: thresholds,
		window:     window,
		logger:     logger,
	}
}

// Window returns the trailing interval each run scans.
func (e *Evaluator) Window() time.Duration {
	return e.window
}

// Run evaluates readings with Timestamp >= now-window. A store failure returns
// *StorageError and a failed notification returns *DeliveryError; the report is
// filled in as far as the run got.
func (e *Evaluator) Run(ctx context.Context, now time.Time) (Report, error) {
	report := Report{Since: now.Add(-e.window)}

	readings, err := e.store.ListSince(ctx, report.Since)
	if err != nil {
		metrics.EvaluationRuns.WithLabelValues("storage_error").Inc()
		return report, &StorageError{Op: "list", Err: err}
	}
	report.Scanned = len(readings)

	batch := Classify(readings, e.thresholds)
	report.Breaches = len(batch.Entries)
	metrics.BreachesDetected.Add(float64(report.Breaches))

	if batch.Empty() {
		metrics.EvaluationRuns.WithLabelValues("clear").Inc()
		e.logger.Info("no threshold breach detected",
			zap.Time("since", report.Since),
			zap.Int("scanned", report.Scanned),
		)
		return report, nil
	}

	message := RenderAlert(batch)
	if err := e.notifier.Notify(ctx, message); err != nil {
		metrics.EvaluationRuns.WithLabelValues("delivery_error").Inc()
		var delivery *DeliveryError
		if !errors.As(err, &delivery) {
			err = &DeliveryError{Channel: "notifier", Err: err}
		}
		return report, err
	}
	report.Notified = true

	metrics.EvaluationRuns.WithLabelValues("alerted").Inc()
	e.logger.Info("alert sent due to threshold breach",
		zap.Time("since", report.Since),
		zap.Int("scanned", report.Scanned),
		zap.Int("breaches", report.Breaches),
	)
	return report, nil
}

// Classify collects breaching readings in the order given.
func Classify(readings []models.Reading, thresholds Thresholds) *models.AlertBatch {
	batch := &models.AlertBatch{}
	for _, r := range readings {
		if !thresholds.Breached(r) {
			continue
		}
		batch.Entries = append(batch.Entries, models.AlertEntry{
			FridgeNo:    r.FridgeNo,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			Timestamp:   r.Timestamp,
		})
	}
	return batch
}

// RenderAlert turns a batch into one message, one line per breach.
func RenderAlert(batch *models.AlertBatch) string {
	if batch.Empty() {
		return ""
	}
	lines := make([]string, 0, len(batch.Entries))
	for _, entry := range batch.Entries {
		lines = append(lines, FormatEntry(entry))
	}
	return strings.Join(lines, "\n")
}

// FormatEntry renders "fridge 3, temperature 9.5, humidity 40.0, at 2026-01-02T03:04:05Z".
func FormatEntry(entry models.AlertEntry) string {
	return fmt.Sprintf("fridge %d, temperature %s, humidity %s, at %s",
		entry.FridgeNo,
		formatNumber(entry.Temperature),
		formatNumber(entry.Humidity),
		entry.Timestamp.UTC().Format(time.RFC3339),
	)
}

// formatNumber prints the shortest exact form but keeps one decimal place, so 40 reads "40.0".
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
