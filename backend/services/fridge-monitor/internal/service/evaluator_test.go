package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/models"
)

var defaultThresholds = Thresholds{Temperature: 8, Humidity: 60.0}

func TestThresholdsBreachedIsStrict(t *testing.T) {
	cases := []struct {
		name   string
		temp   float64
		hum    float64
		breach bool
	}{
		{"both below", 7.99, 59.9, false},
		{"temperature equal", 8, 40, false},
		{"humidity equal", 5, 60.0, false},
		{"both equal", 8, 60, false},
		{"temperature just above", 8.01, 40, true},
		{"humidity just above", 5, 60.01, true},
		{"both above", 12, 80, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := defaultThresholds.Breached(models.Reading{Temperature: tc.temp, Humidity: tc.hum})
			if got != tc.breach {
				t.Fatalf("Breached(%v, %v) = %v, want %v", tc.temp, tc.hum, got, tc.breach)
			}
		})
	}
}

func TestFormatEntry(t *testing.T) {
	t0 := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	got := FormatEntry(models.AlertEntry{FridgeNo: 3, Temperature: 9.5, Humidity: 40.0, Timestamp: t0})
	want := "fridge 3, temperature 9.5, humidity 40.0, at 2026-10-18T09:30:00Z"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		40:     "40.0",
		9.5:    "9.5",
		-3:     "-3.0",
		8.01:   "8.01",
		0:      "0.0",
		12.345: "12.345",
	}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Fatalf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestEvaluatorScenarioSingleBreach(t *testing.T) {
	t0 := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	store := &fakeStore{readings: []models.Reading{{Temperature: 9.5, Humidity: 40.0, FridgeNo: 3, Timestamp: t0}}}
	notifier := &fakeNotifier{}
	eval := NewEvaluator(store, notifier, defaultThresholds, time.Minute, zap.NewNop())

	report, err := eval.Run(context.Background(), t0.Add(30*time.Second))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := t0.Add(-30 * time.Second); !store.lastSince.Equal(want) {
		t.Fatalf("expected since %s, got %s", want, store.lastSince)
	}
	if report.Scanned != 1 || report.Breaches != 1 || !report.Notified {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.messages))
	}
	want := "fridge 3, temperature 9.5, humidity 40.0, at 2026-10-18T09:30:00Z"
	if notifier.messages[0] != want {
		t.Fatalf("expected %q, got %q", want, notifier.messages[0])
	}
}

func TestEvaluatorBoundaryReadingIncluded(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	boundary := now.Add(-time.Minute)
	store := &fakeStore{readings: []models.Reading{
		{Temperature: 10, Humidity: 40, FridgeNo: 1, Timestamp: boundary},
		{Temperature: 10, Humidity: 40, FridgeNo: 2, Timestamp: boundary.Add(-time.Nanosecond)},
	}}
	notifier := &fakeNotifier{}
	eval := NewEvaluator(store, notifier, defaultThresholds, time.Minute, zap.NewNop())

	report, err := eval.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Breaches != 1 || !strings.HasPrefix(notifier.messages[0], "fridge 1,") {
		t.Fatalf("expected only the boundary reading, got %+v %q", report, notifier.messages)
	}
}

func TestEvaluatorThresholdEqualityNoAlert(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []models.Reading{{Temperature: 8, Humidity: 60.0, FridgeNo: 1, Timestamp: now}}}
	notifier := &fakeNotifier{}
	eval := NewEvaluator(store, notifier, defaultThresholds, time.Minute, zap.NewNop())

	report, err := eval.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Breaches != 0 || report.Notified || len(notifier.messages) != 0 {
		t.Fatalf("expected no alert, got %+v %v", report, notifier.messages)
	}
}

func TestEvaluatorJustAboveThresholdAlerts(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []models.Reading{{Temperature: 8.01, Humidity: 10, FridgeNo: 1, Timestamp: now}}}
	notifier := &fakeNotifier{}
	eval := NewEvaluator(store, notifier, defaultThresholds, time.Minute, zap.NewNop())

	if _, err := eval.Run(context.Background(), now); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.messages))
	}
}

func TestEvaluatorKeepsQueryOrder(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []models.Reading{
		{Temperature: 11, Humidity: 40, FridgeNo: 4, Timestamp: now.Add(-50 * time.Second)},
		{Temperature: 5, Humidity: 40, FridgeNo: 1, Timestamp: now.Add(-40 * time.Second)},
		{Temperature: 6, Humidity: 75, FridgeNo: 2, Timestamp: now.Add(-30 * time.Second)},
	}}
	notifier := &fakeNotifier{}
	eval := NewEvaluator(store, notifier, defaultThresholds, time.Minute, zap.NewNop())

	report, err := eval.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scanned != 3 || report.Breaches != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	lines := strings.Split(notifier.messages[0], "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), notifier.messages[0])
	}
	if !strings.HasPrefix(lines[0], "fridge 4,") || !strings.HasPrefix(lines[1], "fridge 2,") {
		t.Fatalf("unexpected order: %q", lines)
	}
}

func TestEvaluatorStorageError(t *testing.T) {
	cause := errors.New("db unreachable")
	notifier := &fakeNotifier{}
	eval := NewEvaluator(&fakeStore{listErr: cause}, notifier, defaultThresholds, time.Minute, zap.NewNop())

	_, err := eval.Run(context.Background(), time.Now())
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || !errors.Is(err, cause) {
		t.Fatalf("expected *StorageError wrapping cause, got %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatal("notifier must not be called after a store failure")
	}
}

func TestEvaluatorDeliveryErrorIsTyped(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []models.Reading{{Temperature: 20, Humidity: 40, FridgeNo: 9, Timestamp: now}}}
	notifier := &fakeNotifier{err: errors.New("webhook unreachable")}
	eval := NewEvaluator(store, notifier, defaultThresholds, time.Minute, zap.NewNop())

	report, err := eval.Run(context.Background(), now)
	var delivery *DeliveryError
	if !errors.As(err, &delivery) {
		t.Fatalf("expected *DeliveryError, got %T", err)
	}
	if report.Breaches != 1 || report.Notified {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(notifier.messages))
	}
}

func TestRenderAlertEmpty(t *testing.T) {
	if got := RenderAlert(&models.AlertBatch{}); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
	if got := RenderAlert(nil); got != "" {
		t.Fatalf("expected empty message for nil batch, got %q", got)
	}
}
