package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestParseReadingAccepts(t *testing.T) {
	cases := []struct {
		name string
		body string
		temp float64
		hum  float64
		no   int64
	}{
		{"numbers", `{"temperature": 9.5, "humidity": 40.0, "fridgeNo": 3}`, 9.5, 40, 3},
		{"numeric strings", `{"temperature": "4.25", "humidity": " 55 ", "fridgeNo": "12"}`, 4.25, 55, 12},
		{"integral float fridge", `{"temperature": -2, "humidity": 0, "fridgeNo": 4.0}`, -2, 0, 4},
		{"exponent", `{"temperature": 1e1, "humidity": 3.5E1, "fridgeNo": 1e0}`, 10, 35, 1},
		{"extra fields ignored", `{"temperature": 1, "humidity": 2, "fridgeNo": 3, "note": "x"}`, 1, 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reading, err := ParseReading([]byte(tc.body))
			if err != nil {
				t.Fatalf("ParseReading: %v", err)
			}
			if reading.Temperature != tc.temp || reading.Humidity != tc.hum || reading.FridgeNo != tc.no {
				t.Fatalf("unexpected reading %+v", reading)
			}
			if !reading.Timestamp.IsZero() {
				t.Fatalf("expected zero timestamp, got %s", reading.Timestamp)
			}
		})
	}
}

func TestParseReadingIgnoresClientTimestamp(t *testing.T) {
	bodies := map[string]string{
		"backdated":    `{"temperature": 30, "humidity": 40, "fridgeNo": 1, "timestamp": "2020-01-01T00:00:00Z"}`,
		"future dated": `{"temperature": 30, "humidity": 40, "fridgeNo": 2, "timestamp": "2030-01-01T00:00:00Z"}`,
		"malformed":    `{"temperature": 30, "humidity": 40, "fridgeNo": 3, "timestamp": "yesterday"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			reading, err := ParseReading([]byte(body))
			if err != nil {
				t.Fatalf("ParseReading: %v", err)
			}
			if !reading.Timestamp.IsZero() {
				t.Fatalf("expected store to assign the timestamp, got %s", reading.Timestamp)
			}
		})
	}
}

// A client clock far off from the server must not move a reading out of, or
// into, every evaluation window.
func TestClientTimestampDoesNotShiftEvaluationWindow(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 10, 0, 30, 0, time.UTC)
	store := &fakeStore{assignTime: t0}
	svc := NewIngestService(store, nil, zap.NewNop())
	for _, body := range []string{
		`{"temperature": 30, "humidity": 40, "fridgeNo": 1, "timestamp": "2020-01-01T00:00:00Z"}`,
		`{"temperature": 30, "humidity": 40, "fridgeNo": 2, "timestamp": "2030-01-01T00:00:00Z"}`,
	} {
		reading, err := ParseReading([]byte(body))
		if err != nil {
			t.Fatalf("ParseReading: %v", err)
		}
		if _, err := svc.Record(context.Background(), reading); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	notifier := &fakeNotifier{}
	eval := NewEvaluator(store, notifier, Thresholds{Temperature: 8, Humidity: 60}, time.Minute, zap.NewNop())
	start := time.Date(2026, 2, 1, 10, 1, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := eval.Run(context.Background(), start.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("expected a single alert, got %d: %q", len(notifier.messages), notifier.messages)
	}
	want := "fridge 1, temperature 30.0, humidity 40.0, at 2026-02-01T10:00:30Z\n" +
		"fridge 2, temperature 30.0, humidity 40.0, at 2026-02-01T10:00:30Z"
	if notifier.messages[0] != want {
		t.Fatalf("unexpected alert %q", notifier.messages[0])
	}
}

func TestParseReadingRejects(t *testing.T) {
	cases := map[string]string{
		"empty body":          ``,
		"not json":            `temperature=5`,
		"array":               `[1,2,3]`,
		"null body":           `null`,
		"missing temperature": `{"humidity": 40, "fridgeNo": 1}`,
		"missing humidity":    `{"temperature": 4, "fridgeNo": 1}`,
		"missing fridge":      `{"temperature": 4, "humidity": 40}`,
		"null temperature":    `{"temperature": null, "humidity": 40, "fridgeNo": 1}`,
		"text temperature":    `{"temperature": "warm", "humidity": 40, "fridgeNo": 1}`,
		"bool humidity":       `{"temperature": 4, "humidity": true, "fridgeNo": 1}`,
		"object humidity":     `{"temperature": 4, "humidity": {"v": 1}, "fridgeNo": 1}`,
		"nan temperature":     `{"temperature": "NaN", "humidity": 40, "fridgeNo": 1}`,
		"inf humidity":        `{"temperature": 4, "humidity": "Inf", "fridgeNo": 1}`,
		"overflow":            `{"temperature": 1e400, "humidity": 40, "fridgeNo": 1}`,
		"fractional fridge":   `{"temperature": 4, "humidity": 40, "fridgeNo": 3.7}`,
		"text fridge":         `{"temperature": 4, "humidity": 40, "fridgeNo": "three"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseReading([]byte(body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidation(err) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
}
