package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"fridgewatch/backend/services/fridge-monitor/internal/models"
)

// readingPayload keeps raw fields so numbers sent as strings can be accepted
// and booleans, objects or nulls rejected.
type readingPayload struct {
	Temperature json.RawMessage `json:"temperature"`
	Humidity    json.RawMessage `json:"humidity"`
	FridgeNo    json.RawMessage `json:"fridgeNo"`
}

// ParseReading decodes an ingestion body of the form
// {"temperature": number, "humidity": number, "fridgeNo": integer}.
// Every failure is a *ValidationError. Any client supplied timestamp is
// ignored; the store stamps the reading on insert.
func ParseReading(body []byte) (models.Reading, error) {
	var payload readingPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Reading{}, &ValidationError{Reason: "malformed body"}
	}

	temperature, err := parseFloatField("temperature", payload.Temperature)
	if err != nil {
		return models.Reading{}, err
	}
	humidity, err := parseFloatField("humidity", payload.Humidity)
	if err != nil {
		return models.Reading{}, err
	}
	fridgeNo, err := parseIntField("fridgeNo", payload.FridgeNo)
	if err != nil {
		return models.Reading{}, err
	}

	return models.Reading{
		Temperature: temperature,
		Humidity:    humidity,
		FridgeNo:    fridgeNo,
	}, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// scalarText returns the textual value of a JSON number or string.
func scalarText(field string, raw json.RawMessage) (string, error) {
	if isAbsent(raw) {
		return "", &ValidationError{Field: field, Reason: "missing"}
	}
	trimmed := bytes.TrimSpace(raw)
	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", &ValidationError{Field: field, Reason: "malformed string"}
		}
		return strings.TrimSpace(s), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return string(trimmed), nil
	default:
		return "", &ValidationError{Field: field, Reason: "not a number"}
	}
}

func parseFloatField(field string, raw json.RawMessage) (float64, error) {
	text, err := scalarText(field, raw)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "not a number"}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ValidationError{Field: field, Reason: "not finite"}
	}
	return value, nil
}

func parseIntField(field string, raw json.RawMessage) (int64, error) {
	text, err := scalarText(field, raw)
	if err != nil {
		return 0, err
	}
	if value, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value, nil
	}
	// 3.0 and 3e0 are valid JSON spellings of an integer.
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value != math.Trunc(value) || math.Abs(value) > 1<<53 {
		return 0, &ValidationError{Field: field, Reason: "not an integer"}
	}
	return int64(value), nil
}

