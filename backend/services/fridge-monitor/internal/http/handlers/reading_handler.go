package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/metrics"
	"fridgewatch/backend/services/fridge-monitor/internal/models"
	"fridgewatch/backend/services/fridge-monitor/internal/service"
)

const (
	msgRecorded     = "Data recorded successfully."
	msgInvalid      = "Invalid temperature or humidity data."
	msgStorageError = "Database error."

	maxReadingBody = 64 * 1024
)

// ReadingRecorder persists a validated reading.
type ReadingRecorder interface {
	Record(ctx context.Context, reading models.Reading) (models.Reading, error)
}

// ReadingHandler handles fridge telemetry submissions.
type ReadingHandler struct {
	recorder ReadingRecorder
	logger   *zap.Logger
}

// NewReadingHandler returns handler.
func NewReadingHandler(recorder ReadingRecorder, logger *zap.Logger) *ReadingHandler {
	return &ReadingHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// ServeHTTP handles POST /fridge-reading.
func (h *ReadingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("fridge reading triggered", zap.String("remote_addr", r.RemoteAddr))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReadingBody))
	if err != nil {
		metrics.ReadingsIngested.WithLabelValues("invalid").Inc()
		writeText(w, http.StatusBadRequest, msgInvalid)
		return
	}

	reading, err := service.ParseReading(body)
	if err != nil {
		metrics.ReadingsIngested.WithLabelValues("invalid").Inc()
		h.logger.Debug("rejected fridge reading", zap.Error(err))
		writeText(w, http.StatusBadRequest, msgInvalid)
		return
	}

	if _, err := h.recorder.Record(r.Context(), reading); err != nil {
		metrics.ReadingsIngested.WithLabelValues("storage_error").Inc()
		var storageErr *service.StorageError
		if errors.As(err, &storageErr) {
			h.logger.Error("database error",
				zap.String("op", storageErr.Op),
				zap.Int64("fridge_no", reading.FridgeNo),
				zap.Error(storageErr.Err),
			)
		} else {
			h.logger.Error("failed to record reading", zap.Int64("fridge_no", reading.FridgeNo), zap.Error(err))
		}
		writeText(w, http.StatusInternalServerError, msgStorageError)
		return
	}

	metrics.ReadingsIngested.WithLabelValues("recorded").Inc()
	writeText(w, http.StatusOK, msgRecorded)
}
