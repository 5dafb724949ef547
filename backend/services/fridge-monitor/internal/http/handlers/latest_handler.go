package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/models"
	redisstore "fridgewatch/backend/services/fridge-monitor/internal/redis"
)

// LatestReader looks up the most recent cached reading for a fridge.
type LatestReader interface {
	Get(ctx context.Context, fridgeNo int64) (*models.Reading, error)
}

// LatestHandler serves the cached latest reading per fridge.
type LatestHandler struct {
	reader LatestReader
	logger *zap.Logger
}

// NewLatestHandler returns handler.
func NewLatestHandler(reader LatestReader, logger *zap.Logger) *LatestHandler {
	return &LatestHandler{reader: reader, logger: logger}
}

// ServeHTTP handles GET /readings/latest?fridgeNo=N.
func (h *LatestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("fridgeNo"))
	fridgeNo, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fridgeNo must be an integer")
		return
	}

	reading, err := h.reader.Get(r.Context(), fridgeNo)
	if errors.Is(err, redisstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no reading cached for fridge")
		return
	}
	if err != nil {
		h.logger.Error("failed to read latest reading", zap.Int64("fridge_no", fridgeNo), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cache unavailable")
		return
	}
	writeJSON(w, http.StatusOK, reading)
}
