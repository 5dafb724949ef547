package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes defines HTTP endpoints. Nil handlers are not registered.
type Routes struct {
	Readings      http.Handler
	LatestReading http.Handler
	AlertFeed     http.HandlerFunc
	Health        http.Handler
	Metrics       http.Handler
}

// NewRouter sets up HTTP routing.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Readings != nil {
		mux.Handle("/fridge-reading", instrument("/fridge-reading", method(http.MethodPost, routes.Readings.ServeHTTP)))
	}
	if routes.LatestReading != nil {
		mux.Handle("/readings/latest", instrument("/readings/latest", method(http.MethodGet, routes.LatestReading.ServeHTTP)))
	}
	if routes.AlertFeed != nil {
		mux.Handle("/alerts/ws", method(http.MethodGet, routes.AlertFeed))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health.ServeHTTP))
	}
	metricsHandler := routes.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	mux.Handle("/metrics", method(http.MethodGet, metricsHandler.ServeHTTP))
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
