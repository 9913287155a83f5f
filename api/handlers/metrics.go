package handlers

import (
	"net/http"

	"github.com/linesmerrill/lexmatch-api/api"
)

// Metrics exported for testing purposes
type Metrics struct {
	Collector *api.MetricsCollector
}

// MetricsHandler returns request and analysis stats since start
func (m Metrics) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.Collector.Summary())
}
