package handlers

import (
	"context"
	"net/http"

	"github.com/nexsy/server/store"
)

type StatsStore interface {
	SiteStatistics(ctx context.Context) (*store.Statistics, error)
}

type StatisticsHandler struct {
	DB StatsStore
}

// Get returns the admin dashboard counters. GET /admin/statistics
func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.DB.SiteStatistics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
