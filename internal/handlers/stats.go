package handlers

//go:generate mockgen -source=stats.go -destination=mock_stats_test.go -package=handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// StatsReader aggregates transactions over a time range.
type StatsReader interface {
	Stats(ctx context.Context, from, to time.Time) (*models.TransactionStats, error)
}

// StatsResponse represents transaction statistics
// swagger:model StatsResponse
type StatsResponse struct {
	Stats models.TransactionStats `json:"stats"`

	// Committed share of all transactions, in percent
	SuccessRate float64 `json:"success_rate"`
}

// NewStatsHandler returns an HTTP handler with transaction statistics.
// Without parameters it reports the current UTC day.
// @Summary Transaction statistics
// @Description Aggregates transactions initiated in [from, to). Both bounds are RFC3339; the default range is the current UTC day.
// @Tags transfers
// @Produce json
// @Param from query string false "Range start (RFC3339)"
// @Param to query string false "Range end (RFC3339)"
// @Success 200 {object} handlers.StatsResponse "Statistics"
// @Failure 400 {object} handlers.ErrorResponse "Invalid range"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /stats [get]
// @Security BearerAuth
func NewStatsHandler(svc StatsReader, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		t := now().UTC()
		from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)

		q := r.URL.Query()
		if v := q.Get("from"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid from parameter")
				return
			}
			from = parsed
		}
		if v := q.Get("to"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid to parameter")
				return
			}
			to = parsed
		}

		stats, err := svc.Stats(r.Context(), from, to)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, StatsResponse{
			Stats:       *stats,
			SuccessRate: stats.SuccessRate(),
		})
	}
}
