package handlers

//go:generate mockgen -source=maintenance.go -destination=mock_maintenance_test.go -package=handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/middlewares"
	"github.com/sbilibin2017/gw-transfer-engine/internal/services"
	"github.com/sbilibin2017/gw-transfer-engine/internal/wal"
)

// Checkpointer writes WAL checkpoints.
type Checkpointer interface {
	CreateCheckpoint(ctx context.Context) error
}

// LogArchiver rotates the WAL.
type LogArchiver interface {
	ArchiveLogs(ctx context.Context) (string, error)
}

// ConsistencyVerifier audits the ledger.
type ConsistencyVerifier interface {
	VerifyConsistency(ctx context.Context) (*services.ConsistencyReport, error)
}

// MessageResponse represents a plain success message
// swagger:model MessageResponse
type MessageResponse struct {
	// default: Checkpoint created
	Message string `json:"message"`
}

// ArchiveResponse represents an archived WAL segment
// swagger:model ArchiveResponse
type ArchiveResponse struct {
	// Path of the archived segment
	Path string `json:"path"`
}

// NewCheckpointHandler returns an HTTP handler that writes a WAL checkpoint.
// @Summary Create WAL checkpoint
// @Tags maintenance
// @Produce json
// @Success 200 {object} handlers.MessageResponse "Checkpoint created"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /wal/checkpoint [post]
// @Security BearerAuth
func NewCheckpointHandler(svc Checkpointer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.CreateCheckpoint(ctx); err != nil {
			writeServiceError(w, err)
			return
		}
		logger.Log.Infow("checkpoint created", "operator", middlewares.OperatorFromContext(ctx))
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Checkpoint created"})
	}
}

// NewArchiveHandler returns an HTTP handler that archives the WAL.
// @Summary Archive WAL
// @Description Renames the active WAL to a timestamped segment and starts a new one. Refused while transfers are in flight.
// @Tags maintenance
// @Produce json
// @Success 200 {object} handlers.ArchiveResponse "Archived"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 409 {object} handlers.ErrorResponse "Transfers in flight"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /wal/archive [post]
// @Security BearerAuth
func NewArchiveHandler(svc LogArchiver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		path, err := svc.ArchiveLogs(ctx)
		if errors.Is(err, wal.ErrInFlight) {
			writeError(w, http.StatusConflict, "Transfers in flight, retry later")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		logger.Log.Infow("wal archived", "operator", middlewares.OperatorFromContext(ctx), "path", path)
		writeJSON(w, http.StatusOK, ArchiveResponse{Path: path})
	}
}

// NewConsistencyHandler returns an HTTP handler that audits the ledger.
// An inconsistent ledger is still a 200; the report says what is wrong.
// @Summary Verify ledger consistency
// @Tags maintenance
// @Produce json
// @Success 200 {object} services.ConsistencyReport "Consistency report"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /consistency [get]
// @Security BearerAuth
func NewConsistencyHandler(svc ConsistencyVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.VerifyConsistency(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
