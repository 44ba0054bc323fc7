package handlers

//go:generate mockgen -source=transfer.go -destination=mock_transfer_test.go -package=handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/middlewares"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
	"github.com/sbilibin2017/gw-transfer-engine/internal/services"
)

// TransferExecutor runs a transfer to completion.
type TransferExecutor interface {
	ExecuteTransfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, description string) (*models.Transaction, error)
}

// TransferReader looks transactions up by uuid.
type TransferReader interface {
	GetTransaction(ctx context.Context, txUUID string) (*models.Transaction, error)
}

// TransferLister lists transactions in one state.
type TransferLister interface {
	TransactionsByState(ctx context.Context, state models.TransactionState) ([]*models.Transaction, error)
}

// TransferRequest represents the JSON body of a transfer
// swagger:model TransferRequest
type TransferRequest struct {
	// Source account id
	// required: true
	// default: 1
	FromAccountID int64 `json:"from_account_id"`

	// Destination account id
	// required: true
	// default: 2
	ToAccountID int64 `json:"to_account_id"`

	// Amount to move, up to two decimal places
	// required: true
	// default: 100.00
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// Free-text description
	Description string `json:"description"`
}

// TransferResponse represents a transaction in a terminal or intermediate state
// swagger:model TransferResponse
type TransferResponse struct {
	Transaction models.TransactionSnapshot `json:"transaction"`

	// States visited by this request, in order
	History []models.TransactionState `json:"history,omitempty"`
}

// TransferListResponse represents a list of transactions
// swagger:model TransferListResponse
type TransferListResponse struct {
	Transactions []models.TransactionSnapshot `json:"transactions"`
}

func newTransferResponse(tx *models.Transaction) TransferResponse {
	return TransferResponse{
		Transaction: tx.Snapshot(),
		History:     tx.History(),
	}
}

// NewTransferHandler returns an HTTP handler that executes a transfer.
// @Summary Transfer funds
// @Description Moves money between two accounts atomically. Committed transfers return 200, transfers rejected by validation or risk checks return 422 with the rolled back transaction.
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body handlers.TransferRequest true "Transfer Request"
// @Success 200 {object} handlers.TransferResponse "Transfer committed"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body or amount with more than two decimal places"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 422 {object} handlers.TransferResponse "Transfer rolled back"
// @Failure 500 {object} handlers.TransferResponse "Infrastructure failure"
// @Failure 503 {object} handlers.ErrorResponse "Request cancelled while waiting for account locks"
// @Router /transfers [post]
// @Security BearerAuth
func NewTransferHandler(svc TransferExecutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode transfer request", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !services.HasCentPrecision(req.Amount) {
			writeError(w, http.StatusBadRequest, services.MsgAmountPrecision)
			return
		}

		tx, err := svc.ExecuteTransfer(ctx, req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
		if err != nil {
			logger.Log.Errorw("transfer failed",
				"operator", middlewares.OperatorFromContext(ctx),
				"from", req.FromAccountID,
				"to", req.ToAccountID,
				"amount", req.Amount.StringFixed(2),
				"error", err,
			)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				writeError(w, http.StatusServiceUnavailable, "Request cancelled")
				return
			}
			if tx == nil {
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			writeJSON(w, http.StatusInternalServerError, newTransferResponse(tx))
			return
		}

		logger.Log.Infow("transfer processed",
			"operator", middlewares.OperatorFromContext(ctx),
			"transaction_uuid", tx.UUID,
			"state", tx.State(),
		)

		status := http.StatusOK
		if !tx.IsSuccessful() {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, newTransferResponse(tx))
	}
}

// NewGetTransferHandler returns an HTTP handler that fetches a transaction.
// @Summary Get transfer
// @Description Returns the stored transaction with the given uuid
// @Tags transfers
// @Produce json
// @Param uuid path string true "Transaction uuid"
// @Success 200 {object} handlers.TransferResponse "Transaction"
// @Failure 400 {object} handlers.ErrorResponse "Invalid uuid"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Transaction not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transfers/{uuid} [get]
// @Security BearerAuth
func NewGetTransferHandler(svc TransferReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txUUID := chi.URLParam(r, "uuid")
		if err := uuid.Validate(txUUID); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid transaction uuid")
			return
		}

		tx, err := svc.GetTransaction(r.Context(), txUUID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, TransferResponse{Transaction: tx.Snapshot()})
	}
}

// NewListTransfersHandler returns an HTTP handler that lists transactions by state.
// @Summary List transfers
// @Description Returns up to 100 of the most recent transactions in the given state
// @Tags transfers
// @Produce json
// @Param state query string true "Transaction state" Enums(INIT, VALIDATED, RISK_CHECK, COMMITTED, ROLLED_BACK)
// @Success 200 {object} handlers.TransferListResponse "Transactions"
// @Failure 400 {object} handlers.ErrorResponse "Unknown state"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transfers [get]
// @Security BearerAuth
func NewListTransfersHandler(svc TransferLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := models.TransactionState(r.URL.Query().Get("state"))

		list, err := svc.TransactionsByState(r.Context(), state)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := TransferListResponse{Transactions: make([]models.TransactionSnapshot, 0, len(list))}
		for _, tx := range list {
			resp.Transactions = append(resp.Transactions, tx.Snapshot())
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
