package handlers

//go:generate mockgen -source=account.go -destination=mock_account_test.go -package=handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/middlewares"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// AccountCreator opens accounts.
type AccountCreator interface {
	Create(ctx context.Context, holder string, accountType models.AccountType, initialBalance, dailyLimit decimal.Decimal) (*models.Account, error)
}

// AccountReader looks accounts up by id.
type AccountReader interface {
	Get(ctx context.Context, id int64) (*models.Account, error)
}

// AccountStatusUpdater changes the status of an account.
type AccountStatusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) (*models.Account, error)
}

// CreateAccountRequest represents the JSON body for opening an account
// swagger:model CreateAccountRequest
type CreateAccountRequest struct {
	// Account holder name
	// required: true
	// default: Jane Doe
	Holder string `json:"account_holder"`

	// Account type, SAVINGS when empty
	// default: SAVINGS
	Type models.AccountType `json:"account_type"`

	// Opening balance
	// default: 1000.00
	InitialBalance decimal.Decimal `json:"initial_balance" swaggertype:"string"`

	// Daily outgoing limit, 100000 when empty
	DailyLimit decimal.Decimal `json:"daily_limit" swaggertype:"string"`
}

// UpdateAccountStatusRequest represents the JSON body for a status change
// swagger:model UpdateAccountStatusRequest
type UpdateAccountStatusRequest struct {
	// New status
	// required: true
	// default: FROZEN
	Status models.AccountStatus `json:"status"`
}

// AccountResponse wraps an account
// swagger:model AccountResponse
type AccountResponse struct {
	Account *models.Account `json:"account"`
}

func accountIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// NewCreateAccountHandler returns an HTTP handler that opens an account.
// @Summary Open account
// @Description Creates an ACTIVE account with a generated account number
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body handlers.CreateAccountRequest true "Account Request"
// @Success 201 {object} handlers.AccountResponse "Account created"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /accounts [post]
// @Security BearerAuth
func NewCreateAccountHandler(svc AccountCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req CreateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode account request", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		account, err := svc.Create(ctx, req.Holder, req.Type, req.InitialBalance, req.DailyLimit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		logger.Log.Infow("account opened",
			"operator", middlewares.OperatorFromContext(ctx),
			"account_id", account.ID,
			"account_number", account.Number,
		)
		writeJSON(w, http.StatusCreated, AccountResponse{Account: account})
	}
}

// NewGetAccountHandler returns an HTTP handler that fetches an account.
// @Summary Get account
// @Tags accounts
// @Produce json
// @Param id path int true "Account id"
// @Success 200 {object} handlers.AccountResponse "Account"
// @Failure 400 {object} handlers.ErrorResponse "Invalid account id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Account not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /accounts/{id} [get]
// @Security BearerAuth
func NewGetAccountHandler(svc AccountReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid account id")
			return
		}

		account, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, AccountResponse{Account: account})
	}
}

// NewUpdateAccountStatusHandler returns an HTTP handler that freezes, closes or reactivates an account.
// @Summary Change account status
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path int true "Account id"
// @Param request body handlers.UpdateAccountStatusRequest true "Status Request"
// @Success 200 {object} handlers.AccountResponse "Account"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Account not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /accounts/{id}/status [put]
// @Security BearerAuth
func NewUpdateAccountStatusHandler(svc AccountStatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, ok := accountIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid account id")
			return
		}

		var req UpdateAccountStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode status request", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		account, err := svc.UpdateStatus(ctx, id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		logger.Log.Infow("account status updated",
			"operator", middlewares.OperatorFromContext(ctx),
			"account_id", id,
			"status", account.Status,
		)
		writeJSON(w, http.StatusOK, AccountResponse{Account: account})
	}
}
