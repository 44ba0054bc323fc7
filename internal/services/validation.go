package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// Validation failure messages.
const (
	MsgAccountsNotFound     = "One or both accounts not found"
	MsgSourceNotActive      = "Source account is not active"
	MsgDestinationNotActive = "Destination account is not active"
	MsgSameAccount          = "Cannot transfer to same account"
	MsgAmountNotPositive    = "Amount must be positive"
	MsgAmountPrecision      = "Amount must have at most two decimal places"
	MsgInsufficientBalance  = "Insufficient balance"
	MsgDailyLimitExceeded   = "Daily transfer limit exceeded"
)

// HasCentPrecision reports whether amount fits the ledger's two decimal places.
func HasCentPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

// ValidationError is a business rejection found while validating a transfer.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func rejected(reason string) error {
	return &ValidationError{Reason: reason}
}

// Validator checks a transfer against the current ledger.
type Validator struct {
	accounts     AccountStore
	transactions TransactionStore
	now          func() time.Time
}

func NewValidator(accounts AccountStore, transactions TransactionStore, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{accounts: accounts, transactions: transactions, now: now}
}

// Validate loads both accounts with row locks, in ascending id order, and runs
// the checks in order, stopping at the first failure. A failed check is
// returned as *ValidationError; any other error comes from the store.
// The loaded accounts are returned so the caller can apply the transfer.
func (v *Validator) Validate(ctx context.Context, tx *models.Transaction) (from, to *models.Account, err error) {
	from, to, err = v.load(ctx, tx.FromAccountID, tx.ToAccountID)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case from == nil || to == nil:
		return nil, nil, rejected(MsgAccountsNotFound)
	case !from.IsActive():
		return nil, nil, rejected(MsgSourceNotActive)
	case !to.IsActive():
		return nil, nil, rejected(MsgDestinationNotActive)
	case tx.FromAccountID == tx.ToAccountID:
		return nil, nil, rejected(MsgSameAccount)
	case !tx.Amount.IsPositive():
		return nil, nil, rejected(MsgAmountNotPositive)
	case !HasCentPrecision(tx.Amount):
		return nil, nil, rejected(MsgAmountPrecision)
	case !from.HasSufficientBalance(tx.Amount):
		return nil, nil, rejected(MsgInsufficientBalance)
	}

	spent, err := v.transactions.OutgoingTotalSince(ctx, from.ID, startOfDay(v.now()))
	if err != nil {
		return nil, nil, fmt.Errorf("daily outgoing total: %w", err)
	}
	if spent.Add(tx.Amount).GreaterThan(from.DailyLimit) {
		return nil, nil, rejected(MsgDailyLimitExceeded)
	}

	return from, to, nil
}

func (v *Validator) load(ctx context.Context, fromID, toID int64) (from, to *models.Account, err error) {
	if fromID == toID {
		a, err := v.accounts.GetForUpdate(ctx, fromID)
		if err != nil {
			return nil, nil, fmt.Errorf("load account %d: %w", fromID, err)
		}
		return a, a, nil
	}

	first, second := fromID, toID
	if first > second {
		first, second = second, first
	}
	a, err := v.accounts.GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, fmt.Errorf("load account %d: %w", first, err)
	}
	b, err := v.accounts.GetForUpdate(ctx, second)
	if err != nil {
		return nil, nil, fmt.Errorf("load account %d: %w", second, err)
	}
	if first == fromID {
		return a, b, nil
	}
	return b, a, nil
}
