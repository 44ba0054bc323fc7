package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

const accountNumberPrefix = "FRT"

// DefaultDailyLimit applies when an account is created without one.
var DefaultDailyLimit = decimal.NewFromInt(100000)

// AccountService administers accounts.
type AccountService struct {
	locks    Locker
	accounts AccountStore
}

func NewAccountService(locks Locker, accounts AccountStore) *AccountService {
	return &AccountService{locks: locks, accounts: accounts}
}

// NewAccountNumber returns "FRT" followed by ten random digits.
func NewAccountNumber() string {
	return fmt.Sprintf("%s%010d", accountNumberPrefix, rand.Int64N(10_000_000_000))
}

// Create opens an ACTIVE, LOW risk account.
func (s *AccountService) Create(ctx context.Context, holder string, accountType models.AccountType, initialBalance, dailyLimit decimal.Decimal) (*models.Account, error) {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return nil, fmt.Errorf("%w: account holder is required", ErrInvalidArgument)
	}
	if accountType == "" {
		accountType = models.AccountTypeSavings
	}
	switch accountType {
	case models.AccountTypeSavings, models.AccountTypeCurrent, models.AccountTypeFixed:
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", ErrInvalidArgument, accountType)
	}
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", ErrInvalidArgument)
	}
	if dailyLimit.IsZero() {
		dailyLimit = DefaultDailyLimit
	}
	if dailyLimit.IsNegative() {
		return nil, fmt.Errorf("%w: daily limit must be positive", ErrInvalidArgument)
	}

	a := &models.Account{
		Number:     NewAccountNumber(),
		Holder:     holder,
		Type:       accountType,
		Balance:    initialBalance,
		Status:     models.AccountStatusActive,
		RiskLevel:  models.RiskLevelLow,
		DailyLimit: dailyLimit,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		logger.Log.Errorw("failed to create account", "holder", holder, "error", err)
		return nil, err
	}

	logger.Log.Infow("account created",
		"account_id", a.ID,
		"account_number", a.Number,
		"balance", a.Balance.StringFixed(2),
	)
	return a, nil
}

// Get returns ErrAccountNotFound when the account does not exist.
func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get account", "account_id", id, "error", err)
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// UpdateStatus freezes, closes or reactivates an account. It takes the
// account lock so the change never interleaves with a transfer.
func (s *AccountService) UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) (*models.Account, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}

	ctx, release, err := s.locks.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == status {
		return a, nil
	}

	if err := s.accounts.UpdateStatus(ctx, id, status); err != nil {
		logger.Log.Errorw("failed to update account status", "account_id", id, "status", status, "error", err)
		return nil, err
	}

	logger.Log.Infow("account status changed", "account_id", id, "from", a.Status, "to", status)
	a.Status = status
	return a, nil
}
