package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance is returned by Debit when the account cannot cover the amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// AccountType is the product kind of an account.
type AccountType string

const (
	AccountTypeSavings AccountType = "SAVINGS"
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeFixed   AccountType = "FIXED"
)

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusFrozen, AccountStatusClosed:
		return true
	}
	return false
}

// RiskLevel classifies a risk score or an account's rolling risk.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Account is a row of the accounts table.
//
// Balance, Status, RiskLevel and LastTransactionAt may only be changed while the
// account lock (or the database row lock) is held. The remaining fields never
// change after creation.
type Account struct {
	ID                int64           `json:"account_id" db:"account_id"`
	Number            string          `json:"account_number" db:"account_number"`
	Holder            string          `json:"account_holder" db:"account_holder"`
	Type              AccountType     `json:"account_type" db:"account_type"`
	Balance           decimal.Decimal `json:"balance" db:"balance"`
	OpeningBalance    decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	Status            AccountStatus   `json:"status" db:"status"`
	RiskLevel         RiskLevel       `json:"risk_level" db:"risk_level"`
	DailyLimit        decimal.Decimal `json:"daily_limit" db:"daily_limit"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	LastTransactionAt *time.Time      `json:"last_transaction_at,omitempty" db:"last_transaction_at"`
}

// IsActive reports whether the account can send or receive money.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// HasSufficientBalance reports whether balance >= amount.
func (a *Account) HasSufficientBalance(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Debit subtracts amount from the balance. The balance is left untouched when
// it cannot cover the amount.
func (a *Account) Debit(amount decimal.Decimal, at time.Time) error {
	if !a.HasSufficientBalance(amount) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	a.LastTransactionAt = &at
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal, at time.Time) {
	a.Balance = a.Balance.Add(amount)
	a.LastTransactionAt = &at
}

// AgeInDays returns the number of whole days between creation and now.
func (a *Account) AgeInDays(now time.Time) int {
	if now.Before(a.CreatedAt) {
		return 0
	}
	return int(now.Sub(a.CreatedAt) / (24 * time.Hour))
}
