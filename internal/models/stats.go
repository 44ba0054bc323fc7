package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStats aggregates transactions initiated within a time range.
type TransactionStats struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Total       int             `json:"total" db:"total"`
	Committed   int             `json:"committed" db:"committed"`
	RolledBack  int             `json:"rolled_back" db:"rolled_back"`
	AvgRisk     float64         `json:"avg_risk" db:"avg_risk"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
}

// SuccessRate returns the committed percentage, 0 when there is nothing to count.
func (s TransactionStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Committed) * 100 / float64(s.Total)
}

// AccountFlow is the committed money movement of one account, used by the
// consistency check.
type AccountFlow struct {
	AccountID      int64           `db:"account_id"`
	Balance        decimal.Decimal `db:"balance"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	Incoming       decimal.Decimal `db:"incoming"`
	Outgoing       decimal.Decimal `db:"outgoing"`
}

// Expected returns the balance implied by the opening balance and committed flows.
func (f AccountFlow) Expected() decimal.Decimal {
	return f.OpeningBalance.Add(f.Incoming).Sub(f.Outgoing)
}
