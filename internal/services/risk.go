package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// RiskConfig holds the risk engine thresholds.
type RiskConfig struct {
	HighAmountThreshold    decimal.Decimal
	MaxTransactionsPerHour int
	VelocityWindow         time.Duration
	// HistoryWindow bounds the transactions averaged into an account's risk level.
	HistoryWindow time.Duration
}

// DefaultRiskConfig returns the production thresholds.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		HighAmountThreshold:    decimal.NewFromInt(50000),
		MaxTransactionsPerHour: 10,
		VelocityWindow:         60 * time.Minute,
		HistoryWindow:          30 * 24 * time.Hour,
	}
}

var (
	errMissingAccount = errors.New("account not found")
	errZeroBalance    = errors.New("source balance is zero")
)

// RiskEngine scores transfers and maintains account risk levels.
type RiskEngine struct {
	accounts     AccountStore
	transactions TransactionStore
	cfg          RiskConfig
	now          func() time.Time
}

func NewRiskEngine(accounts AccountStore, transactions TransactionStore, cfg RiskConfig, now func() time.Time) *RiskEngine {
	if now == nil {
		now = time.Now
	}
	return &RiskEngine{accounts: accounts, transactions: transactions, cfg: cfg, now: now}
}

// Evaluate scores tx. It never fails: when any input cannot be read the
// maximum score is returned so the transfer is rolled back.
func (e *RiskEngine) Evaluate(ctx context.Context, tx *models.Transaction) models.RiskScore {
	score, err := e.evaluate(ctx, tx)
	if err != nil {
		logger.Log.Warnw("risk evaluation failed, using fail-safe score",
			"transaction_uuid", tx.UUID,
			"error", err,
		)
		return models.FailSafeRiskScore()
	}
	return score
}

func (e *RiskEngine) evaluate(ctx context.Context, tx *models.Transaction) (models.RiskScore, error) {
	from, err := e.accounts.GetByID(ctx, tx.FromAccountID)
	if err != nil {
		return models.RiskScore{}, fmt.Errorf("load source account: %w", err)
	}
	to, err := e.accounts.GetByID(ctx, tx.ToAccountID)
	if err != nil {
		return models.RiskScore{}, fmt.Errorf("load destination account: %w", err)
	}
	if from == nil || to == nil {
		return models.RiskScore{}, errMissingAccount
	}

	now := e.now()

	amount, err := e.amountFactor(tx.Amount, from.Balance)
	if err != nil {
		return models.RiskScore{}, err
	}

	today, err := e.transactions.CountOutgoingSince(ctx, from.ID, startOfDay(now))
	if err != nil {
		return models.RiskScore{}, fmt.Errorf("count today's transfers: %w", err)
	}

	recent, err := e.transactions.CountOutgoingSince(ctx, from.ID, now.Add(-e.cfg.VelocityWindow))
	if err != nil {
		return models.RiskScore{}, fmt.Errorf("count recent transfers: %w", err)
	}

	return models.NewRiskScore(
		models.RiskFactor{Name: models.FactorAmount, Score: amount},
		models.RiskFactor{Name: models.FactorFrequency, Score: frequencyFactor(today)},
		models.RiskFactor{Name: models.FactorAccountAge, Score: accountAgeFactor(from.AgeInDays(now))},
		models.RiskFactor{Name: models.FactorVelocity, Score: e.velocityFactor(recent)},
		models.RiskFactor{Name: models.FactorStatus, Score: statusFactor(from, to)},
	), nil
}

// amountFactor scores 0..30. Above the high value threshold the score is 30;
// otherwise it depends on the share of the balance being moved, rounded to
// two decimals before scaling to percent.
func (e *RiskEngine) amountFactor(amount, balance decimal.Decimal) (int, error) {
	if amount.GreaterThan(e.cfg.HighAmountThreshold) {
		return 30, nil
	}
	if balance.IsZero() {
		return 0, errZeroBalance
	}

	pct := amount.DivRound(balance, 2).Mul(decimal.NewFromInt(100))
	switch {
	case pct.GreaterThan(decimal.NewFromInt(80)):
		return 25, nil
	case pct.GreaterThan(decimal.NewFromInt(50)):
		return 15, nil
	case pct.GreaterThan(decimal.NewFromInt(25)):
		return 8, nil
	}
	return 0, nil
}

// frequencyFactor scores 0..25 from the number of committed transfers today.
func frequencyFactor(today int) int {
	switch {
	case today > 20:
		return 25
	case today > 10:
		return 15
	case today > 5:
		return 8
	}
	return 0
}

// accountAgeFactor scores 0..15; young accounts are riskier.
func accountAgeFactor(days int) int {
	switch {
	case days < 7:
		return 15
	case days < 30:
		return 10
	case days < 90:
		return 5
	}
	return 0
}

// velocityFactor scores 0..20 from transfers inside the velocity window.
func (e *RiskEngine) velocityFactor(recent int) int {
	switch {
	case recent > e.cfg.MaxTransactionsPerHour:
		return 20
	case recent > 5:
		return 10
	}
	return 0
}

func statusFactor(from, to *models.Account) int {
	score := 0
	if from.RiskLevel == models.RiskLevelHigh {
		score += 5
	}
	if to.RiskLevel == models.RiskLevelHigh {
		score += 5
	}
	return score
}

// accountRiskLevel maps an average risk score to a level: above 70 HIGH,
// above 30 MEDIUM.
func accountRiskLevel(avg float64) models.RiskLevel {
	switch {
	case avg > 70:
		return models.RiskLevelHigh
	case avg > 30:
		return models.RiskLevelMedium
	}
	return models.RiskLevelLow
}

// UpdateAccountRiskLevel recomputes the account's risk level from the mean
// risk score of committed transfers on either side of it inside the history
// window, and stores it.
func (e *RiskEngine) UpdateAccountRiskLevel(ctx context.Context, accountID int64) (models.RiskLevel, error) {
	avg, err := e.transactions.AverageRiskSince(ctx, accountID, e.now().Add(-e.cfg.HistoryWindow))
	if err != nil {
		return "", fmt.Errorf("average risk of account %d: %w", accountID, err)
	}

	level := accountRiskLevel(avg)
	if err := e.accounts.UpdateRiskLevel(ctx, accountID, level); err != nil {
		return "", fmt.Errorf("update risk level of account %d: %w", accountID, err)
	}

	logger.Log.Infow("account risk level updated",
		"account_id", accountID,
		"average_risk", avg,
		"risk_level", level,
	)
	return level, nil
}
