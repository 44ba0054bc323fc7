package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

const transactionColumns = `transaction_id, transaction_uuid, from_account_id, to_account_id, amount,
	state, risk_score, risk_factors, description, initiated_at, completed_at, error_message`

// TransactionRepository reads and writes the transactions table.
type TransactionRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionRepository {
	return &TransactionRepository{db: db, txGetter: txGetter}
}

// Save performs an UPSERT keyed by transaction uuid and returns the sequence id.
// The request fields are written once; state, risk and completion are updated.
func (r *TransactionRepository) Save(ctx context.Context, s models.TransactionSnapshot) (int64, error) {
	query := `
		INSERT INTO transactions (transaction_uuid, from_account_id, to_account_id, amount, state,
			risk_score, risk_factors, description, initiated_at, completed_at, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (transaction_uuid)
		DO UPDATE SET state = EXCLUDED.state,
			risk_score = EXCLUDED.risk_score,
			risk_factors = EXCLUDED.risk_factors,
			completed_at = EXCLUDED.completed_at,
			error_message = EXCLUDED.error_message
		RETURNING transaction_id
	`
	args := []any{
		s.UUID, s.FromAccountID, s.ToAccountID, s.Amount, s.State,
		s.RiskScore, s.RiskFactors, s.Description, s.InitiatedAt, s.CompletedAt, s.ErrorMessage,
	}

	var id int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &id, query, args...)

	logQuery(query, args, id, err)

	return id, err
}

// GetByUUID returns nil, nil when no record exists.
func (r *TransactionRepository) GetByUUID(ctx context.Context, uuid string) (*models.TransactionSnapshot, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_uuid = $1`

	var s models.TransactionSnapshot
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &s, query, uuid)

	logQuery(query, []any{uuid}, s, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetByState returns the most recent records in state, newest first.
func (r *TransactionRepository) GetByState(ctx context.Context, state models.TransactionState, limit int) ([]models.TransactionSnapshot, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE state = $1
		ORDER BY initiated_at DESC
		LIMIT $2`

	var list []models.TransactionSnapshot
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &list, query, state, limit)

	logQuery(query, []any{state, limit}, len(list), err)

	return list, err
}

// GetAggregateStats aggregates transactions initiated in [from, to).
func (r *TransactionRepository) GetAggregateStats(ctx context.Context, from, to time.Time) (*models.TransactionStats, error) {
	const query = `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE state = 'COMMITTED') AS committed,
			COUNT(*) FILTER (WHERE state = 'ROLLED_BACK') AS rolled_back,
			COALESCE(AVG(risk_score), 0)::float8 AS avg_risk,
			COALESCE(SUM(amount) FILTER (WHERE state = 'COMMITTED'), 0) AS total_amount
		FROM transactions
		WHERE initiated_at >= $1 AND initiated_at < $2
	`

	stats := models.TransactionStats{From: from, To: to}
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &stats, query, from, to)

	logQuery(query, []any{from, to}, stats, err)

	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// OutgoingTotalSince sums committed transfers sent by the account since the
// given time.
func (r *TransactionRepository) OutgoingTotalSince(ctx context.Context, accountID int64, since time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE from_account_id = $1 AND state = 'COMMITTED' AND initiated_at >= $2
	`

	var total decimal.Decimal
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &total, query, accountID, since)

	logQuery(query, []any{accountID, since}, total, err)

	return total, err
}

// CountOutgoingSince counts committed transfers sent by the account since the
// given time.
func (r *TransactionRepository) CountOutgoingSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM transactions
		WHERE from_account_id = $1 AND state = 'COMMITTED' AND initiated_at >= $2
	`

	var count int
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &count, query, accountID, since)

	logQuery(query, []any{accountID, since}, count, err)

	return count, err
}

// AverageRiskSince averages the risk score of committed transfers on either
// side of the account since the given time. It returns 0 when there are none.
func (r *TransactionRepository) AverageRiskSince(ctx context.Context, accountID int64, since time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(AVG(risk_score), 0)::float8
		FROM transactions
		WHERE (from_account_id = $1 OR to_account_id = $1)
			AND state = 'COMMITTED' AND initiated_at >= $2
	`

	var avg float64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &avg, query, accountID, since)

	logQuery(query, []any{accountID, since}, avg, err)

	return avg, err
}
