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

const accountColumns = `account_id, account_number, account_holder, account_type, balance,
	opening_balance, status, risk_level, daily_limit, created_at, last_transaction_at`

// AccountRepository reads and writes the accounts table.
// Lookups return nil, nil when the account does not exist.
type AccountRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewAccountRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *AccountRepository {
	return &AccountRepository{db: db, txGetter: txGetter}
}

// Create inserts the account and fills in its id and creation time.
func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (account_number, account_holder, account_type, balance,
			opening_balance, status, risk_level, daily_limit, created_at)
		VALUES ($1, $2, $3, $4, $4, $5, $6, $7, NOW())
		RETURNING account_id, created_at
	`
	args := []any{a.Number, a.Holder, a.Type, a.Balance, a.Status, a.RiskLevel, a.DailyLimit}

	var row struct {
		ID        int64     `db:"account_id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &row, query, args...)

	logQuery(query, args, row, err)

	if err != nil {
		return err
	}
	a.ID = row.ID
	a.OpeningBalance = a.Balance
	a.CreatedAt = row.CreatedAt
	return nil
}

// GetByID returns the account without locking its row.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`
	return r.get(ctx, query, id)
}

// GetForUpdate returns the account and locks its row until the surrounding
// transaction ends.
func (r *AccountRepository) GetForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *AccountRepository) get(ctx context.Context, query string, id int64) (*models.Account, error) {
	var a models.Account
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &a, query, id)

	logQuery(query, []any{id}, a, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// UpdateBalance sets the balance and the last transaction time.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, at time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, last_transaction_at = $3
		WHERE account_id = $1
	`
	return r.exec(ctx, query, id, balance, at)
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) error {
	query := `UPDATE accounts SET status = $2 WHERE account_id = $1`
	return r.exec(ctx, query, id, status)
}

func (r *AccountRepository) UpdateRiskLevel(ctx context.Context, id int64, level models.RiskLevel) error {
	query := `UPDATE accounts SET risk_level = $2 WHERE account_id = $1`
	return r.exec(ctx, query, id, level)
}

func (r *AccountRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListFlows returns every account with the sums of its committed incoming and
// outgoing transfers.
func (r *AccountRepository) ListFlows(ctx context.Context) ([]models.AccountFlow, error) {
	const query = `
		SELECT a.account_id, a.balance, a.opening_balance,
			COALESCE((SELECT SUM(t.amount) FROM transactions t
				WHERE t.to_account_id = a.account_id AND t.state = 'COMMITTED'), 0) AS incoming,
			COALESCE((SELECT SUM(t.amount) FROM transactions t
				WHERE t.from_account_id = a.account_id AND t.state = 'COMMITTED'), 0) AS outgoing
		FROM accounts a
		ORDER BY a.account_id
	`

	var flows []models.AccountFlow
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &flows, query)

	logQuery(query, nil, len(flows), err)

	return flows, err
}
