package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// Audit event names, logged under the "event" key.
const (
	EventTransactionInitiated  = "TRANSACTION_INITIATED"
	EventValidationPassed      = "VALIDATION_PASSED"
	EventRiskEvaluated         = "RISK_EVALUATED"
	EventTransactionCommitted  = "TRANSACTION_COMMITTED"
	EventTransactionRolledBack = "TRANSACTION_ROLLED_BACK"
)

// stateListLimit caps TransactionsByState.
const stateListLimit = 100

// riskRejection aborts the ledger transaction when the risk score is HIGH.
type riskRejection struct {
	score models.RiskScore
}

func (r *riskRejection) Error() string {
	return models.RollbackReason(r.score.Total)
}

// TransactionManager executes transfers.
//
// For every transfer it takes the account locks, writes the WAL and ledger in
// a fixed order and drives the transaction to exactly one terminal state.
type TransactionManager struct {
	locks        Locker
	runner       TxRunner
	accounts     AccountStore
	transactions TransactionStore
	wal          WriteAheadLog
	validator    *Validator
	risk         *RiskEngine
	cache        TransactionCache
	publisher    EventPublisher
	now          func() time.Time
}

// Option configures optional collaborators of a TransactionManager.
type Option func(*TransactionManager)

// WithCache enables read-through caching of terminal transactions.
func WithCache(c TransactionCache) Option {
	return func(m *TransactionManager) { m.cache = c }
}

// WithPublisher enables terminal transaction events.
func WithPublisher(p EventPublisher) Option {
	return func(m *TransactionManager) { m.publisher = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *TransactionManager) { m.now = now }
}

// NewTransactionManager creates a TransactionManager.
func NewTransactionManager(
	locks Locker,
	runner TxRunner,
	accounts AccountStore,
	transactions TransactionStore,
	wal WriteAheadLog,
	validator *Validator,
	risk *RiskEngine,
	opts ...Option,
) *TransactionManager {
	m := &TransactionManager{
		locks:        locks,
		runner:       runner,
		accounts:     accounts,
		transactions: transactions,
		wal:          wal,
		validator:    validator,
		risk:         risk,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ExecuteTransfer moves amount from one account to another and returns the
// transaction in a terminal state.
//
// A business rejection (validation or risk) is returned as a ROLLED_BACK
// transaction with a nil error. A failure of the store or the WAL is returned
// together with the transaction and wraps ErrInfrastructure. A context that
// ends while waiting for the account locks aborts the transfer before anything
// is written; once the locks are held the transfer runs to completion.
func (m *TransactionManager) ExecuteTransfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, description string) (*models.Transaction, error) {
	tx := models.NewTransaction(fromID, toID, amount, description, m.now())

	logger.Log.Infow("transfer initiated",
		"event", EventTransactionInitiated,
		"transaction_uuid", tx.UUID,
		"from", fromID,
		"to", toID,
		"amount", amount.StringFixed(2),
	)

	lockCtx, release, err := m.locks.Acquire(ctx, fromID, toID)
	if err != nil {
		tx.SetErrorMessage("Cancelled while waiting for account locks")
		_ = tx.TransitionAt(models.StateRolledBack, m.now())
		return tx, fmt.Errorf("acquire account locks: %w", err)
	}

	err = m.execute(context.WithoutCancel(lockCtx), tx)
	if tx.IsSuccessful() {
		m.refreshRiskLevels(context.WithoutCancel(lockCtx), tx)
	}
	release()

	m.finish(context.WithoutCancel(ctx), tx)
	return tx, err
}

// execute runs the protocol while the account locks are held.
func (m *TransactionManager) execute(ctx context.Context, tx *models.Transaction) error {
	id, err := m.transactions.Save(ctx, tx.Snapshot())
	if err != nil {
		tx.SetErrorMessage("Transaction failed: could not record transaction")
		_ = tx.TransitionAt(models.StateRolledBack, m.now())
		logger.Log.Errorw("failed to record transaction",
			"event", EventTransactionRolledBack,
			"transaction_uuid", tx.UUID,
			"error", err,
		)
		return fmt.Errorf("%w: record transaction: %w", ErrInfrastructure, err)
	}
	tx.SetID(id)

	if err := m.wal.LogBegin(tx.UUID); err != nil {
		return m.rollback(ctx, tx, fmt.Errorf("%w: wal begin: %w", ErrInfrastructure, err))
	}

	var committedAt time.Time
	err = m.runner.WithinTx(ctx, func(ctx context.Context) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("%w: panic: %v", ErrInfrastructure, rec)
			}
		}()
		committedAt, err = m.apply(ctx, tx)
		return err
	})
	if err != nil {
		var vErr *ValidationError
		var rErr *riskRejection
		if !errors.As(err, &vErr) && !errors.As(err, &rErr) && !errors.Is(err, ErrInfrastructure) {
			err = fmt.Errorf("%w: %w", ErrInfrastructure, err)
		}
		return m.rollback(ctx, tx, err)
	}

	// The ledger commit is authoritative from here on.
	if err := tx.TransitionAt(models.StateCommitted, committedAt); err != nil {
		return fmt.Errorf("%w: %w", ErrInfrastructure, err)
	}
	logger.Log.Infow("transfer committed",
		"event", EventTransactionCommitted,
		"transaction_uuid", tx.UUID,
		"from", tx.FromAccountID,
		"to", tx.ToAccountID,
		"amount", tx.Amount.StringFixed(2),
		"risk_score", tx.RiskScore(),
	)

	if err := m.wal.LogCommit(tx.UUID); err != nil {
		logger.Log.Errorw("commit record not written to wal",
			"transaction_uuid", tx.UUID,
			"error", err,
		)
		return fmt.Errorf("%w: wal commit: %w", ErrInfrastructure, err)
	}
	return nil
}

// apply validates, scores and moves the money inside the ledger transaction.
// It returns the completion time written to the committed record.
func (m *TransactionManager) apply(ctx context.Context, tx *models.Transaction) (time.Time, error) {
	from, to, err := m.validator.Validate(ctx, tx)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return time.Time{}, err
		}
		return time.Time{}, fmt.Errorf("%w: validate: %w", ErrInfrastructure, err)
	}

	if err := tx.TransitionTo(models.StateValidated); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInfrastructure, err)
	}
	logger.Log.Infow("transfer validated",
		"event", EventValidationPassed,
		"transaction_uuid", tx.UUID,
	)

	if err := tx.TransitionTo(models.StateRiskCheck); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInfrastructure, err)
	}
	score := m.risk.Evaluate(ctx, tx)
	tx.SetRisk(score.Total, score.Breakdown())
	logger.Log.Infow("risk evaluated",
		"event", EventRiskEvaluated,
		"transaction_uuid", tx.UUID,
		"risk_score", score.Total,
		"risk_level", score.Level,
	)
	if score.ShouldRollback() {
		return time.Time{}, &riskRejection{score: score}
	}

	now := m.now()

	before := from.Balance
	if err := from.Debit(tx.Amount, now); err != nil {
		return time.Time{}, rejected(MsgInsufficientBalance)
	}
	if err := m.accounts.UpdateBalance(ctx, from.ID, from.Balance, now); err != nil {
		return time.Time{}, fmt.Errorf("%w: debit account %d: %w", ErrInfrastructure, from.ID, err)
	}
	if err := m.wal.LogDebit(tx.UUID, from.ID, tx.Amount, before, from.Balance); err != nil {
		return time.Time{}, fmt.Errorf("%w: wal debit: %w", ErrInfrastructure, err)
	}

	before = to.Balance
	to.Credit(tx.Amount, now)
	if err := m.accounts.UpdateBalance(ctx, to.ID, to.Balance, now); err != nil {
		return time.Time{}, fmt.Errorf("%w: credit account %d: %w", ErrInfrastructure, to.ID, err)
	}
	if err := m.wal.LogCredit(tx.UUID, to.ID, tx.Amount, before, to.Balance); err != nil {
		return time.Time{}, fmt.Errorf("%w: wal credit: %w", ErrInfrastructure, err)
	}

	// The record commits atomically with the balances.
	record := tx.Snapshot()
	record.State = models.StateCommitted
	record.CompletedAt = &now
	if _, err := m.transactions.Save(ctx, record); err != nil {
		return time.Time{}, fmt.Errorf("%w: record commit: %w", ErrInfrastructure, err)
	}
	return now, nil
}

// rollback finishes a failed transfer: WAL ROLLBACK, ROLLED_BACK state and the
// failed record persisted for audit. The ledger transaction has already been
// aborted. Business rejections return nil unless the rollback itself fails.
func (m *TransactionManager) rollback(ctx context.Context, tx *models.Transaction, cause error) error {
	var result error
	if errors.Is(cause, ErrInfrastructure) {
		result = cause
		tx.SetErrorMessage("Transaction failed: " + cause.Error())
	} else {
		tx.SetErrorMessage(cause.Error())
	}

	if err := m.wal.LogRollback(tx.UUID); err != nil {
		logger.Log.Errorw("rollback record not written to wal", "transaction_uuid", tx.UUID, "error", err)
		result = errors.Join(result, fmt.Errorf("%w: wal rollback: %w", ErrInfrastructure, err))
	}

	if err := tx.TransitionAt(models.StateRolledBack, m.now()); err != nil {
		result = errors.Join(result, fmt.Errorf("%w: %w", ErrInfrastructure, err))
	}

	if _, err := m.transactions.Save(ctx, tx.Snapshot()); err != nil {
		logger.Log.Errorw("failed to record rollback", "transaction_uuid", tx.UUID, "error", err)
		result = errors.Join(result, fmt.Errorf("%w: record rollback: %w", ErrInfrastructure, err))
	}

	logger.Log.Warnw("transfer rolled back",
		"event", EventTransactionRolledBack,
		"transaction_uuid", tx.UUID,
		"from", tx.FromAccountID,
		"to", tx.ToAccountID,
		"amount", tx.Amount.StringFixed(2),
		"reason", tx.ErrorMessage(),
	)
	return result
}

// refreshRiskLevels runs while the pair's locks are still held.
func (m *TransactionManager) refreshRiskLevels(ctx context.Context, tx *models.Transaction) {
	for _, id := range []int64{tx.FromAccountID, tx.ToAccountID} {
		if _, err := m.risk.UpdateAccountRiskLevel(ctx, id); err != nil {
			logger.Log.Warnw("failed to refresh account risk level", "account_id", id, "error", err)
		}
	}
}

// finish caches and publishes a terminal transaction. Failures are logged only.
func (m *TransactionManager) finish(ctx context.Context, tx *models.Transaction) {
	if !tx.IsTerminal() || tx.ID() == 0 {
		return
	}
	snapshot := tx.Snapshot()

	if m.cache != nil {
		if err := m.cache.Set(ctx, snapshot); err != nil {
			logger.Log.Warnw("failed to cache transaction", "transaction_uuid", tx.UUID, "error", err)
		}
	}

	if m.publisher == nil {
		return
	}
	event := models.TransferEvent{
		EventID:     uuid.NewString(),
		Type:        models.EventTypeFor(snapshot.State),
		OccurredAt:  m.now(),
		Transaction: snapshot,
	}
	if err := m.publisher.Publish(ctx, event); err != nil {
		logger.Log.Errorw("failed to publish transfer event", "transaction_uuid", tx.UUID, "error", err)
	}
}

// GetTransaction returns the transaction with the given uuid.
func (m *TransactionManager) GetTransaction(ctx context.Context, txUUID string) (*models.Transaction, error) {
	if m.cache != nil {
		s, err := m.cache.Get(ctx, txUUID)
		if err != nil {
			logger.Log.Warnw("transaction cache unavailable", "transaction_uuid", txUUID, "error", err)
		}
		if s != nil {
			return models.FromSnapshot(*s), nil
		}
	}

	s, err := m.transactions.GetByUUID(ctx, txUUID)
	if err != nil {
		logger.Log.Errorw("failed to get transaction", "transaction_uuid", txUUID, "error", err)
		return nil, err
	}
	if s == nil {
		return nil, ErrTransactionNotFound
	}

	if m.cache != nil && s.State.IsTerminal() {
		if err := m.cache.Set(ctx, *s); err != nil {
			logger.Log.Warnw("failed to cache transaction", "transaction_uuid", txUUID, "error", err)
		}
	}
	return models.FromSnapshot(*s), nil
}

// TransactionsByState returns up to 100 of the most recent transactions in state.
func (m *TransactionManager) TransactionsByState(ctx context.Context, state models.TransactionState) ([]*models.Transaction, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidArgument, state)
	}

	list, err := m.transactions.GetByState(ctx, state, stateListLimit)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "state", state, "error", err)
		return nil, err
	}

	out := make([]*models.Transaction, 0, len(list))
	for _, s := range list {
		out = append(out, models.FromSnapshot(s))
	}
	return out, nil
}

// Stats aggregates transactions initiated in [from, to).
func (m *TransactionManager) Stats(ctx context.Context, from, to time.Time) (*models.TransactionStats, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: empty time range", ErrInvalidArgument)
	}
	stats, err := m.transactions.GetAggregateStats(ctx, from, to)
	if err != nil {
		logger.Log.Errorw("failed to aggregate transactions", "from", from, "to", to, "error", err)
		return nil, err
	}
	return stats, nil
}
