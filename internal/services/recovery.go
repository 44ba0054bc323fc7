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

// RecoveryMessage is stored on transactions rolled back at startup.
const RecoveryMessage = "Rolled back during crash recovery"

// Recovery audit events.
const (
	EventRecoveryStarted   = "RECOVERY_STARTED"
	EventRecoveryRollback  = "RECOVERY_ROLLBACK"
	EventRecoveryCompleted = "RECOVERY_COMPLETED"
	EventConsistencyFailed = "RECOVERY_CONSISTENCY_FAILED"
)

// RecoveryReport lists what RecoverFromCrash found, by uuid.
type RecoveryReport struct {
	Uncommitted []string `json:"uncommitted"`
	// RolledBack were forced to ROLLED_BACK (or already were).
	RolledBack []string `json:"rolled_back"`
	// Committed had committed in the ledger; only the WAL marker was missing.
	Committed []string `json:"committed"`
	// Missing had no record in the store.
	Missing []string          `json:"missing"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// Discrepancy is one violation found by VerifyConsistency.
type Discrepancy struct {
	AccountID int64           `json:"account_id,omitempty"`
	Actual    decimal.Decimal `json:"actual"`
	Expected  decimal.Decimal `json:"expected"`
	Reason    string          `json:"reason"`
}

// ConsistencyReport is the result of VerifyConsistency.
type ConsistencyReport struct {
	CheckedAt           time.Time       `json:"checked_at"`
	Accounts            int             `json:"accounts"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	TotalOpeningBalance decimal.Decimal `json:"total_opening_balance"`
	Discrepancies       []Discrepancy   `json:"discrepancies"`
	Consistent          bool            `json:"consistent"`
}

// RecoveryManager reconciles the WAL with the ledger and audits the ledger.
type RecoveryManager struct {
	accounts     AccountStore
	transactions TransactionStore
	wal          WriteAheadLog
	cache        TransactionCache
	now          func() time.Time
}

// NewRecoveryManager creates a RecoveryManager. cache may be nil.
func NewRecoveryManager(accounts AccountStore, transactions TransactionStore, wal WriteAheadLog, cache TransactionCache, now func() time.Time) *RecoveryManager {
	if now == nil {
		now = time.Now
	}
	return &RecoveryManager{
		accounts:     accounts,
		transactions: transactions,
		wal:          wal,
		cache:        cache,
		now:          now,
	}
}

// RecoverFromCrash must run before any transfer is accepted.
//
// Every transaction with a WAL BEGIN and no COMMIT or ROLLBACK is resolved
// against the ledger, which is authoritative: a record that committed stays
// COMMITTED and gets its COMMIT marker; any other record is forced to
// ROLLED_BACK. Debit and credit payloads are never re-applied. Each resolved
// id gets a WAL marker so it is not found again on the next start.
func (r *RecoveryManager) RecoverFromCrash(ctx context.Context) (*RecoveryReport, error) {
	ids, err := r.wal.Uncommitted()
	if err != nil {
		return nil, fmt.Errorf("%w: read wal: %w", ErrInfrastructure, err)
	}

	logger.Log.Infow("crash recovery started", "event", EventRecoveryStarted, "uncommitted", len(ids))

	report := &RecoveryReport{
		Uncommitted: ids,
		RolledBack:  []string{},
		Committed:   []string{},
		Missing:     []string{},
	}
	var errs []error
	for _, id := range ids {
		if err := r.recoverOne(ctx, id, report); err != nil {
			if report.Failed == nil {
				report.Failed = make(map[string]string)
			}
			report.Failed[id] = err.Error()
			errs = append(errs, err)
			logger.Log.Errorw("failed to recover transaction", "transaction_uuid", id, "error", err)
		}
	}

	logger.Log.Infow("crash recovery completed",
		"event", EventRecoveryCompleted,
		"rolled_back", len(report.RolledBack),
		"committed", len(report.Committed),
		"missing", len(report.Missing),
		"failed", len(report.Failed),
	)

	if len(errs) > 0 {
		return report, fmt.Errorf("%w: %w", ErrInfrastructure, errors.Join(errs...))
	}
	return report, nil
}

func (r *RecoveryManager) recoverOne(ctx context.Context, id string, report *RecoveryReport) error {
	s, err := r.transactions.GetByUUID(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction %s: %w", id, err)
	}

	switch {
	case s == nil:
		if err := r.wal.LogRollback(id); err != nil {
			return fmt.Errorf("wal rollback %s: %w", id, err)
		}
		report.Missing = append(report.Missing, id)

	case s.State == models.StateCommitted:
		if err := r.wal.LogCommit(id); err != nil {
			return fmt.Errorf("wal commit %s: %w", id, err)
		}
		report.Committed = append(report.Committed, id)

	default:
		tx := models.FromSnapshot(*s)
		if !tx.IsTerminal() {
			tx.SetErrorMessage(RecoveryMessage)
			if err := tx.TransitionAt(models.StateRolledBack, r.now()); err != nil {
				return err
			}
			if _, err := r.transactions.Save(ctx, tx.Snapshot()); err != nil {
				return fmt.Errorf("record rollback %s: %w", id, err)
			}
		}
		if err := r.wal.LogRollback(id); err != nil {
			return fmt.Errorf("wal rollback %s: %w", id, err)
		}
		report.RolledBack = append(report.RolledBack, id)
		logger.Log.Warnw("transaction rolled back during recovery",
			"event", EventRecoveryRollback,
			"transaction_uuid", id,
			"previous_state", s.State,
		)
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			logger.Log.Warnw("failed to evict recovered transaction", "transaction_uuid", id, "error", err)
		}
	}
	return nil
}

// VerifyConsistency checks that every balance equals its opening balance plus
// committed incoming minus committed outgoing transfers, that money is
// conserved across all accounts and that no balance is negative. It reports,
// never repairs.
func (r *RecoveryManager) VerifyConsistency(ctx context.Context) (*ConsistencyReport, error) {
	flows, err := r.accounts.ListFlows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list account flows: %w", ErrInfrastructure, err)
	}

	report := &ConsistencyReport{
		CheckedAt:     r.now(),
		Accounts:      len(flows),
		Discrepancies: []Discrepancy{},
	}
	for _, f := range flows {
		report.TotalBalance = report.TotalBalance.Add(f.Balance)
		report.TotalOpeningBalance = report.TotalOpeningBalance.Add(f.OpeningBalance)

		if f.Balance.IsNegative() {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				AccountID: f.AccountID,
				Actual:    f.Balance,
				Expected:  decimal.Zero,
				Reason:    "negative balance",
			})
		}
		if expected := f.Expected(); !expected.Equal(f.Balance) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				AccountID: f.AccountID,
				Actual:    f.Balance,
				Expected:  expected,
				Reason:    "balance does not match committed transfers",
			})
		}
	}
	if !report.TotalBalance.Equal(report.TotalOpeningBalance) {
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			Actual:   report.TotalBalance,
			Expected: report.TotalOpeningBalance,
			Reason:   "total balance is not conserved",
		})
	}
	report.Consistent = len(report.Discrepancies) == 0

	if report.Consistent {
		logger.Log.Infow("ledger consistency verified", "accounts", report.Accounts, "total_balance", report.TotalBalance.StringFixed(2))
	} else {
		logger.Log.Errorw("ledger inconsistency detected",
			"event", EventConsistencyFailed,
			"accounts", report.Accounts,
			"discrepancies", report.Discrepancies,
		)
	}
	return report, nil
}

// CreateCheckpoint writes a WAL checkpoint marker.
func (r *RecoveryManager) CreateCheckpoint(ctx context.Context) error {
	if err := r.wal.Checkpoint(); err != nil {
		logger.Log.Errorw("failed to create checkpoint", "error", err)
		return fmt.Errorf("%w: checkpoint: %w", ErrInfrastructure, err)
	}
	return nil
}

// ArchiveLogs rotates the WAL and returns the archived segment path.
// It fails while transfers are in flight.
func (r *RecoveryManager) ArchiveLogs(ctx context.Context) (string, error) {
	path, err := r.wal.Archive()
	if err != nil {
		logger.Log.Warnw("failed to archive wal", "error", err)
		return "", err
	}
	return path, nil
}
