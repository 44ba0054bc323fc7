package services

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
)

// Error variables
var (
	// ErrInfrastructure marks failures of the store, the WAL or another
	// dependency, as opposed to business rejections.
	ErrInfrastructure      = errors.New("infrastructure failure")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidArgument     = errors.New("invalid argument")
)

// TxRunner runs fn inside one ledger transaction, committing when fn returns nil.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountStore is the account side of the ledger. Lookups return nil, nil
// when the account does not exist.
type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error                                      // Inserts an account and fills in its id
	GetByID(ctx context.Context, id int64) (*models.Account, error)                           // Reads an account
	GetForUpdate(ctx context.Context, id int64) (*models.Account, error)                      // Reads and row-locks an account
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, at time.Time) error // Sets balance and last transaction time
	UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) error            // Sets account status
	UpdateRiskLevel(ctx context.Context, id int64, level models.RiskLevel) error              // Sets account risk level
	ListFlows(ctx context.Context) ([]models.AccountFlow, error)                              // Returns balances with committed flows
}

// TransactionStore is the transaction side of the ledger. GetByUUID returns
// nil, nil when no record exists.
type TransactionStore interface {
	Save(ctx context.Context, s models.TransactionSnapshot) (int64, error)                                          // Upserts a record by uuid
	GetByUUID(ctx context.Context, uuid string) (*models.TransactionSnapshot, error)                                // Reads a record
	GetByState(ctx context.Context, state models.TransactionState, limit int) ([]models.TransactionSnapshot, error) // Lists records in a state
	GetAggregateStats(ctx context.Context, from, to time.Time) (*models.TransactionStats, error)                    // Aggregates a time range
	OutgoingTotalSince(ctx context.Context, accountID int64, since time.Time) (decimal.Decimal, error)              // Sums committed outgoing amounts
	CountOutgoingSince(ctx context.Context, accountID int64, since time.Time) (int, error)                          // Counts committed outgoing transfers
	AverageRiskSince(ctx context.Context, accountID int64, since time.Time) (float64, error)                        // Averages committed risk on either side
}

// TransactionCache keeps terminal transactions. Get returns nil, nil on a miss.
type TransactionCache interface {
	Get(ctx context.Context, uuid string) (*models.TransactionSnapshot, error)
	Set(ctx context.Context, s models.TransactionSnapshot) error
	Delete(ctx context.Context, uuid string) error
}

// WriteAheadLog is the durable transfer log. Every write is on stable storage
// when it returns nil.
type WriteAheadLog interface {
	LogBegin(txID string) error
	LogDebit(txID string, accountID int64, amount, before, after decimal.Decimal) error
	LogCredit(txID string, accountID int64, amount, before, after decimal.Decimal) error
	LogCommit(txID string) error
	LogRollback(txID string) error
	Uncommitted() ([]string, error)
	Checkpoint() error
	Archive() (string, error)
}

// EventPublisher announces transfers that reached a terminal state.
type EventPublisher interface {
	Publish(ctx context.Context, event models.TransferEvent) error
}

// Locker hands out per-account mutual exclusion, see locks.Coordinator.
type Locker interface {
	Acquire(ctx context.Context, ids ...int64) (context.Context, func(), error)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
