package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidTransition is returned when a state change is not in the transition table.
var ErrInvalidTransition = errors.New("invalid state transition")

// TransactionState is a node of the transfer state machine.
type TransactionState string

const (
	StateInit       TransactionState = "INIT"
	StateValidated  TransactionState = "VALIDATED"
	StateRiskCheck  TransactionState = "RISK_CHECK"
	StateCommitted  TransactionState = "COMMITTED"
	StateRolledBack TransactionState = "ROLLED_BACK"
)

var transitions = map[TransactionState][]TransactionState{
	StateInit:      {StateValidated, StateRolledBack},
	StateValidated: {StateRiskCheck, StateRolledBack},
	StateRiskCheck: {StateCommitted, StateRolledBack},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s TransactionState) CanTransitionTo(next TransactionState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func (s TransactionState) IsTerminal() bool {
	return s == StateCommitted || s == StateRolledBack
}

// Valid reports whether s is a known state.
func (s TransactionState) Valid() bool {
	switch s {
	case StateInit, StateValidated, StateRiskCheck, StateCommitted, StateRolledBack:
		return true
	}
	return false
}

// Description returns a human readable description of the state.
func (s TransactionState) Description() string {
	switch s {
	case StateInit:
		return "Transaction initiated"
	case StateValidated:
		return "Validation passed"
	case StateRiskCheck:
		return "Risk evaluation in progress"
	case StateCommitted:
		return "Transaction committed successfully"
	case StateRolledBack:
		return "Transaction rolled back"
	}
	return "Unknown state"
}

// TransactionSnapshot is a point-in-time copy of a Transaction.
// It is the shape stored in the transactions table, the cache and events.
type TransactionSnapshot struct {
	ID            int64            `json:"transaction_id" db:"transaction_id"`
	UUID          string           `json:"transaction_uuid" db:"transaction_uuid"`
	FromAccountID int64            `json:"from_account_id" db:"from_account_id"`
	ToAccountID   int64            `json:"to_account_id" db:"to_account_id"`
	Amount        decimal.Decimal  `json:"amount" db:"amount"`
	State         TransactionState `json:"state" db:"state"`
	RiskScore     int              `json:"risk_score" db:"risk_score"`
	RiskFactors   string           `json:"risk_factors" db:"risk_factors"`
	Description   string           `json:"description" db:"description"`
	InitiatedAt   time.Time        `json:"initiated_at" db:"initiated_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage  string           `json:"error_message,omitempty" db:"error_message"`
}

// Transaction is a single money transfer.
//
// The identity and request fields are immutable. Everything else is guarded by
// an internal mutex and changes only through methods; State changes only
// through TransitionTo.
type Transaction struct {
	UUID          string
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Description   string
	InitiatedAt   time.Time

	mu           sync.RWMutex
	id           int64
	state        TransactionState
	history      []TransactionState
	riskScore    int
	riskFactors  string
	completedAt  *time.Time
	errorMessage string
}

// NewTransaction creates a transaction in the INIT state with a fresh UUID.
func NewTransaction(fromAccountID, toAccountID int64, amount decimal.Decimal, description string, at time.Time) *Transaction {
	return &Transaction{
		UUID:          uuid.NewString(),
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		Description:   description,
		InitiatedAt:   at,
		state:         StateInit,
		history:       []TransactionState{StateInit},
	}
}

// FromSnapshot rebuilds a transaction loaded from storage.
func FromSnapshot(s TransactionSnapshot) *Transaction {
	return &Transaction{
		UUID:          s.UUID,
		FromAccountID: s.FromAccountID,
		ToAccountID:   s.ToAccountID,
		Amount:        s.Amount,
		Description:   s.Description,
		InitiatedAt:   s.InitiatedAt,
		id:            s.ID,
		state:         s.State,
		history:       []TransactionState{s.State},
		riskScore:     s.RiskScore,
		riskFactors:   s.RiskFactors,
		completedAt:   s.CompletedAt,
		errorMessage:  s.ErrorMessage,
	}
}

// TransitionTo moves the transaction to next, stamping CompletedAt with the
// current time when a terminal state is entered.
func (t *Transaction) TransitionTo(next TransactionState) error {
	return t.TransitionAt(next, time.Now().UTC())
}

// TransitionAt moves the transaction to next. Transitions outside the table
// are rejected and leave the transaction unchanged. CompletedAt is set to at
// when a terminal state is entered.
func (t *Transaction) TransitionAt(next TransactionState, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.state, next)
	}
	t.state = next
	t.history = append(t.history, next)
	if next.IsTerminal() {
		t.completedAt = &at
	}
	return nil
}

func (t *Transaction) ID() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.id
}

// SetID records the storage-assigned sequence id.
func (t *Transaction) SetID(id int64) {
	t.mu.Lock()
	t.id = id
	t.mu.Unlock()
}

func (t *Transaction) State() TransactionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// History returns the states visited so far, in order.
func (t *Transaction) History() []TransactionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TransactionState, len(t.history))
	copy(out, t.history)
	return out
}

func (t *Transaction) RiskScore() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.riskScore
}

func (t *Transaction) RiskFactors() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.riskFactors
}

// SetRisk stores the evaluated score and its breakdown.
func (t *Transaction) SetRisk(score int, factors string) {
	t.mu.Lock()
	t.riskScore = score
	t.riskFactors = factors
	t.mu.Unlock()
}

func (t *Transaction) CompletedAt() *time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.completedAt
}

func (t *Transaction) ErrorMessage() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errorMessage
}

func (t *Transaction) SetErrorMessage(msg string) {
	t.mu.Lock()
	t.errorMessage = msg
	t.mu.Unlock()
}

// IsTerminal reports whether the transaction reached COMMITTED or ROLLED_BACK.
func (t *Transaction) IsTerminal() bool {
	return t.State().IsTerminal()
}

// IsSuccessful reports whether the transaction committed.
func (t *Transaction) IsSuccessful() bool {
	return t.State() == StateCommitted
}

// Snapshot copies the current values of all fields.
func (t *Transaction) Snapshot() TransactionSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return TransactionSnapshot{
		ID:            t.id,
		UUID:          t.UUID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		State:         t.state,
		RiskScore:     t.riskScore,
		RiskFactors:   t.riskFactors,
		Description:   t.Description,
		InitiatedAt:   t.InitiatedAt,
		CompletedAt:   t.completedAt,
		ErrorMessage:  t.errorMessage,
	}
}

// MarshalJSON encodes the transaction as its snapshot.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Snapshot())
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s, %d -> %d, %s, %s]",
		t.UUID, t.FromAccountID, t.ToAccountID, t.Amount.StringFixed(2), t.State())
}
