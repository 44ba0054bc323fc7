package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-transfer-engine/internal/locks"
	"github.com/sbilibin2017/gw-transfer-engine/internal/models"
	"github.com/sbilibin2017/gw-transfer-engine/internal/wal"
)

var testNow = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// fakeLedger is an in-memory ledger. Writes made inside WithinTx are kept in
// a per-transaction overlay and only become visible on commit.
type fakeLedger struct {
	mu            sync.Mutex
	accounts      map[int64]*models.Account
	records       map[string]models.TransactionSnapshot
	nextAccountID int64
	nextRecordID  int64
	failures      map[string]error
}

type fakeTxKey struct{}

type fakeTx struct {
	accounts map[int64]*models.Account
	records  map[string]models.TransactionSnapshot
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts: make(map[int64]*models.Account),
		records:  make(map[string]models.TransactionSnapshot),
		failures: make(map[string]error),
	}
}

func (f *fakeLedger) failOn(method string, err error) {
	f.mu.Lock()
	f.failures[method] = err
	f.mu.Unlock()
}

func (f *fakeLedger) fail(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[method]
}

func txFrom(ctx context.Context) *fakeTx {
	tx, _ := ctx.Value(fakeTxKey{}).(*fakeTx)
	return tx
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	return &c
}

// addAccount stores a committed ACTIVE account.
func (f *fakeLedger) addAccount(balance int64, ageDays int, level models.RiskLevel) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAccountID++
	a := &models.Account{
		ID:             f.nextAccountID,
		Number:         NewAccountNumber(),
		Holder:         "holder",
		Type:           models.AccountTypeSavings,
		Balance:        decimal.NewFromInt(balance),
		OpeningBalance: decimal.NewFromInt(balance),
		Status:         models.AccountStatusActive,
		RiskLevel:      level,
		DailyLimit:     decimal.NewFromInt(100000),
		CreatedAt:      testNow.AddDate(0, 0, -ageDays),
	}
	f.accounts[a.ID] = a
	return copyAccount(a)
}

func (f *fakeLedger) setAccount(a *models.Account) {
	f.mu.Lock()
	f.accounts[a.ID] = copyAccount(a)
	f.mu.Unlock()
}

// seedCommitted stores committed transfer records without moving money.
func (f *fakeLedger) seedCommitted(n int, from, to int64, amount decimal.Decimal, at time.Time, risk int) {
	for i := 0; i < n; i++ {
		tx := models.NewTransaction(from, to, amount, "seed", at)
		s := tx.Snapshot()
		s.State = models.StateCommitted
		s.RiskScore = risk
		s.CompletedAt = &at
		_, _ = f.Save(context.Background(), s)
	}
}

func (f *fakeLedger) balance(id int64) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id].Balance
}

func (f *fakeLedger) record(uuid string) (models.TransactionSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.records[uuid]
	return s, ok
}

func (f *fakeLedger) totalBalance() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, a := range f.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// --- TxRunner ---

func (f *fakeLedger) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	if err := f.fail("Begin"); err != nil {
		return err
	}

	tx := &fakeTx{
		accounts: make(map[int64]*models.Account),
		records:  make(map[string]models.TransactionSnapshot),
	}
	if err := fn(context.WithValue(ctx, fakeTxKey{}, tx)); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures["Commit"]; err != nil {
		return err
	}
	for id, a := range tx.accounts {
		f.accounts[id] = a
	}
	for uuid, s := range tx.records {
		f.records[uuid] = s
	}
	return nil
}

// --- AccountStore ---

func (f *fakeLedger) Create(ctx context.Context, a *models.Account) error {
	if err := f.fail("Create"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAccountID++
	a.ID = f.nextAccountID
	a.OpeningBalance = a.Balance
	a.CreatedAt = testNow
	f.accounts[a.ID] = copyAccount(a)
	return nil
}

func (f *fakeLedger) account(ctx context.Context, id int64) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx := txFrom(ctx); tx != nil {
		if a, ok := tx.accounts[id]; ok {
			return a
		}
	}
	a, ok := f.accounts[id]
	if !ok {
		return nil
	}
	return a
}

func (f *fakeLedger) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if err := f.fail("GetByID"); err != nil {
		return nil, err
	}
	a := f.account(ctx, id)
	if a == nil {
		return nil, nil
	}
	return copyAccount(a), nil
}

func (f *fakeLedger) GetForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	if err := f.fail("GetForUpdate"); err != nil {
		return nil, err
	}
	return f.GetByID(ctx, id)
}

func (f *fakeLedger) modify(ctx context.Context, id int64, fn func(a *models.Account)) error {
	a := f.account(ctx, id)
	if a == nil {
		return errors.New("no rows affected")
	}
	c := copyAccount(a)
	fn(c)
	if c.Balance.IsNegative() {
		return errors.New("balance check constraint violated")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if tx := txFrom(ctx); tx != nil {
		tx.accounts[id] = c
	} else {
		f.accounts[id] = c
	}
	return nil
}

func (f *fakeLedger) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, at time.Time) error {
	if err := f.fail("UpdateBalance"); err != nil {
		return err
	}
	return f.modify(ctx, id, func(a *models.Account) {
		a.Balance = balance
		a.LastTransactionAt = &at
	})
}

func (f *fakeLedger) UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) error {
	return f.modify(ctx, id, func(a *models.Account) { a.Status = status })
}

func (f *fakeLedger) UpdateRiskLevel(ctx context.Context, id int64, level models.RiskLevel) error {
	if err := f.fail("UpdateRiskLevel"); err != nil {
		return err
	}
	return f.modify(ctx, id, func(a *models.Account) { a.RiskLevel = level })
}

func (f *fakeLedger) ListFlows(ctx context.Context) ([]models.AccountFlow, error) {
	records := f.view(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	flows := make([]models.AccountFlow, 0, len(f.accounts))
	for id, a := range f.accounts {
		flow := models.AccountFlow{AccountID: id, Balance: a.Balance, OpeningBalance: a.OpeningBalance}
		for _, s := range records {
			if s.State != models.StateCommitted || s.Description == "seed" {
				continue
			}
			if s.ToAccountID == id {
				flow.Incoming = flow.Incoming.Add(s.Amount)
			}
			if s.FromAccountID == id {
				flow.Outgoing = flow.Outgoing.Add(s.Amount)
			}
		}
		flows = append(flows, flow)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].AccountID < flows[j].AccountID })
	return flows, nil
}

// --- TransactionStore ---

func (f *fakeLedger) Save(ctx context.Context, s models.TransactionSnapshot) (int64, error) {
	if err := f.fail("Save"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tx := txFrom(ctx)
	existing, ok := f.records[s.UUID]
	if tx != nil {
		if pending, found := tx.records[s.UUID]; found {
			existing, ok = pending, true
		}
	}
	if ok {
		s.ID = existing.ID
	} else {
		f.nextRecordID++
		s.ID = f.nextRecordID
	}

	if tx != nil {
		tx.records[s.UUID] = s
	} else {
		f.records[s.UUID] = s
	}
	return s.ID, nil
}

// view merges committed records with the caller's uncommitted ones.
func (f *fakeLedger) view(ctx context.Context) map[string]models.TransactionSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.TransactionSnapshot, len(f.records))
	for k, v := range f.records {
		out[k] = v
	}
	if tx := txFrom(ctx); tx != nil {
		for k, v := range tx.records {
			out[k] = v
		}
	}
	return out
}

func (f *fakeLedger) GetByUUID(ctx context.Context, uuid string) (*models.TransactionSnapshot, error) {
	if err := f.fail("GetByUUID"); err != nil {
		return nil, err
	}
	s, ok := f.view(ctx)[uuid]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeLedger) GetByState(ctx context.Context, state models.TransactionState, limit int) ([]models.TransactionSnapshot, error) {
	var out []models.TransactionSnapshot
	for _, s := range f.view(ctx) {
		if s.State == state {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedger) GetAggregateStats(ctx context.Context, from, to time.Time) (*models.TransactionStats, error) {
	stats := &models.TransactionStats{From: from, To: to}
	riskSum := 0
	for _, s := range f.view(ctx) {
		if s.InitiatedAt.Before(from) || !s.InitiatedAt.Before(to) {
			continue
		}
		stats.Total++
		riskSum += s.RiskScore
		switch s.State {
		case models.StateCommitted:
			stats.Committed++
			stats.TotalAmount = stats.TotalAmount.Add(s.Amount)
		case models.StateRolledBack:
			stats.RolledBack++
		}
	}
	if stats.Total > 0 {
		stats.AvgRisk = float64(riskSum) / float64(stats.Total)
	}
	return stats, nil
}

func (f *fakeLedger) outgoing(ctx context.Context, accountID int64, since time.Time) []models.TransactionSnapshot {
	var out []models.TransactionSnapshot
	for _, s := range f.view(ctx) {
		if s.FromAccountID == accountID && s.State == models.StateCommitted && !s.InitiatedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeLedger) OutgoingTotalSince(ctx context.Context, accountID int64, since time.Time) (decimal.Decimal, error) {
	if err := f.fail("OutgoingTotalSince"); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, s := range f.outgoing(ctx, accountID, since) {
		total = total.Add(s.Amount)
	}
	return total, nil
}

func (f *fakeLedger) CountOutgoingSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	if err := f.fail("CountOutgoingSince"); err != nil {
		return 0, err
	}
	return len(f.outgoing(ctx, accountID, since)), nil
}

func (f *fakeLedger) AverageRiskSince(ctx context.Context, accountID int64, since time.Time) (float64, error) {
	if err := f.fail("AverageRiskSince"); err != nil {
		return 0, err
	}
	sum, n := 0, 0
	for _, s := range f.view(ctx) {
		if (s.FromAccountID == accountID || s.ToAccountID == accountID) &&
			s.State == models.StateCommitted && !s.InitiatedAt.Before(since) {
			sum += s.RiskScore
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

// --- harness ---

type harness struct {
	ledger   *fakeLedger
	walDir   string
	wal      *wal.WAL
	locks    *locks.Coordinator
	risk     *RiskEngine
	manager  *TransactionManager
	recovery *RecoveryManager
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{ledger: newFakeLedger(), walDir: t.TempDir(), locks: locks.New()}

	w, err := wal.Open(h.walDir, wal.WithClock(fixedNow))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	h.wal = w

	h.risk = NewRiskEngine(h.ledger, h.ledger, DefaultRiskConfig(), fixedNow)
	h.manager = h.newManager(w, opts...)
	h.recovery = NewRecoveryManager(h.ledger, h.ledger, w, nil, fixedNow)
	return h
}

func (h *harness) newManager(w WriteAheadLog, opts ...Option) *TransactionManager {
	opts = append([]Option{WithClock(fixedNow)}, opts...)
	return NewTransactionManager(
		h.locks, h.ledger, h.ledger, h.ledger, w,
		NewValidator(h.ledger, h.ledger, fixedNow),
		h.risk,
		opts...,
	)
}

func (h *harness) walOps(t *testing.T, uuid string) []wal.Operation {
	t.Helper()
	entries, _, err := h.wal.Entries()
	require.NoError(t, err)
	var ops []wal.Operation
	for _, e := range entries {
		if e.TransactionID == uuid {
			ops = append(ops, e.Op)
		}
	}
	return ops
}
