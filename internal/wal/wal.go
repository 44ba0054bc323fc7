// Package wal is an append-only, fsync-per-record write-ahead log of transfer
// events. It is independent of the ledger database's own log and is the input
// of crash recovery.
package wal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
)

const (
	// ActiveSegment is the file name of the segment being appended to.
	ActiveSegment = "transactions.wal"

	archiveLayout = "20060102_150405"
	maxLineSize   = 64 * 1024
)

var (
	// ErrInFlight is returned by Archive while a transaction begun on the
	// active segment has not reached COMMIT or ROLLBACK.
	ErrInFlight = errors.New("wal: transactions in flight")
	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("wal: closed")
)

// Option configures a WAL.
type Option func(*WAL)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *WAL) { w.now = now }
}

// segment is the part of *os.File the WAL appends through.
type segment interface {
	io.StringWriter
	Sync() error
	Truncate(size int64) error
	Close() error
}

// WAL is safe for concurrent use.
type WAL struct {
	mu       sync.Mutex
	dir      string
	file     segment
	size     int64 // end of the last complete record
	torn     bool  // a partial record could not be cut off
	now      func() time.Time
	inFlight map[string]struct{}
}

// Open creates dir if needed and opens the active segment for appending.
// Transactions left open in an existing segment count as in flight until a
// COMMIT or ROLLBACK for them is appended.
func Open(dir string, opts ...Option) (*WAL, error) {
	w := &WAL{
		dir:      dir,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("wal: create dir: %w", err)
	}

	open, _, err := scanUncommitted(w.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	for _, id := range open {
		w.inFlight[id] = struct{}{}
	}

	if err := w.openSegment(); err != nil {
		return nil, err
	}

	logger.Log.Infow("write-ahead log opened", "path", w.Path(), "in_flight", len(w.inFlight))
	return w, nil
}

// Path returns the path of the active segment.
func (w *WAL) Path() string {
	return filepath.Join(w.dir, ActiveSegment)
}

func (w *WAL) openSegment() error {
	f, err := os.OpenFile(w.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("wal: open segment: %w", err)
	}

	// A crash in the middle of a write can leave a torn last line. Terminate it
	// so the next record starts on its own line.
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("wal: stat segment: %w", err)
	}
	size := info.Size()
	if size > 0 {
		last, err := lastByte(w.Path(), size)
		if err != nil {
			f.Close()
			return err
		}
		if last != '\n' {
			if _, err := f.WriteString("\n"); err != nil {
				f.Close()
				return fmt.Errorf("wal: repair torn record: %w", err)
			}
			if err := f.Sync(); err != nil {
				f.Close()
				return fmt.Errorf("wal: sync: %w", err)
			}
			size++
		}
	}

	w.file = f
	w.size = size
	w.torn = false
	return syncDir(w.dir)
}

func lastByte(path string, size int64) (byte, error) {
	r, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("wal: open segment: %w", err)
	}
	defer r.Close()

	buf := make([]byte, 1)
	if _, err := r.ReadAt(buf, size-1); err != nil {
		return 0, fmt.Errorf("wal: read segment tail: %w", err)
	}
	return buf[0], nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("wal: open dir: %w", err)
	}
	defer d.Close()
	// Some filesystems do not support fsync on directories.
	_ = d.Sync()
	return nil
}

// append writes one record and forces it to stable storage.
func (w *WAL) append(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return ErrClosed
	}

	e.Timestamp = w.now()
	line := e.Encode() + "\n"
	if w.torn {
		line = "\n" + line
	}
	n, err := w.file.WriteString(line)
	if err != nil {
		w.discardPartial(n)
		return fmt.Errorf("wal: write %s: %w", e.Op, err)
	}
	w.size += int64(n)
	w.torn = false
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("wal: sync %s: %w", e.Op, err)
	}

	switch e.Op {
	case OpBegin:
		w.inFlight[e.TransactionID] = struct{}{}
	case OpCommit, OpRollback:
		delete(w.inFlight, e.TransactionID)
	}
	return nil
}

// discardPartial cuts a failed write back to the last complete record so the
// next record does not run into it. If that fails the next record starts on a
// new line and the fragment is skipped as malformed.
func (w *WAL) discardPartial(written int) {
	if written == 0 {
		return
	}
	if err := w.file.Truncate(w.size); err != nil {
		w.torn = true
		logger.Log.Errorw("failed to discard partial wal record", "path", w.Path(), "error", err)
	}
}

// LogBegin records the start of a transaction.
func (w *WAL) LogBegin(txID string) error {
	return w.append(Entry{Op: OpBegin, TransactionID: txID})
}

// LogDebit records a debit with the balance before and after it.
func (w *WAL) LogDebit(txID string, accountID int64, amount, before, after decimal.Decimal) error {
	return w.append(Entry{
		Op:            OpDebit,
		TransactionID: txID,
		AccountID:     accountID,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
	})
}

// LogCredit records a credit with the balance before and after it.
func (w *WAL) LogCredit(txID string, accountID int64, amount, before, after decimal.Decimal) error {
	return w.append(Entry{
		Op:            OpCredit,
		TransactionID: txID,
		AccountID:     accountID,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
	})
}

// LogCommit records that a transaction committed.
func (w *WAL) LogCommit(txID string) error {
	return w.append(Entry{Op: OpCommit, TransactionID: txID})
}

// LogRollback records that a transaction rolled back.
func (w *WAL) LogRollback(txID string) error {
	return w.append(Entry{Op: OpRollback, TransactionID: txID})
}

// Checkpoint writes a CHECKPOINT marker.
func (w *WAL) Checkpoint() error {
	if err := w.append(Entry{Op: OpCheckpoint}); err != nil {
		return err
	}
	logger.Log.Infow("wal checkpoint created", "path", w.Path())
	return nil
}

// InFlight returns the number of transactions begun on the active segment
// that have no terminal record yet.
func (w *WAL) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inFlight)
}

// Archive renames the active segment to transactions_<timestamp>.wal and
// starts a fresh one. It refuses while any transaction is in flight, because
// the new segment would not carry their BEGIN records.
func (w *WAL) Archive() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return "", ErrClosed
	}
	if len(w.inFlight) > 0 {
		return "", fmt.Errorf("%w: %d", ErrInFlight, len(w.inFlight))
	}

	if err := w.file.Close(); err != nil {
		return "", fmt.Errorf("wal: close segment: %w", err)
	}
	w.file = nil

	base := "transactions_" + w.now().Format(archiveLayout)
	archived := filepath.Join(w.dir, base+".wal")
	for i := 1; fileExists(archived); i++ {
		archived = filepath.Join(w.dir, fmt.Sprintf("%s_%d.wal", base, i))
	}

	if err := os.Rename(w.Path(), archived); err != nil {
		// Keep appending to the old segment rather than losing the log.
		if reopenErr := w.openSegment(); reopenErr != nil {
			return "", errors.Join(fmt.Errorf("wal: archive: %w", err), reopenErr)
		}
		return "", fmt.Errorf("wal: archive: %w", err)
	}
	if err := w.openSegment(); err != nil {
		return "", err
	}

	logger.Log.Infow("wal archived", "archive", archived)
	return archived, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Close closes the active segment. Further writes return ErrClosed.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Entries replays every well-formed record of the active segment.
// Malformed lines are skipped; their count is returned.
func (w *WAL) Entries() ([]Entry, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var entries []Entry
	skipped, err := scan(w.Path(), func(e Entry) { entries = append(entries, e) })
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	return entries, skipped, err
}

// Uncommitted replays the active segment and returns, in BEGIN order, the ids
// of transactions that have a BEGIN record but no COMMIT or ROLLBACK.
func (w *WAL) Uncommitted() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids, skipped, err := scanUncommitted(w.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if skipped > 0 {
		logger.Log.Warnw("skipped malformed wal records", "path", w.Path(), "count", skipped)
	}
	return ids, err
}

func scanUncommitted(path string) ([]string, int, error) {
	var order []string
	open := make(map[string]bool)

	skipped, err := scan(path, func(e Entry) {
		switch e.Op {
		case OpBegin:
			if !open[e.TransactionID] {
				order = append(order, e.TransactionID)
			}
			open[e.TransactionID] = true
		case OpCommit, OpRollback:
			open[e.TransactionID] = false
		}
	})
	if err != nil {
		return nil, skipped, err
	}

	ids := make([]string, 0, len(order))
	for _, id := range order {
		if open[id] {
			ids = append(ids, id)
		}
	}
	return ids, skipped, nil
}

func scan(path string, fn func(Entry)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return scanReader(f, fn)
}

func scanReader(r io.Reader, fn func(Entry)) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	skipped := 0
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		e, err := ParseEntry(line)
		if err != nil {
			skipped++
			continue
		}
		fn(e)
	}
	if err := sc.Err(); err != nil {
		return skipped, fmt.Errorf("wal: read: %w", err)
	}
	return skipped, nil
}
