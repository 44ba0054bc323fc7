package wal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the first field of every WAL record.
type Operation string

const (
	OpBegin      Operation = "BEGIN"
	OpDebit      Operation = "DEBIT"
	OpCredit     Operation = "CREDIT"
	OpCommit     Operation = "COMMIT"
	OpRollback   Operation = "ROLLBACK"
	OpCheckpoint Operation = "CHECKPOINT"
)

// TimestampLayout is the layout of the trailing timestamp field.
const TimestampLayout = "2006-01-02 15:04:05.000"

const fieldSep = "|"

// Entry is one parsed WAL record.
//
// Debit and credit records carry the account and the balances around the
// change; the other operations only carry the transaction uuid.
type Entry struct {
	Op            Operation
	TransactionID string
	AccountID     int64
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Timestamp     time.Time
}

// Encode renders the entry in the pipe-delimited line format, without newline.
func (e Entry) Encode() string {
	ts := e.Timestamp.Format(TimestampLayout)
	switch e.Op {
	case OpDebit, OpCredit:
		return strings.Join([]string{
			string(e.Op),
			e.TransactionID,
			strconv.FormatInt(e.AccountID, 10),
			e.Amount.StringFixed(2),
			e.BalanceBefore.StringFixed(2),
			e.BalanceAfter.StringFixed(2),
			ts,
		}, fieldSep)
	case OpCheckpoint:
		return string(e.Op) + fieldSep + ts
	default:
		return strings.Join([]string{string(e.Op), e.TransactionID, ts}, fieldSep)
	}
}

// ParseEntry parses one WAL line.
func ParseEntry(line string) (Entry, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), fieldSep)
	op := Operation(parts[0])

	var e Entry
	e.Op = op

	switch op {
	case OpCheckpoint:
		if len(parts) != 2 {
			return Entry{}, fmt.Errorf("wal: %s record has %d fields", op, len(parts))
		}
	case OpBegin, OpCommit, OpRollback:
		if len(parts) != 3 {
			return Entry{}, fmt.Errorf("wal: %s record has %d fields", op, len(parts))
		}
		e.TransactionID = parts[1]
	case OpDebit, OpCredit:
		if len(parts) != 7 {
			return Entry{}, fmt.Errorf("wal: %s record has %d fields", op, len(parts))
		}
		e.TransactionID = parts[1]
		var err error
		if e.AccountID, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
			return Entry{}, fmt.Errorf("wal: bad account id %q: %w", parts[2], err)
		}
		if e.Amount, err = decimal.NewFromString(parts[3]); err != nil {
			return Entry{}, fmt.Errorf("wal: bad amount %q: %w", parts[3], err)
		}
		if e.BalanceBefore, err = decimal.NewFromString(parts[4]); err != nil {
			return Entry{}, fmt.Errorf("wal: bad balance %q: %w", parts[4], err)
		}
		if e.BalanceAfter, err = decimal.NewFromString(parts[5]); err != nil {
			return Entry{}, fmt.Errorf("wal: bad balance %q: %w", parts[5], err)
		}
	default:
		return Entry{}, fmt.Errorf("wal: unknown operation %q", parts[0])
	}

	ts, err := time.ParseInLocation(TimestampLayout, parts[len(parts)-1], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("wal: bad timestamp %q: %w", parts[len(parts)-1], err)
	}
	e.Timestamp = ts
	return e, nil
}
