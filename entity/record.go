package entity

import (
	"errors"
	"time"

	"github.com/radhian/expense-reconciliation/consts"

	"github.com/shopspring/decimal"
)

var ErrAlreadyFailed = errors.New("record already carries a failure reason")

type EntryDirection string

const (
	DirectionDebit  EntryDirection = "DEBIT"
	DirectionCredit EntryDirection = "CREDIT"
)

// RawField is one original column of an ingested row.
type RawField struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// RawFields keeps the ingested columns in file order.
type RawFields []RawField

func (f RawFields) Get(column string) (string, bool) {
	for _, field := range f {
		if field.Column == column {
			return field.Value, true
		}
	}
	return "", false
}

// BaseRecord holds the fields shared by both sides of a reconciliation.
// After normalization Value is never negative; the original sign lives in Direction.
type BaseRecord struct {
	User      string          `json:"user"`
	Date      time.Time       `json:"date"`
	Value     decimal.Decimal `json:"value"`
	Direction EntryDirection  `json:"entry_direction,omitempty"`
	RawFields RawFields       `json:"raw_fields,omitempty"`
}

func (b *BaseRecord) Base() *BaseRecord { return b }

// Record is implemented by PlatformExpense and LedgerEntry.
type Record interface {
	Base() *BaseRecord
	Outcome() *Resolution
}

// Resolution is the outcome of a record. A record ends a run either matched
// (MatchID set) or failed (FailureReason set), never both.
type Resolution struct {
	MatchID       string           `json:"match_id,omitempty"`
	MatchType     consts.MatchType `json:"match_type,omitempty"`
	FailureReason FailureReason    `json:"failure_reason,omitempty"`
}

func (r *Resolution) Outcome() *Resolution { return r }

func (r *Resolution) Matched() bool { return r.MatchID != "" }

func (r *Resolution) Failed() bool { return r.FailureReason != "" }

func (r *Resolution) Resolved() bool { return r.Matched() || r.Failed() }

func (r *Resolution) MarkMatched(matchID string, matchType consts.MatchType) error {
	if r.Failed() {
		return ErrAlreadyFailed
	}
	r.MatchID = matchID
	r.MatchType = matchType
	return nil
}

// Fail overwrites any previous failure reason.
func (r *Resolution) Fail(reason FailureReason) {
	r.FailureReason = reason
}

// FailIfUnset records reason only when the record has no failure reason yet.
func (r *Resolution) FailIfUnset(reason FailureReason) {
	if r.FailureReason == "" {
		r.FailureReason = reason
	}
}
