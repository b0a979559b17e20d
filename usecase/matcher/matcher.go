// Package matcher pairs platform expenses with ERP ledger entries and gives
// every record left over a ranked failure reason.
//
// Passes run once each, in a fixed order:
//  1. exact pass: shared identifier, equal value, same competence month
//  2. tolerance pass (optional): same user, dates one day apart, value within tolerance
//  3. aggregation pass (optional): several expenses adding up to one entry
//  4. classification of everything still unresolved
package matcher

import (
	"errors"
	"fmt"
	"time"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvariantViolation marks a defect in the matching passes, never a business outcome.
var ErrInvariantViolation = errors.New("reconciliation invariant violated")

type Config struct {
	TolerancePass     bool
	AggregationPass   bool
	Tolerance         decimal.Decimal
	DateToleranceDays int
}

func DefaultConfig() Config {
	return Config{
		Tolerance:         decimal.RequireFromString(consts.DefaultTolerance),
		DateToleranceDays: consts.DefaultDateToleranceDay,
	}
}

type Matcher struct {
	cfg   Config
	newID func() string
}

func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg, newID: uuid.NewString}
}

// Reconcile runs every enabled pass exactly once and returns the matches
// they produced. Match and failure fields are written in place; callers
// derive partitions from them afterwards.
func (m *Matcher) Reconcile(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry) ([]entity.Match, error) {
	matches, err := ExactMatch(expenses, entries)
	if err != nil {
		return nil, err
	}

	if m.cfg.TolerancePass {
		found, err := m.ToleranceMatch(expenses, entries)
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}

	if m.cfg.AggregationPass {
		found, err := m.AggregationMatch(expenses, entries)
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}

	if err := ClassifyUnmatched(expenses, entries); err != nil {
		return matches, err
	}

	if err := VerifyInvariants(expenses, entries, matches); err != nil {
		return matches, err
	}
	return matches, nil
}

// SameCompetence reports whether a and b fall in the same (year, month).
func SameCompetence(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// link writes the match on every contributing record.
func link(match entity.Match) error {
	for _, expense := range match.Expenses {
		if err := expense.MarkMatched(match.ID, match.Type); err != nil {
			return fmt.Errorf("%w: expense %q: %v", ErrInvariantViolation, expense.ExpenseID, err)
		}
	}
	for _, entry := range match.Entries {
		if err := entry.MarkMatched(match.ID, match.Type); err != nil {
			return fmt.Errorf("%w: entry %q: %v", ErrInvariantViolation, entry.DocumentID, err)
		}
	}
	return nil
}

// VerifyInvariants checks that every record carries exactly one outcome and
// that each match id is shared by all of its records.
func VerifyInvariants(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry, matches []entity.Match) error {
	for i, expense := range expenses {
		if err := verifyOutcome(expense.Outcome()); err != nil {
			return fmt.Errorf("%w: expense #%d (%q): %s", ErrInvariantViolation, i, expense.ExpenseID, err)
		}
	}
	for i, entry := range entries {
		if err := verifyOutcome(entry.Outcome()); err != nil {
			return fmt.Errorf("%w: entry #%d (%q): %s", ErrInvariantViolation, i, entry.DocumentID, err)
		}
	}
	for _, match := range matches {
		for _, expense := range match.Expenses {
			if expense.MatchID != match.ID {
				return fmt.Errorf("%w: expense %q carries %q instead of match %q", ErrInvariantViolation, expense.ExpenseID, expense.MatchID, match.ID)
			}
		}
		for _, entry := range match.Entries {
			if entry.MatchID != match.ID {
				return fmt.Errorf("%w: entry %q carries %q instead of match %q", ErrInvariantViolation, entry.DocumentID, entry.MatchID, match.ID)
			}
		}
	}
	return nil
}

func verifyOutcome(r *entity.Resolution) error {
	switch {
	case r.Matched() && r.Failed():
		return errors.New("matched and failed at once")
	case !r.Resolved():
		return errors.New("left unprocessed")
	case r.Failed() && !r.FailureReason.Valid():
		return fmt.Errorf("unknown failure reason %q", r.FailureReason)
	}
	return nil
}
