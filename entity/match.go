package entity

import (
	"github.com/radhian/expense-reconciliation/consts"

	"github.com/shopspring/decimal"
)

// Match is one resolved correspondence between the two sources.
type Match struct {
	ID        string
	Expenses  []*PlatformExpense
	Entries   []*LedgerEntry
	Type      consts.MatchType
	Tolerance decimal.Decimal
}

// ReconciliationResult partitions both sides by match state.
type ReconciliationResult struct {
	MatchedExpenses   []*PlatformExpense
	UnmatchedExpenses []*PlatformExpense
	MatchedEntries    []*LedgerEntry
	UnmatchedEntries  []*LedgerEntry
	Diagnostics       map[FailureReason]int
}

func (r *ReconciliationResult) AllExpenses() []*PlatformExpense {
	all := make([]*PlatformExpense, 0, len(r.MatchedExpenses)+len(r.UnmatchedExpenses))
	all = append(all, r.MatchedExpenses...)
	return append(all, r.UnmatchedExpenses...)
}

func (r *ReconciliationResult) AllEntries() []*LedgerEntry {
	all := make([]*LedgerEntry, 0, len(r.MatchedEntries)+len(r.UnmatchedEntries))
	all = append(all, r.MatchedEntries...)
	return append(all, r.UnmatchedEntries...)
}
