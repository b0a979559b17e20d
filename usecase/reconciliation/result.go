package reconciliation

import "github.com/radhian/expense-reconciliation/entity"

// SummarizeFailures counts failure reasons across both sides.
func SummarizeFailures(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry) map[entity.FailureReason]int {
	diagnostics := make(map[entity.FailureReason]int)
	for _, expense := range expenses {
		if expense.Failed() {
			diagnostics[expense.FailureReason]++
		}
	}
	for _, entry := range entries {
		if entry.Failed() {
			diagnostics[entry.FailureReason]++
		}
	}
	return diagnostics
}

// BuildResult partitions both sides by MatchID, keeping input order, and
// carries the diagnostics as given.
func BuildResult(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry, diagnostics map[entity.FailureReason]int) entity.ReconciliationResult {
	result := entity.ReconciliationResult{
		MatchedExpenses:   make([]*entity.PlatformExpense, 0),
		UnmatchedExpenses: make([]*entity.PlatformExpense, 0),
		MatchedEntries:    make([]*entity.LedgerEntry, 0),
		UnmatchedEntries:  make([]*entity.LedgerEntry, 0),
		Diagnostics:       diagnostics,
	}

	for _, expense := range expenses {
		if expense.Matched() {
			result.MatchedExpenses = append(result.MatchedExpenses, expense)
		} else {
			result.UnmatchedExpenses = append(result.UnmatchedExpenses, expense)
		}
	}
	for _, entry := range entries {
		if entry.Matched() {
			result.MatchedEntries = append(result.MatchedEntries, entry)
		} else {
			result.UnmatchedEntries = append(result.UnmatchedEntries, entry)
		}
	}
	return result
}
