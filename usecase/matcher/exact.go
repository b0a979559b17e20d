package matcher

import (
	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"

	"github.com/shopspring/decimal"
)

// ExactMatch resolves ledger entries against expenses sharing their
// identifier, with equal value and approval in the entry's competence month.
// Candidates are taken in input order and consumed at most once.
func ExactMatch(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry) ([]entity.Match, error) {
	buckets := make(map[string][]int)
	for i, expense := range expenses {
		if expense.Resolved() || !expense.HasIdentifier() {
			continue
		}
		buckets[expense.ExpenseID] = append(buckets[expense.ExpenseID], i)
	}

	consumed := make(map[int]bool)
	matches := make([]entity.Match, 0)

	for _, entry := range entries {
		if entry.Resolved() || !entry.HasIdentifier() {
			continue
		}
		competence := entry.EffectiveMovementDate()

		for _, idx := range buckets[entry.DocumentID] {
			if consumed[idx] {
				continue
			}
			expense := expenses[idx]
			if !expense.Value.Equal(entry.Value) {
				continue
			}
			if expense.ApprovalDate == nil || !SameCompetence(*expense.ApprovalDate, competence) {
				continue
			}

			consumed[idx] = true
			match := entity.Match{
				ID:        exactMatchID(expense, entry),
				Expenses:  []*entity.PlatformExpense{expense},
				Entries:   []*entity.LedgerEntry{entry},
				Type:      consts.MatchTypeExact,
				Tolerance: decimal.Zero,
			}
			if err := link(match); err != nil {
				return nil, err
			}
			matches = append(matches, match)
			break
		}
	}
	return matches, nil
}

func exactMatchID(expense *entity.PlatformExpense, entry *entity.LedgerEntry) string {
	if entry.DocumentID != "" {
		return entry.DocumentID
	}
	return expense.ExpenseID
}
