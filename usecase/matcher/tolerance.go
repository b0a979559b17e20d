package matcher

import (
	"sort"
	"time"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"

	"github.com/shopspring/decimal"
)

// ToleranceMatch pairs each unresolved entry with the first unresolved
// expense of the same user, dated within the date tolerance, whose value is
// within the amount tolerance.
func (m *Matcher) ToleranceMatch(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry) ([]entity.Match, error) {
	matches := make([]entity.Match, 0)
	for _, entry := range entries {
		if entry.Resolved() {
			continue
		}
		for _, expense := range expenses {
			if expense.Resolved() || expense.User != entry.User {
				continue
			}
			if !m.datesClose(expense.Date, entry.Date) {
				continue
			}
			if !withinTolerance(expense.Value, entry.Value, m.cfg.Tolerance) {
				continue
			}

			match := entity.Match{
				ID:        m.groupMatchID(entry, []*entity.PlatformExpense{expense}),
				Expenses:  []*entity.PlatformExpense{expense},
				Entries:   []*entity.LedgerEntry{entry},
				Type:      consts.MatchTypeTolerance,
				Tolerance: m.cfg.Tolerance,
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

// AggregationMatch pairs an unresolved entry with several unresolved
// expenses of the same user whose values add up to the entry value. Expenses
// are taken largest first and only while the running total stays within
// the tolerance of the target.
func (m *Matcher) AggregationMatch(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry) ([]entity.Match, error) {
	matches := make([]entity.Match, 0)
	for _, entry := range entries {
		if entry.Resolved() {
			continue
		}

		bucket := make([]*entity.PlatformExpense, 0)
		for _, expense := range expenses {
			if expense.Resolved() || expense.User != entry.User || !m.datesClose(expense.Date, entry.Date) {
				continue
			}
			bucket = append(bucket, expense)
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Value.GreaterThan(bucket[j].Value)
		})

		ceiling := entry.Value.Add(m.cfg.Tolerance)
		total := decimal.Zero
		combination := make([]*entity.PlatformExpense, 0)
		for _, expense := range bucket {
			if total.Add(expense.Value).LessThanOrEqual(ceiling) {
				combination = append(combination, expense)
				total = total.Add(expense.Value)
			}
			if len(combination) > 0 && withinTolerance(total, entry.Value, m.cfg.Tolerance) {
				match := entity.Match{
					ID:        m.groupMatchID(entry, combination),
					Expenses:  combination,
					Entries:   []*entity.LedgerEntry{entry},
					Type:      consts.MatchTypeAggregation,
					Tolerance: m.cfg.Tolerance,
				}
				if err := link(match); err != nil {
					return nil, err
				}
				matches = append(matches, match)
				break
			}
		}
	}
	return matches, nil
}

func (m *Matcher) groupMatchID(entry *entity.LedgerEntry, expenses []*entity.PlatformExpense) string {
	if entry.DocumentID != "" {
		return entry.DocumentID
	}
	for _, expense := range expenses {
		if expense.ExpenseID != "" {
			return expense.ExpenseID
		}
	}
	return m.newID()
}

// datesClose compares calendar days, ignoring the time of day.
func (m *Matcher) datesClose(a, b time.Time) bool {
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	diff := dayA.Sub(dayB)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(m.cfg.DateToleranceDays)*24*time.Hour
}

func withinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
