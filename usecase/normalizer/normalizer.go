// Package normalizer prepares ingested records for matching. Every step
// only mutates fields in place, never removes or reorders records, and can
// be applied more than once with the same outcome.
package normalizer

import (
	"strings"
	"time"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"
)

type Normalizer struct {
	cfg Config
}

func New(cfg Config) *Normalizer {
	if cfg.Categories == nil {
		cfg.Categories = map[string]string{}
	}
	return &Normalizer{cfg: cfg}
}

// Normalize runs every step in its fixed order: directions on both sides,
// then category mapping, business-date shift, approval backfill and
// duplicate detection on the expenses. It returns the duplicate groups found.
func (n *Normalizer) Normalize(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry) []DuplicateGroup {
	NormalizeDirections(expenses)
	NormalizeDirections(entries)
	n.MapCategories(expenses)
	n.ShiftBusinessDates(expenses)
	n.BackfillApprovals(expenses)
	return DetectDuplicates(expenses)
}

// NormalizeDirections moves the sign of every value into its entry direction.
// A record that was already normalized keeps its direction.
func NormalizeDirections[R entity.Record](records []R) {
	for _, record := range records {
		base := record.Base()
		switch {
		case base.Value.IsNegative():
			base.Direction = entity.DirectionDebit
			base.Value = base.Value.Abs()
		case base.Direction == "":
			base.Direction = entity.DirectionCredit
		}
	}
}

func (n *Normalizer) MapCategories(expenses []*entity.PlatformExpense) {
	for _, expense := range expenses {
		trimmed := strings.TrimSpace(expense.Category)
		if trimmed == "" {
			expense.Category = consts.CategoryManualReview
			continue
		}
		if canonical, ok := n.cfg.Categories[trimmed]; ok {
			expense.Category = canonical
			continue
		}
		expense.Category = trimmed
	}
}

// ShiftBusinessDates moves expenses made at or after the end-of-day threshold
// to the next calendar day, keeping hour and minute.
func (n *Normalizer) ShiftBusinessDates(expenses []*entity.PlatformExpense) {
	for _, expense := range expenses {
		if expense.BusinessDateResolved {
			continue
		}
		if n.cfg.ShiftAt.ReachedBy(expense.Date) {
			expense.Date = expense.Date.AddDate(0, 0, 1)
		}
		expense.BusinessDateResolved = true
	}
}

// BackfillApprovals uses the business date as approval date for validated
// expenses without one, and rejects unvalidated expenses without one.
func (n *Normalizer) BackfillApprovals(expenses []*entity.PlatformExpense) {
	for _, expense := range expenses {
		if expense.ApprovalDate != nil {
			continue
		}
		if n.isValidated(expense.Status) {
			approval := expense.Date
			expense.ApprovalDate = &approval
			continue
		}
		expense.FailIfUnset(entity.ReasonStatusNotValidated)
	}
}

func (n *Normalizer) isValidated(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), n.cfg.ValidatedStatus)
}

// DuplicateKey identifies expenses that are the same event on the platform.
type DuplicateKey struct {
	User  string
	Date  int64
	Value string
}

type DuplicateGroup struct {
	Key      DuplicateKey
	Expenses []*entity.PlatformExpense
}

func duplicateKeyOf(expense *entity.PlatformExpense) DuplicateKey {
	return DuplicateKey{
		User:  expense.User,
		Date:  expense.Date.UnixNano(),
		Value: expense.Value.String(),
	}
}

// DetectDuplicates flags every member of a (user, date, value) group with more
// than one expense, overriding any earlier reason. Groups are returned in order
// of first appearance.
func DetectDuplicates(expenses []*entity.PlatformExpense) []DuplicateGroup {
	order := make([]DuplicateKey, 0)
	registry := make(map[DuplicateKey][]*entity.PlatformExpense)
	for _, expense := range expenses {
		key := duplicateKeyOf(expense)
		if _, seen := registry[key]; !seen {
			order = append(order, key)
		}
		registry[key] = append(registry[key], expense)
	}

	groups := make([]DuplicateGroup, 0)
	for _, key := range order {
		members := registry[key]
		if len(members) < 2 {
			continue
		}
		for _, expense := range members {
			expense.Fail(entity.ReasonDuplicate)
		}
		groups = append(groups, DuplicateGroup{Key: key, Expenses: members})
	}
	return groups
}

// ValidatePeriod rejects expenses whose business date falls outside the
// competence month. Duplicates keep their reason.
func ValidatePeriod(expenses []*entity.PlatformExpense, competence time.Time) {
	for _, expense := range expenses {
		if expense.Date.Year() == competence.Year() && expense.Date.Month() == competence.Month() {
			continue
		}
		if expense.FailureReason == entity.ReasonDuplicate {
			continue
		}
		expense.Fail(entity.ReasonOutsidePeriod)
	}
}
