package matcher

import (
	"fmt"

	"github.com/radhian/expense-reconciliation/entity"
)

// ClassifyUnmatched gives every record without a match or failure reason the
// first failing check, least specific cause first. Counterparts are looked up
// among all records sharing the identifier, matched or not. Reasons for both
// sides are computed before any is written, so a reason given to one side
// never changes what the other side sees.
func ClassifyUnmatched(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry) error {
	entriesByDocument := make(map[string][]*entity.LedgerEntry)
	for _, entry := range entries {
		if !entry.HasIdentifier() {
			continue
		}
		entriesByDocument[entry.DocumentID] = append(entriesByDocument[entry.DocumentID], entry)
	}

	expensesByID := make(map[string][]*entity.PlatformExpense)
	for _, expense := range expenses {
		if !expense.HasIdentifier() {
			continue
		}
		expensesByID[expense.ExpenseID] = append(expensesByID[expense.ExpenseID], expense)
	}

	expenseReasons := make(map[*entity.PlatformExpense]entity.FailureReason)
	for _, expense := range expenses {
		if expense.Resolved() {
			continue
		}
		reason, err := classifyExpense(expense, entriesByDocument[expense.ExpenseID])
		if err != nil {
			return err
		}
		expenseReasons[expense] = reason
	}

	entryReasons := make(map[*entity.LedgerEntry]entity.FailureReason)
	for _, entry := range entries {
		if entry.Resolved() {
			continue
		}
		reason, err := classifyEntry(entry, expensesByID[entry.DocumentID])
		if err != nil {
			return err
		}
		entryReasons[entry] = reason
	}

	for expense, reason := range expenseReasons {
		expense.Fail(reason)
	}
	for entry, reason := range entryReasons {
		entry.Fail(reason)
	}
	return nil
}

func classifyExpense(expense *entity.PlatformExpense, counterparts []*entity.LedgerEntry) (entity.FailureReason, error) {
	if !expense.HasIdentifier() {
		return entity.ReasonExpenseNoIdentifier, nil
	}
	if len(counterparts) == 0 {
		return entity.ReasonNoCorrespondenceInERP, nil
	}

	sameValue := make([]*entity.LedgerEntry, 0, len(counterparts))
	for _, entry := range counterparts {
		if entry.Value.Equal(expense.Value) {
			sameValue = append(sameValue, entry)
		}
	}
	if len(sameValue) == 0 {
		return entity.ReasonValueMismatchInERP, nil
	}

	if expense.ApprovalDate == nil {
		return entity.ReasonExpenseNoApproval, nil
	}

	competent := 0
	for _, entry := range sameValue {
		if !SameCompetence(*expense.ApprovalDate, entry.EffectiveMovementDate()) {
			continue
		}
		if !entry.Matched() {
			return "", fmt.Errorf("%w: expense %q passed every check against unmatched entry %q",
				ErrInvariantViolation, expense.ExpenseID, entry.DocumentID)
		}
		competent++
	}
	if competent == 0 {
		return entity.ReasonApprovalOutsideCompetence, nil
	}
	return entity.ReasonCounterpartAlreadyMatched, nil
}

func classifyEntry(entry *entity.LedgerEntry, counterparts []*entity.PlatformExpense) (entity.FailureReason, error) {
	if !entry.HasIdentifier() {
		return entity.ReasonEntryNoIdentifier, nil
	}
	if len(counterparts) == 0 {
		return entity.ReasonNoCorrespondenceInPlatform, nil
	}

	sameValue := make([]*entity.PlatformExpense, 0, len(counterparts))
	for _, expense := range counterparts {
		if expense.Value.Equal(entry.Value) {
			sameValue = append(sameValue, expense)
		}
	}
	if len(sameValue) == 0 {
		return entity.ReasonValueMismatchInPlatform, nil
	}

	movement := entry.EffectiveMovementDate()
	if movement.IsZero() {
		return entity.ReasonCompetenceMissingInERP, nil
	}

	competent := make([]*entity.PlatformExpense, 0, len(sameValue))
	for _, expense := range sameValue {
		if expense.ApprovalDate != nil && SameCompetence(*expense.ApprovalDate, movement) {
			competent = append(competent, expense)
		}
	}
	if len(competent) == 0 {
		return entity.ReasonCompetenceMismatchPlatform, nil
	}

	rejected := false
	for _, expense := range competent {
		if !expense.Resolved() {
			return "", fmt.Errorf("%w: entry %q passed every check against unresolved expense %q",
				ErrInvariantViolation, entry.DocumentID, expense.ExpenseID)
		}
		if expense.Failed() {
			rejected = true
		}
	}
	if rejected {
		return entity.ReasonCounterpartRejectedPlatform, nil
	}
	return entity.ReasonCounterpartAlreadyMatched, nil
}
