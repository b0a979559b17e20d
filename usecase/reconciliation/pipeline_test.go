package reconciliation

import (
	"testing"
	"time"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"
	"github.com/radhian/expense-reconciliation/usecase/matcher"
	"github.com/radhian/expense-reconciliation/usecase/normalizer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func expense(id, user, value string, date time.Time) *entity.PlatformExpense {
	return &entity.PlatformExpense{
		BaseRecord: entity.BaseRecord{User: user, Date: date, Value: decimal.RequireFromString(value)},
		Status:     "validated",
		Category:   "Hospedagem",
		ExpenseID:  id,
	}
}

func entry(document, user, value string, date time.Time, movement *time.Time) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		BaseRecord:   entity.BaseRecord{User: user, Date: date, Value: decimal.RequireFromString(value)},
		EntryKind:    "Carga Cartão",
		DocumentID:   document,
		MovementDate: movement,
	}
}

func newTestPipeline() *Pipeline {
	return NewPipeline(normalizer.DefaultConfig(), matcher.DefaultConfig())
}

func TestPipeline_DuplicatesFlaggedBeforeMatching(t *testing.T) {
	first := expense("E1", "ana", "100.00", at(2024, time.March, 5, 10, 0))
	second := expense("E1", "ana", "100.00", at(2024, time.March, 5, 10, 0))
	ledger := entry("E1", "ana", "100.00", at(2024, time.March, 10, 0, 0), ptr(at(2024, time.March, 10, 0, 0)))

	out, err := newTestPipeline().Run(PipelineInput{
		Expenses: []*entity.PlatformExpense{first, second},
		Entries:  []*entity.LedgerEntry{ledger},
	})
	require.NoError(t, err)

	assert.Empty(t, out.Matches)
	require.Len(t, out.Duplicates, 1)
	assert.Equal(t, entity.ReasonDuplicate, first.FailureReason)
	assert.Equal(t, entity.ReasonDuplicate, second.FailureReason)
	assert.Empty(t, first.MatchID)
	assert.Equal(t, entity.ReasonCounterpartRejectedPlatform, ledger.FailureReason)
	assert.Equal(t, 2, out.Result.Diagnostics[entity.ReasonDuplicate])
	assert.Len(t, out.Result.UnmatchedExpenses, 2)
	assert.Len(t, out.Result.UnmatchedEntries, 1)
}

func TestPipeline_EndToEnd(t *testing.T) {
	matched := expense("E1", "ana", "-100.00", at(2024, time.March, 5, 10, 0))
	evening := expense("E2", "bia", "50.00", at(2024, time.March, 31, 19, 0))
	evening.ApprovalDate = ptr(at(2024, time.March, 31, 19, 0))
	pending := expense("E3", "caio", "10.00", at(2024, time.March, 6, 9, 0))
	pending.Status = "pending"
	noID := expense("", "duda", "20.00", at(2024, time.March, 7, 9, 0))
	noID.Category = ""

	entries := []*entity.LedgerEntry{
		entry("E1", "ana", "-100.00", at(2024, time.March, 12, 0, 0), ptr(at(2024, time.March, 10, 0, 0))),
		entry("E2", "bia", "50.00", at(2024, time.March, 31, 0, 0), ptr(at(2024, time.March, 31, 0, 0))),
		entry("", "ana", "2.50", at(2024, time.March, 12, 0, 0), nil),
	}
	entries[2].EntryKind = consts.LedgerKindFee
	expenses := []*entity.PlatformExpense{matched, evening, pending, noID}

	out, err := newTestPipeline().Run(PipelineInput{
		Expenses:   expenses,
		Entries:    entries,
		Competence: at(2024, time.March, 1, 0, 0),
	})
	require.NoError(t, err)

	require.Len(t, out.Matches, 1)
	assert.Equal(t, "E1", matched.MatchID)
	assert.Equal(t, consts.MatchTypeExact, entries[0].MatchType)
	assert.Equal(t, entity.DirectionDebit, matched.Direction)

	// 19:00 on the 31st moves into April
	assert.Equal(t, at(2024, time.April, 1, 19, 0), evening.Date)
	assert.Equal(t, entity.ReasonOutsidePeriod, evening.FailureReason)
	assert.Equal(t, entity.ReasonCounterpartRejectedPlatform, entries[1].FailureReason)

	assert.Equal(t, entity.ReasonStatusNotValidated, pending.FailureReason)
	assert.Equal(t, entity.ReasonExpenseNoIdentifier, noID.FailureReason)
	assert.Equal(t, consts.CategoryManualReview, noID.Category)
	assert.Equal(t, entity.ReasonEntryNoIdentifier, entries[2].FailureReason)

	assert.Equal(t, map[entity.FailureReason]int{
		entity.ReasonOutsidePeriod:               1,
		entity.ReasonCounterpartRejectedPlatform: 1,
		entity.ReasonStatusNotValidated:          1,
		entity.ReasonExpenseNoIdentifier:         1,
		entity.ReasonEntryNoIdentifier:           1,
	}, out.Result.Diagnostics)

	for _, record := range out.Result.AllExpenses() {
		assert.True(t, record.Matched() != record.Failed(), "expense %q", record.ExpenseID)
	}
	for _, record := range out.Result.AllEntries() {
		assert.True(t, record.Matched() != record.Failed(), "entry %q", record.DocumentID)
	}
}

func TestPipeline_AmbiguousCompetenceThenConfirmed(t *testing.T) {
	march := expense("E1", "ana", "100.00", at(2024, time.March, 5, 10, 0))
	april := expense("E2", "ana", "40.00", at(2024, time.April, 2, 10, 0))
	entries := []*entity.LedgerEntry{
		entry("E1", "ana", "100.00", at(2024, time.March, 10, 0, 0), nil),
	}
	in := PipelineInput{Expenses: []*entity.PlatformExpense{march, april}, Entries: entries}
	pipeline := newTestPipeline()

	_, err := pipeline.Run(in)
	var ambiguous *AmbiguousCompetenceError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []time.Time{at(2024, time.March, 1, 0, 0), at(2024, time.April, 1, 0, 0)}, ambiguous.Options)
	assert.Empty(t, march.MatchID)

	in.Competence = at(2024, time.March, 1, 0, 0)
	out, err := pipeline.Run(in)
	require.NoError(t, err)
	assert.Equal(t, "E1", march.MatchID)
	assert.Equal(t, at(2024, time.March, 5, 10, 0), march.Date)
	assert.Equal(t, entity.ReasonOutsidePeriod, april.FailureReason)
	assert.Equal(t, in.Competence, out.Competence)
}

func TestPipeline_SingleMonthCompetenceDetected(t *testing.T) {
	item := expense("E1", "ana", "100.00", at(2024, time.March, 5, 10, 0))
	ledger := entry("E1", "ana", "100.00", at(2024, time.March, 10, 0, 0), nil)

	out, err := newTestPipeline().Run(PipelineInput{
		Expenses:      []*entity.PlatformExpense{item},
		Entries:       []*entity.LedgerEntry{ledger},
		MovementDates: []time.Time{at(2024, time.March, 20, 0, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, at(2024, time.March, 1, 0, 0), out.Competence)
	assert.Len(t, out.Result.MatchedExpenses, 1)
}

func TestBuildResult(t *testing.T) {
	matched := expense("E1", "ana", "1", at(2024, time.March, 1, 0, 0))
	matched.MatchID = "E1"
	unmatched := expense("E2", "ana", "1", at(2024, time.March, 1, 0, 0))
	unmatched.Fail(entity.ReasonNoCorrespondenceInERP)
	ledger := entry("X", "ana", "1", at(2024, time.March, 1, 0, 0), nil)
	ledger.Fail(entity.ReasonNoCorrespondenceInPlatform)

	expenses := []*entity.PlatformExpense{unmatched, matched}
	entries := []*entity.LedgerEntry{ledger}
	diagnostics := SummarizeFailures(expenses, entries)
	result := BuildResult(expenses, entries, diagnostics)

	assert.Equal(t, []*entity.PlatformExpense{matched}, result.MatchedExpenses)
	assert.Equal(t, []*entity.PlatformExpense{unmatched}, result.UnmatchedExpenses)
	assert.Empty(t, result.MatchedEntries)
	assert.Equal(t, []*entity.LedgerEntry{ledger}, result.UnmatchedEntries)
	assert.Equal(t, map[entity.FailureReason]int{
		entity.ReasonNoCorrespondenceInERP:      1,
		entity.ReasonNoCorrespondenceInPlatform: 1,
	}, result.Diagnostics)
}
