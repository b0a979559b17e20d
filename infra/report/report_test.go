package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func day(d, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
}

func sampleResult() *entity.ReconciliationResult {
	approval := day(8, 10)
	matchedExpense := &entity.PlatformExpense{
		BaseRecord:   entity.BaseRecord{User: "ana", Date: day(5, 10), Value: decimal.RequireFromString("100"), Direction: entity.DirectionCredit},
		Resolution:   entity.Resolution{MatchID: "E1", MatchType: consts.MatchTypeExact},
		Status:       "validated",
		Category:     "Travel – Lodging",
		ExpenseID:    "E1",
		ApprovalDate: &approval,
	}
	sameDay := day(6, 10)
	divergent := &entity.PlatformExpense{
		BaseRecord:   entity.BaseRecord{User: "bia", Date: day(6, 10), Value: decimal.RequireFromString("50")},
		Resolution:   entity.Resolution{FailureReason: entity.ReasonValueMismatchInERP},
		Category:     consts.CategoryManualReview,
		ExpenseID:    "E2",
		ApprovalDate: &sameDay,
	}
	late := &entity.PlatformExpense{
		BaseRecord: entity.BaseRecord{User: "caio", Date: day(7, 10), Value: decimal.RequireFromString("25.5")},
		Resolution: entity.Resolution{FailureReason: entity.ReasonApprovalOutsideCompetence},
		Category:   "Operations – Fleet",
		ExpenseID:  "E3",
	}

	matchedEntry := &entity.LedgerEntry{
		BaseRecord: entity.BaseRecord{User: "ana", Date: day(10, 0), Value: decimal.RequireFromString("100")},
		Resolution: entity.Resolution{MatchID: "E1", MatchType: consts.MatchTypeExact},
		EntryKind:  "Carga Cartão",
		DocumentID: "E1",
	}
	fee := &entity.LedgerEntry{
		BaseRecord: entity.BaseRecord{User: "ana", Date: day(10, 0), Value: decimal.RequireFromString("2.5")},
		Resolution: entity.Resolution{FailureReason: entity.ReasonEntryNoIdentifier},
		EntryKind:  consts.LedgerKindFee,
	}
	mismatch := &entity.LedgerEntry{
		BaseRecord: entity.BaseRecord{User: "bia", Date: day(10, 0), Value: decimal.RequireFromString("55")},
		Resolution: entity.Resolution{FailureReason: entity.ReasonValueMismatchInPlatform},
		EntryKind:  "Carga Cartão",
		DocumentID: "E2",
	}

	return &entity.ReconciliationResult{
		MatchedExpenses:   []*entity.PlatformExpense{matchedExpense},
		UnmatchedExpenses: []*entity.PlatformExpense{divergent, late},
		MatchedEntries:    []*entity.LedgerEntry{matchedEntry},
		UnmatchedEntries:  []*entity.LedgerEntry{fee, mismatch},
		Diagnostics: map[entity.FailureReason]int{
			entity.ReasonValueMismatchInERP:        1,
			entity.ReasonApprovalOutsideCompetence: 1,
			entity.ReasonEntryNoIdentifier:         1,
			entity.ReasonValueMismatchInPlatform:   1,
		},
	}
}

func TestSummarize(t *testing.T) {
	indicators := Summarize(sampleResult())

	values := make(map[string]string)
	for _, indicator := range indicators {
		values[indicator.Name] = indicator.Value
	}

	assert.Equal(t, "175.50", values[IndicatorTotalPlatform])
	assert.Equal(t, "157.50", values[IndicatorTotalERP])
	assert.Equal(t, "33.3%", values[IndicatorAutomaticRate])
	assert.Equal(t, "33.3%", values[IndicatorUncategorizedRate])
	assert.Equal(t, "1.5 days", values[IndicatorApprovalDelay])
	assert.Equal(t, "2.50", values[IndicatorManualAdjustments])
	assert.Equal(t, IndicatorTotalPlatform, indicators[0].Name)
}

func TestSummarize_Empty(t *testing.T) {
	indicators := Summarize(&entity.ReconciliationResult{})
	require.Len(t, indicators, 6)
	assert.Equal(t, "0.0%", indicators[2].Value)
	assert.Equal(t, "0.0 days", indicators[4].Value)
}

func TestBuildExport(t *testing.T) {
	export := BuildExport(sampleResult())

	names := make([]string, 0, len(export.Sheets))
	for _, sheet := range export.Sheets {
		names = append(names, sheet.Name)
	}
	assert.Equal(t, []string{
		SheetMatched,
		SheetUnmatchedCard,
		SheetUnmatchedExpenses,
		SheetExecutiveSummary,
		SheetValueDivergence,
		SheetApprovalOutsideMonth,
		SheetDiagnostics,
	}, names)

	matched, _ := export.Sheet(SheetMatched)
	require.Len(t, matched.Rows, 2)
	assert.Equal(t, OriginPlatform, matched.Rows[0][0])
	assert.Equal(t, OriginERP, matched.Rows[1][0])
	assert.Equal(t, "100.00", matched.Rows[0][3])
	assert.Equal(t, "05/03/2024 10:00", matched.Rows[0][2])

	divergence, _ := export.Sheet(SheetValueDivergence)
	require.Len(t, divergence.Rows, 2)
	assert.Equal(t, "E2", divergence.Rows[0][8])
	assert.Equal(t, OriginERP, divergence.Rows[1][0])

	outside, _ := export.Sheet(SheetApprovalOutsideMonth)
	require.Len(t, outside.Rows, 1)
	assert.Equal(t, "caio", outside.Rows[0][1])

	diagnostics, _ := export.Sheet(SheetDiagnostics)
	assert.Equal(t, [][]string{
		{string(entity.ReasonValueMismatchInERP), "1"},
		{string(entity.ReasonApprovalOutsideCompetence), "1"},
		{string(entity.ReasonEntryNoIdentifier), "1"},
		{string(entity.ReasonValueMismatchInPlatform), "1"},
	}, diagnostics.Rows)

	_, ok := export.Sheet("unknown")
	assert.False(t, ok)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.xlsx")
	require.NoError(t, WriteWorkbook(BuildExport(sampleResult()), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetMatched, f.GetSheetList()[0])
	assert.Len(t, f.GetSheetList(), 7)

	rows, err := f.GetRows(SheetUnmatchedCard)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Origin", rows[0][0])
	assert.Equal(t, consts.LedgerKindFee, rows[1][7])

	summary, err := f.GetRows(SheetExecutiveSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{IndicatorTotalPlatform, "175.50"}, summary[1])
}

func TestRender(t *testing.T) {
	text := Render(sampleResult())

	assert.Contains(t, text, "# Expense Reconciliation Report")
	assert.Contains(t, text, "- "+IndicatorAutomaticRate+": 33.3%")
	assert.Contains(t, text, "- "+string(entity.ReasonEntryNoIdentifier)+": 1")
	assert.Contains(t, text, "Origin: Platform, User: ana")
	assert.Contains(t, text, "### Unmatched ERP entries\n- Origin: ERP, User: ana")
}
