// Package report turns a reconciliation result into indicators, export
// sheets, an xlsx workbook and a plain-text report.
package report

import (
	"math"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"

	"github.com/shopspring/decimal"
)

const (
	IndicatorTotalPlatform     = "total platform"
	IndicatorTotalERP          = "total ERP"
	IndicatorAutomaticRate     = "automatic reconciliation rate"
	IndicatorUncategorizedRate = "expenses without category"
	IndicatorApprovalDelay     = "average transaction to approval time"
	IndicatorManualAdjustments = "manual adjustments"
)

type Indicator struct {
	Name  string
	Value string
}

var hundred = decimal.NewFromInt(100)

// Summarize computes the executive summary indicators, in display order.
func Summarize(result *entity.ReconciliationResult) []Indicator {
	expenses := result.AllExpenses()
	entries := result.AllEntries()

	totalPlatform := decimal.Zero
	uncategorized := 0
	delaySum := decimal.Zero
	delayCount := 0
	for _, expense := range expenses {
		totalPlatform = totalPlatform.Add(expense.Value)
		if expense.Category == consts.CategoryManualReview {
			uncategorized++
		}
		if expense.ApprovalDate != nil {
			delaySum = delaySum.Add(decimal.NewFromInt(wholeDays(expense.ApprovalDate.Sub(expense.Date).Hours())))
			delayCount++
		}
	}

	totalERP := decimal.Zero
	for _, entry := range entries {
		totalERP = totalERP.Add(entry.Value)
	}

	adjustments := decimal.Zero
	for _, entry := range result.UnmatchedEntries {
		if entry.EntryKind == consts.LedgerKindFee || entry.EntryKind == consts.LedgerKindReimbursement {
			adjustments = adjustments.Add(entry.Value)
		}
	}

	averageDelay := decimal.Zero
	if delayCount > 0 {
		averageDelay = delaySum.Div(decimal.NewFromInt(int64(delayCount)))
	}

	return []Indicator{
		{Name: IndicatorTotalPlatform, Value: totalPlatform.StringFixed(2)},
		{Name: IndicatorTotalERP, Value: totalERP.StringFixed(2)},
		{Name: IndicatorAutomaticRate, Value: percentage(len(result.MatchedExpenses), len(expenses))},
		{Name: IndicatorUncategorizedRate, Value: percentage(uncategorized, len(expenses))},
		{Name: IndicatorApprovalDelay, Value: averageDelay.StringFixed(1) + " days"},
		{Name: IndicatorManualAdjustments, Value: adjustments.StringFixed(2)},
	}
}

func percentage(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	rate := decimal.NewFromInt(int64(part)).Div(decimal.NewFromInt(int64(total))).Mul(hundred)
	return rate.StringFixed(1) + "%"
}

// wholeDays floors a duration in hours to whole days.
func wholeDays(hours float64) int64 {
	return int64(math.Floor(hours / 24))
}
