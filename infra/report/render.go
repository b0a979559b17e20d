package report

import (
	"fmt"
	"strings"

	"github.com/radhian/expense-reconciliation/entity"
)

// Render produces the plain-text reconciliation report.
func Render(result *entity.ReconciliationResult) string {
	var b strings.Builder
	b.WriteString("# Expense Reconciliation Report\n")

	b.WriteString("\n## Executive Summary\n")
	for _, indicator := range Summarize(result) {
		fmt.Fprintf(&b, "- %s: %s\n", indicator.Name, indicator.Value)
	}

	b.WriteString("\n## Diagnostics\n")
	for _, row := range diagnosticRows(result.Diagnostics) {
		fmt.Fprintf(&b, "- %s: %s\n", row[0], row[1])
	}

	b.WriteString("\n## Reconciled\n")
	writeTable(&b, "### Matched expenses", expenseRows(result.MatchedExpenses))
	writeTable(&b, "### Matched ERP entries", entryRows(result.MatchedEntries))

	b.WriteString("\n## Pending\n")
	writeTable(&b, "### Unmatched expenses", expenseRows(result.UnmatchedExpenses))
	writeTable(&b, "### Unmatched ERP entries", entryRows(result.UnmatchedEntries))

	return b.String()
}

func expenseRows(expenses []*entity.PlatformExpense) [][]string {
	rows := make([][]string, 0, len(expenses))
	for _, expense := range expenses {
		rows = append(rows, expenseRow(expense))
	}
	return rows
}

func entryRows(entries []*entity.LedgerEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entryRow(entry))
	}
	return rows
}

// writeTable prints one line per row with the non-empty columns only.
func writeTable(b *strings.Builder, title string, rows [][]string) {
	b.WriteString(title + "\n")
	for _, row := range rows {
		pairs := make([]string, 0, len(row))
		for i, value := range row {
			if value == "" || i >= len(recordHeaders) {
				continue
			}
			pairs = append(pairs, recordHeaders[i]+": "+value)
		}
		b.WriteString("- " + strings.Join(pairs, ", ") + "\n")
	}
}
