package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/radhian/expense-reconciliation/entity"

	"github.com/labstack/gommon/log"
	"github.com/xuri/excelize/v2"
)

const (
	SheetMatched              = "matched"
	SheetUnmatchedCard        = "unmatched - card"
	SheetUnmatchedExpenses    = "unmatched - expenses"
	SheetExecutiveSummary     = "executive summary"
	SheetValueDivergence      = "divergence - value"
	SheetApprovalOutsideMonth = "approval outside month"
	SheetDiagnostics          = "diagnostics"
)

const (
	OriginPlatform = "Platform"
	OriginERP      = "ERP"
)

const dateLayout = "02/01/2006 15:04"

var recordHeaders = []string{"Origin", "User", "Date", "Value", "Direction", "Status", "Category", "Kind", "ID", "Match ID", "Match", "Reason"}

type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

type Export struct {
	Sheets []Sheet
}

func (e Export) Sheet(name string) (Sheet, bool) {
	for _, sheet := range e.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return Sheet{}, false
}

func expenseRow(expense *entity.PlatformExpense) []string {
	return []string{
		OriginPlatform,
		expense.User,
		expense.Date.Format(dateLayout),
		expense.Value.StringFixed(2),
		string(expense.Direction),
		expense.Status,
		expense.Category,
		"",
		expense.ExpenseID,
		expense.MatchID,
		string(expense.MatchType),
		string(expense.FailureReason),
	}
}

func entryRow(entry *entity.LedgerEntry) []string {
	return []string{
		OriginERP,
		entry.User,
		entry.Date.Format(dateLayout),
		entry.Value.StringFixed(2),
		string(entry.Direction),
		"",
		"",
		entry.EntryKind,
		entry.DocumentID,
		entry.MatchID,
		string(entry.MatchType),
		string(entry.FailureReason),
	}
}

// BuildExport lays the result out as the sheets of the reconciliation workbook.
func BuildExport(result *entity.ReconciliationResult) Export {
	matched := append(expenseRows(result.MatchedExpenses), entryRows(result.MatchedEntries)...)

	summary := make([][]string, 0)
	for _, indicator := range Summarize(result) {
		summary = append(summary, []string{indicator.Name, indicator.Value})
	}

	divergence := make([][]string, 0)
	approvalOutside := make([][]string, 0)
	for _, expense := range result.AllExpenses() {
		if expense.FailureReason.IsValueMismatch() {
			divergence = append(divergence, expenseRow(expense))
		}
		if expense.FailureReason == entity.ReasonApprovalOutsideCompetence {
			approvalOutside = append(approvalOutside, expenseRow(expense))
		}
	}
	for _, entry := range result.AllEntries() {
		if entry.FailureReason.IsValueMismatch() {
			divergence = append(divergence, entryRow(entry))
		}
	}

	return Export{Sheets: []Sheet{
		{Name: SheetMatched, Headers: recordHeaders, Rows: matched},
		{Name: SheetUnmatchedCard, Headers: recordHeaders, Rows: entryRows(result.UnmatchedEntries)},
		{Name: SheetUnmatchedExpenses, Headers: recordHeaders, Rows: expenseRows(result.UnmatchedExpenses)},
		{Name: SheetExecutiveSummary, Headers: []string{"Indicator", "Value"}, Rows: summary},
		{Name: SheetValueDivergence, Headers: recordHeaders, Rows: divergence},
		{Name: SheetApprovalOutsideMonth, Headers: recordHeaders, Rows: approvalOutside},
		{Name: SheetDiagnostics, Headers: []string{"Reason", "Count"}, Rows: diagnosticRows(result.Diagnostics)},
	}}
}

// diagnosticRows lists non-zero counts in the order of entity.AllFailureReasons.
func diagnosticRows(diagnostics map[entity.FailureReason]int) [][]string {
	rows := make([][]string, 0, len(diagnostics))
	for _, reason := range entity.AllFailureReasons() {
		if count := diagnostics[reason]; count > 0 {
			rows = append(rows, []string{string(reason), strconv.Itoa(count)})
		}
	}
	return rows
}

// WriteWorkbook saves every sheet of the export into an xlsx file at path.
func WriteWorkbook(export Export, path string) error {
	if len(export.Sheets) == 0 {
		return fmt.Errorf("export has no sheets")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range export.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}

		if err := writeRow(f, sheet.Name, 1, sheet.Headers); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet.Name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("failed to style sheet %q: %w", sheet.Name, err)
		}
		for j, row := range sheet.Rows {
			if err := writeRow(f, sheet.Name, j+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	log.Infof("[Report] Workbook written to %s", path)
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, value := range values {
		row[i] = value
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d of sheet %q: %w", rowNumber, sheet, err)
	}
	return nil
}
