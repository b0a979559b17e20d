// Package ingest turns platform and ERP exports into records ready for
// normalization.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"

	"github.com/labstack/gommon/log"
)

// Platform expense columns.
const (
	ColumnExpenseUser     = "Usuário"
	ColumnExpenseDate     = "Data Transação"
	ColumnExpenseValue    = "Valor"
	ColumnExpenseStatus   = "Status da Nota"
	ColumnExpenseCategory = "Categoria"
	ColumnExpenseID       = "ID"
	ColumnExpenseApproval = "Data da Aprovação"
)

// ERP ledger columns.
const (
	ColumnLedgerDate          = "Data"
	ColumnLedgerUser          = "Usuário"
	ColumnLedgerCompanyLoad   = "Carga Empresa"
	ColumnLedgerCardLoad      = "Carga Cartão"
	ColumnLedgerCardUnload    = "Descarga Cartão"
	ColumnLedgerFees          = "Tarifas"
	ColumnLedgerReimbursement = "Reembolsos"
	ColumnLedgerBalance       = "Saldo Empresa"
	ColumnLedgerDocument      = "Documento"
	ColumnLedgerMovementDate  = "Data Mov"
)

// Card summary columns.
const (
	ColumnCardTeam    = "Time"
	ColumnCardOpening = "Saldo Inicial"
	ColumnCardClosing = "Saldo Final"
)

var movementDateColumns = []string{"data_mov", ColumnLedgerMovementDate}

// ledgerValueColumns fan one ERP row out into one entry per non-zero value.
var ledgerValueColumns = []string{
	ColumnLedgerCompanyLoad,
	ColumnLedgerCardLoad,
	ColumnLedgerCardUnload,
	ColumnLedgerFees,
	ColumnLedgerReimbursement,
}

func LoadExpenses(path string) ([]*entity.PlatformExpense, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	expenses, err := ExpensesFromTable(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("[Ingest] Loaded %d platform expenses from %s", len(expenses), path)
	return expenses, nil
}

func ExpensesFromTable(table *Table) ([]*entity.PlatformExpense, error) {
	err := table.Require(ColumnExpenseUser, ColumnExpenseDate, ColumnExpenseValue, ColumnExpenseStatus, ColumnExpenseCategory, ColumnExpenseID)
	if err != nil {
		return nil, err
	}

	expenses := make([]*entity.PlatformExpense, 0, len(table.Rows))
	for _, row := range table.Rows {
		date, err := dateField(row, ColumnExpenseDate)
		if err != nil {
			return nil, err
		}
		value, err := amountField(row, ColumnExpenseValue)
		if err != nil {
			return nil, err
		}
		approval, err := optionalDateField(row, ColumnExpenseApproval)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, &entity.PlatformExpense{
			BaseRecord: entity.BaseRecord{
				User:      row.Get(ColumnExpenseUser),
				Date:      date,
				Value:     value,
				RawFields: row.Fields,
			},
			Status:       row.Get(ColumnExpenseStatus),
			Category:     row.Get(ColumnExpenseCategory),
			ExpenseID:    row.Get(ColumnExpenseID),
			ApprovalDate: approval,
		})
	}
	return expenses, nil
}

func LoadLedgerEntries(path string) ([]*entity.LedgerEntry, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	entries, err := LedgerEntriesFromTable(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("[Ingest] Loaded %d ledger entries from %s", len(entries), path)
	return entries, nil
}

// LedgerEntriesFromTable emits one entry per non-zero value column of each
// row. Empty value cells count as zero.
func LedgerEntriesFromTable(table *Table) ([]*entity.LedgerEntry, error) {
	required := append([]string{ColumnLedgerDate, ColumnLedgerUser}, ledgerValueColumns...)
	if err := table.Require(append(required, ColumnLedgerBalance)...); err != nil {
		return nil, err
	}

	entries := make([]*entity.LedgerEntry, 0, len(table.Rows))
	for _, row := range table.Rows {
		date, err := dateField(row, ColumnLedgerDate)
		if err != nil {
			return nil, err
		}
		movement, err := optionalDateField(row, ColumnLedgerMovementDate)
		if err != nil {
			return nil, err
		}

		for _, column := range ledgerValueColumns {
			if row.Get(column) == "" {
				continue
			}
			value, err := amountField(row, column)
			if err != nil {
				return nil, err
			}
			if value.IsZero() {
				continue
			}

			kind := column
			if column == ColumnLedgerFees {
				kind = consts.LedgerKindFee
			}
			entries = append(entries, &entity.LedgerEntry{
				BaseRecord: entity.BaseRecord{
					User:      row.Get(ColumnLedgerUser),
					Date:      date,
					Value:     value,
					RawFields: row.Fields,
				},
				EntryKind:    kind,
				DocumentID:   row.Get(ColumnLedgerDocument),
				MovementDate: movement,
			})
		}
	}
	return entries, nil
}

// LoadMovementDates reads the ERP movements export (column data_mov).
func LoadMovementDates(path string) ([]time.Time, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	dates, err := MovementDatesFromTable(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("[Ingest] Loaded %d movement dates from %s", len(dates), path)
	return dates, nil
}

func MovementDatesFromTable(table *Table) ([]time.Time, error) {
	column := ""
	for _, header := range table.Headers {
		for _, candidate := range movementDateColumns {
			if strings.EqualFold(header, candidate) {
				column = header
				break
			}
		}
		if column != "" {
			break
		}
	}
	if column == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, movementDateColumns[0])
	}

	dates := make([]time.Time, 0, len(table.Rows))
	for _, row := range table.Rows {
		if row.Get(column) == "" {
			continue
		}
		date, err := dateField(row, column)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, nil
}

func LoadCardSummary(path string) ([]entity.CardBalance, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	balances, err := CardSummaryFromTable(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("[Ingest] Loaded %d card summary lines from %s", len(balances), path)
	return balances, nil
}

func CardSummaryFromTable(table *Table) ([]entity.CardBalance, error) {
	if err := table.Require(ColumnCardTeam, ColumnCardOpening, ColumnCardClosing); err != nil {
		return nil, err
	}

	balances := make([]entity.CardBalance, 0, len(table.Rows))
	for _, row := range table.Rows {
		opening, err := amountField(row, ColumnCardOpening)
		if err != nil {
			return nil, err
		}
		closing, err := amountField(row, ColumnCardClosing)
		if err != nil {
			return nil, err
		}
		balances = append(balances, entity.CardBalance{
			Team:           row.Get(ColumnCardTeam),
			OpeningBalance: opening,
			ClosingBalance: closing,
		})
	}
	return balances, nil
}
