package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/radhian/expense-reconciliation/consts"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"100.00", "100"},
		{"R$ 1.234,56", "1234.56"},
		{"-50,00", "-50"},
		{"$ 12.5", "12.5"},
		{"1.234.567,89", "1234567.89"},
		{"0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	for _, bad := range []string{"", "abc", "1,2,3"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"05/03/2024 18:30", time.Date(2024, time.March, 5, 18, 30, 0, 0, time.UTC)},
		{"05/03/2024", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05 07:15", time.Date(2024, time.March, 5, 7, 15, 0, 0, time.UTC)},
		{" 2024-03-05 ", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDate("March 5th")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLoadExpenses_CSV(t *testing.T) {
	path := writeFile(t, "expenses.csv", "\ufeffUsuário,Data Transação,Valor,Status da Nota,Categoria,ID,Data da Aprovação\n"+
		"ana,05/03/2024 10:00,\"R$ 1.234,56\",validated,Hospedagem,E1,06/03/2024\n"+
		",,,,,,\n"+
		"bia,2024-03-07,-20.5,pending,, ,\n")

	expenses, err := LoadExpenses(path)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	first := expenses[0]
	assert.Equal(t, "ana", first.User)
	assert.Equal(t, time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC), first.Date)
	assert.True(t, first.Value.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "E1", first.ExpenseID)
	require.NotNil(t, first.ApprovalDate)
	assert.Equal(t, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), *first.ApprovalDate)
	category, ok := first.RawFields.Get("Categoria")
	assert.True(t, ok)
	assert.Equal(t, "Hospedagem", category)

	second := expenses[1]
	assert.Empty(t, second.ExpenseID)
	assert.Nil(t, second.ApprovalDate)
	assert.True(t, second.Value.IsNegative())
}

func TestLoadExpenses_MissingColumns(t *testing.T) {
	path := writeFile(t, "expenses.csv", "Usuário,Valor\nana,10\n")

	_, err := LoadExpenses(path)
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Data Transação")
	assert.Contains(t, err.Error(), "Status da Nota")
}

func TestLoadExpenses_InvalidValue(t *testing.T) {
	path := writeFile(t, "expenses.csv", "Usuário,Data Transação,Valor,Status da Nota,Categoria,ID\n"+
		"ana,05/03/2024,ten,validated,Hospedagem,E1\n")

	_, err := LoadExpenses(path)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, 2, fieldErr.Line)
	assert.Equal(t, "Valor", fieldErr.Column)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestLoadLedgerEntries_FanOut(t *testing.T) {
	path := writeFile(t, "erp.csv", "Data;Usuário;Carga Empresa;Carga Cartão;Descarga Cartão;Tarifas;Reembolsos;Saldo Empresa;Documento;Data Mov\n"+
		"05/03/2024;ana;0;100,00;-40,00;2,50;;500,00;E1;10/03/2024\n"+
		"06/03/2024;bia;0;0;0;0;0;500,00;;\n")

	entries, err := LoadLedgerEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Carga Cartão", entries[0].EntryKind)
	assert.True(t, entries[0].Value.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, "Descarga Cartão", entries[1].EntryKind)
	assert.True(t, entries[1].Value.IsNegative())
	assert.Equal(t, consts.LedgerKindFee, entries[2].EntryKind)

	for _, entry := range entries {
		assert.Equal(t, "E1", entry.DocumentID)
		require.NotNil(t, entry.MovementDate)
		assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), *entry.MovementDate)
	}
}

func TestLoadLedgerEntries_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Data", "Usuário", "Carga Empresa", "Carga Cartão", "Descarga Cartão", "Tarifas", "Reembolsos", "Saldo Empresa"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024-03-05", "ana", "", "", "", "", "15,00", "100,00"}))
	path := filepath.Join(t.TempDir(), "erp.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	entries, err := LoadLedgerEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, consts.LedgerKindReimbursement, entries[0].EntryKind)
	assert.True(t, entries[0].Value.Equal(decimal.RequireFromString("15")))
	assert.Empty(t, entries[0].DocumentID)
	assert.Nil(t, entries[0].MovementDate)
}

func TestLoadMovementDates(t *testing.T) {
	path := writeFile(t, "mov.csv", "filial,DATA_MOV\n01,10/03/2024\n02,\n03,2024-03-11\n")

	dates, err := LoadMovementDates(path)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
	}, dates)

	_, err = LoadMovementDates(writeFile(t, "other.csv", "filial\n01\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestLoadCardSummary(t *testing.T) {
	path := writeFile(t, "cards.csv", "Time,Saldo Inicial,Saldo Final\nNorte,\"1.000,00\",\"250,50\"\n")

	balances, err := LoadCardSummary(path)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "Norte", balances[0].Team)
	assert.True(t, balances[0].OpeningBalance.Equal(decimal.RequireFromString("1000")))
	assert.True(t, balances[0].ClosingBalance.Equal(decimal.RequireFromString("250.5")))
}

func TestReadTable_UnsupportedFormat(t *testing.T) {
	_, err := ReadTable(writeFile(t, "report.pdf", "%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadTable(writeFile(t, "empty.csv", "\n\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}
