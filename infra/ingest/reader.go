package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/radhian/expense-reconciliation/entity"

	"github.com/extrame/xls"
	"github.com/labstack/gommon/log"
	"github.com/xuri/excelize/v2"
)

var (
	ErrMissingColumns    = errors.New("missing required columns")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file has no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data row keyed by header, Line is 1-based and counts the header.
type Row struct {
	Line   int
	Fields entity.RawFields
}

func (r Row) Get(column string) string {
	value, _ := r.Fields.Get(column)
	return value
}

type Table struct {
	Headers []string
	Rows    []Row
}

func (t *Table) Has(column string) bool {
	for _, header := range t.Headers {
		if header == column {
			return true
		}
	}
	return false
}

// Require returns ErrMissingColumns naming every absent column.
func (t *Table) Require(columns ...string) error {
	missing := make([]string, 0)
	for _, column := range columns {
		if !t.Has(column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// ReadTable reads the first sheet of a .csv, .xlsx or .xls file.
func ReadTable(path string) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		records, err = readCSV(path)
	case ".xlsx", ".xlsm":
		records, err = readXLSX(path)
	case ".xls":
		records, err = readXLS(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	table, err := newTable(records)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	log.Debugf("[Ingest] Read %s: %d columns, %d rows", path, len(table.Headers), len(table.Rows))
	return table, nil
}

func newTable(records [][]string) (*Table, error) {
	headerIndex := -1
	for i, record := range records {
		if !blank(record) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(records[headerIndex]))
	for i, header := range records[headerIndex] {
		headers[i] = strings.TrimSpace(header)
	}

	table := &Table{Headers: headers, Rows: make([]Row, 0, len(records)-headerIndex-1)}
	for i := headerIndex + 1; i < len(records); i++ {
		record := records[i]
		if blank(record) {
			continue
		}
		fields := make(entity.RawFields, 0, len(headers))
		for j, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if j < len(record) {
				value = strings.TrimSpace(record[j])
			}
			fields = append(fields, entity.RawField{Column: header, Value: value})
		}
		table.Rows = append(table.Rows, Row{Line: i + 1, Fields: fields})
	}
	return table, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// sniffDelimiter picks ';' for exports whose header line has no commas.
func sniffDelimiter(data []byte) rune {
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.Count(firstLine, []byte(";")) > 0 && bytes.Count(firstLine, []byte(",")) == 0 {
		return ';'
	}
	return ','
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	return f.GetRows(sheets[0])
}

func readXLS(path string) ([][]string, error) {
	book, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		record := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			record[j] = row.Col(j)
		}
		records = append(records, record)
	}
	return records, nil
}
