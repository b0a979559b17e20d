package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

var currencyStripper = strings.NewReplacer("R$", "", "$", "", " ", "", "\u00a0", "")

// FieldError reports a cell that could not be parsed.
type FieldError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d, column %q: %v: %q", e.Line, e.Column, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ParseAmount accepts plain decimals and Brazilian formatted amounts
// ("R$ 1.234,56"). A value with exactly one comma uses it as decimal separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := currencyStripper.Replace(raw)
	if strings.Count(normalized, ",") == 1 {
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
	}
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// ParseDate accepts day-first and ISO dates, with or without HH:MM.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func amountField(row Row, column string) (decimal.Decimal, error) {
	value := row.Get(column)
	amount, err := ParseAmount(value)
	if err != nil {
		return decimal.Zero, &FieldError{Line: row.Line, Column: column, Value: value, Err: err}
	}
	return amount, nil
}

func dateField(row Row, column string) (time.Time, error) {
	value := row.Get(column)
	date, err := ParseDate(value)
	if err != nil {
		return time.Time{}, &FieldError{Line: row.Line, Column: column, Value: value, Err: err}
	}
	return date, nil
}

// optionalDateField returns nil for an empty cell.
func optionalDateField(row Row, column string) (*time.Time, error) {
	if row.Get(column) == "" {
		return nil, nil
	}
	date, err := dateField(row, column)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
