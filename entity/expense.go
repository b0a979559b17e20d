package entity

import "time"

// PlatformExpense is an expense exported by the expense platform.
type PlatformExpense struct {
	BaseRecord
	Resolution

	Status       string     `json:"status"`
	Category     string     `json:"category"`
	ExpenseID    string     `json:"expense_id,omitempty"`
	ApprovalDate *time.Time `json:"approval_date,omitempty"`

	// BusinessDateResolved is set once the end-of-day rule has been evaluated
	// against Date, so the shift is never applied twice.
	BusinessDateResolved bool `json:"-"`
}

func (e *PlatformExpense) HasIdentifier() bool { return e.ExpenseID != "" }
