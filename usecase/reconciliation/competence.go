package reconciliation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/radhian/expense-reconciliation/entity"
)

const CompetenceLayout = "01/2006"

var ErrCompetenceNotFound = errors.New("competence month could not be determined")

// AmbiguousCompetenceError is returned when the inputs span several months
// and an operator has to confirm which one to reconcile.
type AmbiguousCompetenceError struct {
	Options []time.Time
}

func (e *AmbiguousCompetenceError) Error() string {
	labels := make([]string, 0, len(e.Options))
	for _, option := range e.Options {
		labels = append(labels, FormatCompetence(option))
	}
	return fmt.Sprintf("several competence months detected: %s", strings.Join(labels, ", "))
}

func FormatCompetence(competence time.Time) string {
	return competence.Format(CompetenceLayout)
}

// ParseCompetence reads a MM/YYYY month into the first instant of that month.
func ParseCompetence(raw string) (time.Time, error) {
	competence, err := time.Parse(CompetenceLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid competence %q, expected MM/YYYY: %w", raw, err)
	}
	return competence, nil
}

// DetermineCompetence collects the months of every expense approval and every
// ERP movement date. Ledger posting dates stand in when there are no movement
// dates.
func DetermineCompetence(expenses []*entity.PlatformExpense, entries []*entity.LedgerEntry, movementDates []time.Time) (time.Time, error) {
	months := make(map[time.Time]struct{})
	add := func(t time.Time) {
		months[time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)] = struct{}{}
	}

	for _, expense := range expenses {
		if expense.ApprovalDate != nil {
			add(*expense.ApprovalDate)
		}
	}
	if len(movementDates) > 0 {
		for _, date := range movementDates {
			add(date)
		}
	} else {
		for _, entry := range entries {
			add(entry.Date)
		}
	}

	switch len(months) {
	case 0:
		return time.Time{}, ErrCompetenceNotFound
	case 1:
		for month := range months {
			return month, nil
		}
	}

	options := make([]time.Time, 0, len(months))
	for month := range months {
		options = append(options, month)
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Before(options[j]) })
	return time.Time{}, &AmbiguousCompetenceError{Options: options}
}
