package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/radhian/expense-reconciliation/consts"
)

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ReachedBy reports whether the time of day of t is at or after c.
func (c Clock) ReachedBy(t time.Time) bool {
	return t.Hour()*60+t.Minute() >= c.Hour*60+c.Minute
}

type Config struct {
	// Categories maps trimmed platform categories to the canonical taxonomy.
	Categories map[string]string
	// ShiftAt is the time of day from which an expense belongs to the next business day.
	ShiftAt Clock
	// ValidatedStatus is compared case-insensitively with PlatformExpense.Status.
	ValidatedStatus string
}

func DefaultCategories() map[string]string {
	return map[string]string{
		"Hospedagem":  "Travel – Lodging",
		"Alimentação": "Travel – Meals",
		"Combustível": "Operations – Fleet",
		"Pedágio":     "Operations – Fleet",
	}
}

func DefaultConfig() Config {
	shiftAt, _ := ParseClock(consts.DefaultShiftThreshold)
	return Config{
		Categories:      DefaultCategories(),
		ShiftAt:         shiftAt,
		ValidatedStatus: consts.DefaultValidatedStatus,
	}
}
