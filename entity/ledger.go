package entity

import "time"

// LedgerEntry is one value line of the ERP ledger report.
type LedgerEntry struct {
	BaseRecord
	Resolution

	EntryKind    string     `json:"entry_kind"`
	DocumentID   string     `json:"document_id,omitempty"`
	MovementDate *time.Time `json:"movement_date,omitempty"`
}

func (l *LedgerEntry) HasIdentifier() bool { return l.DocumentID != "" }

// EffectiveMovementDate is the date used for competence comparisons:
// MovementDate when present, the posting Date otherwise.
func (l *LedgerEntry) EffectiveMovementDate() time.Time {
	if l.MovementDate != nil {
		return *l.MovementDate
	}
	return l.Date
}
