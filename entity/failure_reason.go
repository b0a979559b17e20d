package entity

// FailureReason is the machine-readable cause of an unmatched record.
type FailureReason string

const (
	// Normalization
	ReasonStatusNotValidated FailureReason = "status not validated"
	ReasonDuplicate          FailureReason = "duplicate detected"
	ReasonOutsidePeriod      FailureReason = "transaction outside period"

	// Expense side classification
	ReasonExpenseNoIdentifier       FailureReason = "expense has no identifier"
	ReasonNoCorrespondenceInERP     FailureReason = "no correspondence found in ERP"
	ReasonValueMismatchInERP        FailureReason = "value mismatch in ERP"
	ReasonExpenseNoApproval         FailureReason = "expense has no recorded approval"
	ReasonApprovalOutsideCompetence FailureReason = "approval outside competence month"

	// Ledger side classification
	ReasonEntryNoIdentifier           FailureReason = "entry has no identifier"
	ReasonNoCorrespondenceInPlatform  FailureReason = "no correspondence found in platform"
	ReasonValueMismatchInPlatform     FailureReason = "value mismatch in platform"
	ReasonCompetenceMissingInERP      FailureReason = "competence missing in ERP"
	ReasonCompetenceMismatchPlatform  FailureReason = "competence mismatch with platform"
	ReasonCounterpartRejectedPlatform FailureReason = "counterpart rejected in platform"

	// Either side, when every counterpart passing all checks went to another record
	ReasonCounterpartAlreadyMatched FailureReason = "counterpart already matched"
)

func AllFailureReasons() []FailureReason {
	return []FailureReason{
		ReasonStatusNotValidated,
		ReasonDuplicate,
		ReasonOutsidePeriod,
		ReasonExpenseNoIdentifier,
		ReasonNoCorrespondenceInERP,
		ReasonValueMismatchInERP,
		ReasonExpenseNoApproval,
		ReasonApprovalOutsideCompetence,
		ReasonEntryNoIdentifier,
		ReasonNoCorrespondenceInPlatform,
		ReasonValueMismatchInPlatform,
		ReasonCompetenceMissingInERP,
		ReasonCompetenceMismatchPlatform,
		ReasonCounterpartRejectedPlatform,
		ReasonCounterpartAlreadyMatched,
	}
}

func (r FailureReason) Valid() bool {
	for _, known := range AllFailureReasons() {
		if r == known {
			return true
		}
	}
	return false
}

// IsValueMismatch reports whether the reason describes a value divergence between the sources.
func (r FailureReason) IsValueMismatch() bool {
	return r == ReasonValueMismatchInERP || r == ReasonValueMismatchInPlatform
}
