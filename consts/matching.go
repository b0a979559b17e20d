package consts

// MatchType labels which pass produced a match.
type MatchType string

const (
	MatchTypeExact       MatchType = "exact match (1:1)"
	MatchTypeTolerance   MatchType = "tolerance match (1:1)"
	MatchTypeAggregation MatchType = "aggregated match (N:1)"
)

const (
	// Default rules, overridable from config
	DefaultShiftThreshold   = "18:01"
	DefaultValidatedStatus  = "validated"
	DefaultTolerance        = "0.01"
	DefaultDateToleranceDay = 1

	// Category assigned to expenses with an empty category
	CategoryManualReview = "needs manual review"

	// Ledger entry kinds counted as manual adjustments when unmatched
	LedgerKindFee           = "Tarifa"
	LedgerKindReimbursement = "Reembolsos"
)
