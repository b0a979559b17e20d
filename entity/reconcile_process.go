package entity

type ProcessReconciliationRequest struct {
	ExpensesPath    string `json:"expenses_path"`
	LedgerPath      string `json:"ledger_path"`
	MovementsPath   string `json:"movements_path"`
	CardSummaryPath string `json:"card_summary_path"`
	Competence      string `json:"competence"` // MM/YYYY, required when several months are detected
	Operator        string `json:"operator"`
}

type ProcessMetadata struct {
	Competence string `json:"competence,omitempty"`
	RunID      string `json:"run_id"`
}

// ProcessSummary is the JSON stored as the result of a finished process log.
type ProcessSummary struct {
	RunID             string            `json:"run_id"`
	Competence        string            `json:"competence"`
	MatchedExpenses   int               `json:"matched_expenses"`
	UnmatchedExpenses int               `json:"unmatched_expenses"`
	MatchedEntries    int               `json:"matched_entries"`
	UnmatchedEntries  int               `json:"unmatched_entries"`
	Matches           int               `json:"matches"`
	DuplicateGroups   int               `json:"duplicate_groups"`
	Indicators        map[string]string `json:"indicators"`
	Diagnostics       map[string]int    `json:"diagnostics"`
	Error             string            `json:"error,omitempty"`
}

// ProcessResult is the view of a process log returned to API clients.
type ProcessResult struct {
	LogID      int64           `json:"log_id"`
	Status     string          `json:"status"`
	CreateTime int64           `json:"create_time"`
	CreateBy   string          `json:"create_by"`
	UpdateTime int64           `json:"update_time"`
	Summary    *ProcessSummary `json:"summary,omitempty"`
}
