package consts

const (
	// Reconciliation type platform expenses against ERP ledger
	ReconciliationTypeExpenseLedger = 1

	// Reconciliation status codes
	StatusInit     = 1
	StatusRunning  = 2
	StatusFinished = 3
	StatusFailed   = 4

	// DataType constants
	DataTypeExpenseFile     = 1
	DataTypeLedgerFile      = 2
	DataTypeMovementFile    = 3
	DataTypeCardSummaryFile = 4
	DataTypeReport          = 5

	// Default config
	DefaultWorkerNumber = 1
	DefaultCronSchedule = "@every 2s"
	DefaultUploadDir    = "uploads"
	DefaultReportDir    = "reports"
	DefaultPort         = "8080"

	// Operator used for system updates
	SystemOperator = "system"
)

var statusNames = map[int]string{
	StatusInit:     "init",
	StatusRunning:  "running",
	StatusFinished: "finished",
	StatusFailed:   "failed",
}

func StatusName(status int) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return "unknown"
}
