package model

// ReconciliationProcessLog tracks one reconciliation run from upload to report.
type ReconciliationProcessLog struct {
	ID                 int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ReconciliationType int64  `gorm:"not null" json:"reconciliation_type"`
	TotalExpenseRow    int64  `gorm:"not null" json:"total_expense_row"`
	TotalEntryRow      int64  `gorm:"not null" json:"total_entry_row"`
	ProcessInfo        string `gorm:"type:text;not null" json:"process_info"`
	Status             int    `gorm:"not null;index" json:"status"`
	Result             string `gorm:"type:text;not null" json:"result"`
	CreateTime         int64  `gorm:"not null" json:"create_time"`
	CreateBy           string `gorm:"size:100;not null" json:"create_by"`
	UpdateTime         int64  `gorm:"not null" json:"update_time"`
	UpdateBy           string `gorm:"size:100;not null" json:"update_by"`
}
