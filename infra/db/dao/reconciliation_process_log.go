package dao

import (
	"errors"
	"fmt"

	"github.com/radhian/expense-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

var ErrProcessLogNotFound = errors.New("process log not found")

// GetReconciliationProcessLogByStatusList returns only ids, oldest first.
func (d *dao) GetReconciliationProcessLogByStatusList(statusList []int) ([]model.ReconciliationProcessLog, error) {
	var processLogList []model.ReconciliationProcessLog
	if err := d.db.
		Select("id").
		Where("status IN (?)", statusList).
		Order("create_time ASC").
		Find(&processLogList).Error; err != nil {
		return nil, fmt.Errorf("failed to list process logs: %w", err)
	}
	return processLogList, nil
}

func (d *dao) CreateReconciliationProcessLog(payload *model.ReconciliationProcessLog) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to create process log: %w", err)
	}
	return nil
}

func (d *dao) GetReconciliationProcessLogByID(logID int64) (model.ReconciliationProcessLog, error) {
	var logEntry model.ReconciliationProcessLog
	if err := d.db.First(&logEntry, logID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return logEntry, fmt.Errorf("%w: %d", ErrProcessLogNotFound, logID)
		}
		return logEntry, fmt.Errorf("failed to get process log %d: %w", logID, err)
	}
	return logEntry, nil
}

func (d *dao) UpdateReconciliationProcessLog(logEntry model.ReconciliationProcessLog) error {
	if err := d.db.Save(&logEntry).Error; err != nil {
		return fmt.Errorf("failed to update log: %w", err)
	}
	return nil
}
