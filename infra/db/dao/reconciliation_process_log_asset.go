package dao

import (
	"fmt"

	"github.com/radhian/expense-reconciliation/infra/db/model"
)

func (d *dao) CreateReconciliationProcessLogAsset(payload *model.ReconciliationProcessLogAsset) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to save file asset: %w", err)
	}
	return nil
}

func (d *dao) GetReconciliationLogAssetsByLogID(logID int64) ([]model.ReconciliationProcessLogAsset, error) {
	var assets []model.ReconciliationProcessLogAsset
	if err := d.db.Where("reconciliation_process_log_id = ?", logID).Order("id ASC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch log assets: %w", err)
	}
	return assets, nil
}
