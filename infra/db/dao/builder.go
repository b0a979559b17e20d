package dao

import (
	"github.com/radhian/expense-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

type DaoMethod interface {
	GetReconciliationProcessLogByStatusList(statusList []int) ([]model.ReconciliationProcessLog, error)
	CreateReconciliationProcessLog(payload *model.ReconciliationProcessLog) error
	GetReconciliationProcessLogByID(logID int64) (model.ReconciliationProcessLog, error)
	UpdateReconciliationProcessLog(logEntry model.ReconciliationProcessLog) error
	CreateReconciliationProcessLogAsset(payload *model.ReconciliationProcessLogAsset) error
	GetReconciliationLogAssetsByLogID(logID int64) ([]model.ReconciliationProcessLogAsset, error)
}

type dao struct {
	db *gorm.DB
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db}
}
