package reconciliation

import (
	"context"
	"time"

	"github.com/radhian/expense-reconciliation/config"
	"github.com/radhian/expense-reconciliation/entity"
	"github.com/radhian/expense-reconciliation/infra/db/dao"
	"github.com/radhian/expense-reconciliation/infra/db/model"
	"github.com/radhian/expense-reconciliation/infra/locker"
)

type ReconciliationUsecase interface {
	ProcessReconciliationInit(req entity.ProcessReconciliationRequest) (*model.ReconciliationProcessLog, error)
	GetReconciliationResult(logID int64) (*entity.ProcessResult, error)
	GetReportPath(logID int64) (string, error)
	ProcessReconciliationJob(ctx context.Context, logID int64) error
	TryAcquireLock(ctx context.Context) (bool, int64, error)
	UnlockProcess(ctx context.Context, logID int64)
}

type reconciliationUsecase struct {
	dao       dao.DaoMethod
	locker    *locker.Locker
	pipeline  *Pipeline
	uploadDir string
	reportDir string
	now       func() time.Time
}

func NewReconciliationUsecase(daoMethod dao.DaoMethod, l *locker.Locker, pipeline *Pipeline, storage config.StorageConfig) ReconciliationUsecase {
	if l == nil {
		l = locker.New()
	}
	return &reconciliationUsecase{
		dao:       daoMethod,
		locker:    l,
		pipeline:  pipeline,
		uploadDir: storage.UploadDir,
		reportDir: storage.ReportDir,
		now:       time.Now,
	}
}
