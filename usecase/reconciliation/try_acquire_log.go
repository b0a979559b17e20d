package reconciliation

import (
	"context"

	"github.com/radhian/expense-reconciliation/consts"

	"github.com/labstack/gommon/log"
)

// TryAcquireLock picks the oldest pending log not already held by a worker
// of this instance.
func (u *reconciliationUsecase) TryAcquireLock(ctx context.Context) (bool, int64, error) {
	processLogList, err := u.dao.GetReconciliationProcessLogByStatusList([]int{consts.StatusInit, consts.StatusRunning})
	if err != nil {
		return false, 0, err
	}

	for _, processLog := range processLogList {
		if !u.locker.TryAcquire(processLog.ID) {
			continue
		}
		log.Infof("[LOCK_PROCESS] log_id:%d", processLog.ID)
		return true, processLog.ID, nil
	}

	return false, 0, nil
}

func (u *reconciliationUsecase) UnlockProcess(ctx context.Context, logID int64) {
	u.locker.Unlock(logID)
	log.Infof("[UNLOCK_PROCESS] log_id:%d", logID)
}
