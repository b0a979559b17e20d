package reconciliation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"
)

var ErrReportNotReady = errors.New("report is not available yet")

func (u *reconciliationUsecase) GetReconciliationResult(logID int64) (*entity.ProcessResult, error) {
	logEntry, err := u.dao.GetReconciliationProcessLogByID(logID)
	if err != nil {
		return nil, err
	}

	result := &entity.ProcessResult{
		LogID:      logEntry.ID,
		Status:     consts.StatusName(logEntry.Status),
		CreateTime: logEntry.CreateTime,
		CreateBy:   logEntry.CreateBy,
		UpdateTime: logEntry.UpdateTime,
	}
	if logEntry.Result == "" {
		return result, nil
	}

	var summary entity.ProcessSummary
	if err := json.Unmarshal([]byte(logEntry.Result), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse result of log %d: %w", logID, err)
	}
	result.Summary = &summary
	return result, nil
}

// GetReportPath returns the workbook generated for a finished log.
func (u *reconciliationUsecase) GetReportPath(logID int64) (string, error) {
	if _, err := u.dao.GetReconciliationProcessLogByID(logID); err != nil {
		return "", err
	}

	assets, err := u.dao.GetReconciliationLogAssetsByLogID(logID)
	if err != nil {
		return "", err
	}
	if url, ok := findAssetUrl(assets, consts.DataTypeReport); ok {
		return url, nil
	}
	return "", ErrReportNotReady
}
