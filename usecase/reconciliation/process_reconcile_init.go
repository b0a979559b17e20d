package reconciliation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"
	"github.com/radhian/expense-reconciliation/infra/db/model"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type inputFile struct {
	path     string
	dataType int64
}

func (u *reconciliationUsecase) ProcessReconciliationInit(req entity.ProcessReconciliationRequest) (*model.ReconciliationProcessLog, error) {
	if req.Competence != "" {
		if _, err := ParseCompetence(req.Competence); err != nil {
			return nil, err
		}
	}

	inputs := []inputFile{
		{path: req.ExpensesPath, dataType: consts.DataTypeExpenseFile},
		{path: req.LedgerPath, dataType: consts.DataTypeLedgerFile},
		{path: req.MovementsPath, dataType: consts.DataTypeMovementFile},
		{path: req.CardSummaryPath, dataType: consts.DataTypeCardSummaryFile},
	}

	timeNowUnix := u.now().Unix()
	runID := uuid.NewString()

	uploaded := make([]inputFile, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input.path) == "" {
			continue
		}
		url, err := u.uploadFile(input.path)
		if err != nil {
			return nil, fmt.Errorf("failed to upload file %s: %w", input.path, err)
		}
		uploaded = append(uploaded, inputFile{path: url, dataType: input.dataType})
	}

	processInfoJSON, err := json.Marshal(entity.ProcessMetadata{
		Competence: strings.TrimSpace(req.Competence),
		RunID:      runID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process info: %w", err)
	}

	processLog := &model.ReconciliationProcessLog{
		ReconciliationType: consts.ReconciliationTypeExpenseLedger,
		ProcessInfo:        string(processInfoJSON),
		Status:             consts.StatusInit,
		CreateTime:         timeNowUnix,
		CreateBy:           req.Operator,
		UpdateTime:         timeNowUnix,
		UpdateBy:           req.Operator,
	}
	if err := u.dao.CreateReconciliationProcessLog(processLog); err != nil {
		return nil, err
	}

	for _, file := range uploaded {
		asset := &model.ReconciliationProcessLogAsset{
			ReconciliationProcessLogID: processLog.ID,
			DataType:                   file.dataType,
			FileName:                   filepath.Base(file.path),
			FileUrl:                    file.path,
			CreateTime:                 timeNowUnix,
			CreateBy:                   req.Operator,
		}
		if err := u.dao.CreateReconciliationProcessLogAsset(asset); err != nil {
			return nil, err
		}
	}

	log.Infof("[ReconcileInit] Created LogID %d (run %s) with %d files", processLog.ID, runID, len(uploaded))
	return processLog, nil
}

// uploadFile copies the input into the upload directory under a unique name.
// NOTES: local-disk stand-in for object storage.
func (u *reconciliationUsecase) uploadFile(filePath string) (string, error) {
	input, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	if len(input) == 0 {
		return "", errors.New("file is empty")
	}
	if err := os.MkdirAll(u.uploadDir, 0755); err != nil {
		return "", err
	}

	destPath := filepath.Join(u.uploadDir, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(filePath)))
	if err := os.WriteFile(destPath, input, 0644); err != nil {
		return "", err
	}
	return destPath, nil
}
