package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/radhian/expense-reconciliation/consts"
	"github.com/radhian/expense-reconciliation/entity"
	"github.com/radhian/expense-reconciliation/infra/db/model"
	"github.com/radhian/expense-reconciliation/infra/ingest"
	"github.com/radhian/expense-reconciliation/infra/report"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

const (
	IndicatorCardOpeningBalance = "card opening balance"
	IndicatorCardClosingBalance = "card closing balance"
)

var errMissingAsset = errors.New("missing required input file")

func (u *reconciliationUsecase) ProcessReconciliationJob(ctx context.Context, logID int64) (err error) {
	log.Infof("[ReconcileJob] Starting job for LogID: %d", logID)

	logEntry, err := u.dao.GetReconciliationProcessLogByID(logID)
	if err != nil {
		log.Errorf("[ReconcileJob] Could not fetch process log %d: %v", logID, err)
		return err
	}

	metadata, err := parseProcessMetadata(logEntry.ProcessInfo)
	if err != nil {
		log.Errorf("[ReconcileJob] Metadata parse error for LogID %d: %v", logID, err)
		return u.markFailed(logEntry, metadata, err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[ReconcileJob] Panic recovered for LogID %d: %v", logID, r)
			err = u.markFailed(logEntry, metadata, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	logEntry.Status = consts.StatusRunning
	logEntry.UpdateTime = u.now().Unix()
	logEntry.UpdateBy = consts.SystemOperator
	if err := u.dao.UpdateReconciliationProcessLog(logEntry); err != nil {
		log.Errorf("[ReconcileJob] Failed to mark LogID %d running: %v", logID, err)
		return err
	}

	summary, err := u.reconcileAssets(&logEntry, metadata)
	if err != nil {
		log.Errorf("[ReconcileJob] Reconciliation failed for LogID %d: %v", logID, err)
		return u.markFailed(logEntry, metadata, err)
	}

	resultJSON, err := json.Marshal(summary)
	if err != nil {
		return u.markFailed(logEntry, metadata, fmt.Errorf("failed to marshal summary: %w", err))
	}

	logEntry.Result = string(resultJSON)
	logEntry.Status = consts.StatusFinished
	logEntry.UpdateTime = u.now().Unix()
	logEntry.UpdateBy = consts.SystemOperator
	if err := u.dao.UpdateReconciliationProcessLog(logEntry); err != nil {
		log.Errorf("[ReconcileJob] Failed to update log %d: %v", logID, err)
		return fmt.Errorf("failed to update log: %w", err)
	}

	log.Infof("[ReconcileJob] Job completed for LogID %d", logID)
	return nil
}

// reconcileAssets loads the uploaded files, runs the pipeline and stores the
// workbook as a report asset.
func (u *reconciliationUsecase) reconcileAssets(logEntry *model.ReconciliationProcessLog, metadata entity.ProcessMetadata) (entity.ProcessSummary, error) {
	summary := entity.ProcessSummary{RunID: metadata.RunID}

	assets, err := u.dao.GetReconciliationLogAssetsByLogID(logEntry.ID)
	if err != nil {
		return summary, err
	}

	input, cards, err := loadPipelineInput(assets)
	if err != nil {
		return summary, err
	}
	logEntry.TotalExpenseRow = int64(len(input.Expenses))
	logEntry.TotalEntryRow = int64(len(input.Entries))

	if metadata.Competence != "" {
		input.Competence, err = ParseCompetence(metadata.Competence)
		if err != nil {
			return summary, err
		}
	}

	out, err := u.pipeline.Run(input)
	if err != nil {
		return summary, err
	}

	// a log picked up again after a crash keeps its report asset
	reportPath, reused := findAssetUrl(assets, consts.DataTypeReport)
	if !reused {
		reportPath = filepath.Join(u.reportDir, fmt.Sprintf("reconciliation_%d_%s.xlsx", logEntry.ID, metadata.RunID))
	}
	if err := report.WriteWorkbook(report.BuildExport(&out.Result), reportPath); err != nil {
		return summary, err
	}
	if reused {
		log.Infof("[ReconcileJob] Rewrote report %s for LogID %d", reportPath, logEntry.ID)
		return buildProcessSummary(metadata, out, cards), nil
	}

	asset := &model.ReconciliationProcessLogAsset{
		ReconciliationProcessLogID: logEntry.ID,
		DataType:                   consts.DataTypeReport,
		FileName:                   filepath.Base(reportPath),
		FileUrl:                    reportPath,
		CreateTime:                 u.now().Unix(),
		CreateBy:                   consts.SystemOperator,
	}
	if err := u.dao.CreateReconciliationProcessLogAsset(asset); err != nil {
		return summary, err
	}

	return buildProcessSummary(metadata, out, cards), nil
}

func loadPipelineInput(assets []model.ReconciliationProcessLogAsset) (PipelineInput, []entity.CardBalance, error) {
	var (
		input PipelineInput
		cards []entity.CardBalance
		err   error
	)

	expensesURL, ok := findAssetUrl(assets, consts.DataTypeExpenseFile)
	if !ok {
		return input, nil, fmt.Errorf("%w: platform expenses", errMissingAsset)
	}
	ledgerURL, ok := findAssetUrl(assets, consts.DataTypeLedgerFile)
	if !ok {
		return input, nil, fmt.Errorf("%w: ERP ledger", errMissingAsset)
	}

	if input.Expenses, err = ingest.LoadExpenses(expensesURL); err != nil {
		return input, nil, err
	}
	if input.Entries, err = ingest.LoadLedgerEntries(ledgerURL); err != nil {
		return input, nil, err
	}
	if url, ok := findAssetUrl(assets, consts.DataTypeMovementFile); ok {
		if input.MovementDates, err = ingest.LoadMovementDates(url); err != nil {
			return input, nil, err
		}
	}
	if url, ok := findAssetUrl(assets, consts.DataTypeCardSummaryFile); ok {
		if cards, err = ingest.LoadCardSummary(url); err != nil {
			return input, nil, err
		}
	}
	return input, cards, nil
}

func findAssetUrl(assets []model.ReconciliationProcessLogAsset, dataType int64) (string, bool) {
	for _, asset := range assets {
		if asset.DataType == dataType {
			return asset.FileUrl, true
		}
	}
	return "", false
}

func parseProcessMetadata(processInfo string) (entity.ProcessMetadata, error) {
	var metadata entity.ProcessMetadata
	if err := json.Unmarshal([]byte(processInfo), &metadata); err != nil {
		return metadata, fmt.Errorf("failed to parse process metadata: %w", err)
	}
	return metadata, nil
}

func buildProcessSummary(metadata entity.ProcessMetadata, out PipelineOutput, cards []entity.CardBalance) entity.ProcessSummary {
	summary := entity.ProcessSummary{
		RunID:             metadata.RunID,
		MatchedExpenses:   len(out.Result.MatchedExpenses),
		UnmatchedExpenses: len(out.Result.UnmatchedExpenses),
		MatchedEntries:    len(out.Result.MatchedEntries),
		UnmatchedEntries:  len(out.Result.UnmatchedEntries),
		Matches:           len(out.Matches),
		DuplicateGroups:   len(out.Duplicates),
		Indicators:        make(map[string]string),
		Diagnostics:       make(map[string]int),
	}
	if !out.Competence.IsZero() {
		summary.Competence = FormatCompetence(out.Competence)
	}
	for _, indicator := range report.Summarize(&out.Result) {
		summary.Indicators[indicator.Name] = indicator.Value
	}
	for reason, count := range out.Result.Diagnostics {
		summary.Diagnostics[string(reason)] = count
	}

	if len(cards) > 0 {
		opening, closing := decimal.Zero, decimal.Zero
		for _, card := range cards {
			opening = opening.Add(card.OpeningBalance)
			closing = closing.Add(card.ClosingBalance)
		}
		summary.Indicators[IndicatorCardOpeningBalance] = opening.StringFixed(2)
		summary.Indicators[IndicatorCardClosingBalance] = closing.StringFixed(2)
	}
	return summary
}

// markFailed stores cause in the log result and returns it.
func (u *reconciliationUsecase) markFailed(logEntry model.ReconciliationProcessLog, metadata entity.ProcessMetadata, cause error) error {
	resultJSON, err := json.Marshal(entity.ProcessSummary{RunID: metadata.RunID, Competence: metadata.Competence, Error: cause.Error()})
	if err != nil {
		return cause
	}

	logEntry.Result = string(resultJSON)
	logEntry.Status = consts.StatusFailed
	logEntry.UpdateTime = u.now().Unix()
	logEntry.UpdateBy = consts.SystemOperator
	if err := u.dao.UpdateReconciliationProcessLog(logEntry); err != nil {
		log.Errorf("[ReconcileJob] Failed to mark LogID %d failed: %v", logEntry.ID, err)
	}
	return cause
}
