package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/radhian/expense-reconciliation/infra/db/dao"
	usecase "github.com/radhian/expense-reconciliation/usecase/reconciliation"

	"github.com/labstack/gommon/log"
)

func (h *ReconciliationHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	logID, ok := parseLogID(w, r)
	if !ok {
		return
	}

	result, err := h.Usecase.GetReconciliationResult(logID)
	if errors.Is(err, dao.ErrProcessLogNotFound) {
		writeError(w, http.StatusNotFound, "process log not found")
		return
	}
	if err != nil {
		log.Errorf("[GetResult] log_id:%d err:%v", logID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}

	writeResponse(w, http.StatusOK, APIResponse{
		Status: "success",
		Data:   result,
	})
}

// DownloadReport serves the xlsx workbook of a finished process log.
func (h *ReconciliationHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	logID, ok := parseLogID(w, r)
	if !ok {
		return
	}

	path, err := h.Usecase.GetReportPath(logID)
	switch {
	case errors.Is(err, dao.ErrProcessLogNotFound):
		writeError(w, http.StatusNotFound, "process log not found")
		return
	case errors.Is(err, usecase.ErrReportNotReady):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		log.Errorf("[DownloadReport] log_id:%d err:%v", logID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(path)+"\"")
	http.ServeFile(w, r, path)
}

func parseLogID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	logIDStr := r.URL.Query().Get("log_id")
	if logIDStr == "" {
		writeError(w, http.StatusBadRequest, "log_id is required")
		return 0, false
	}

	logID, err := strconv.ParseInt(logIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "log_id must be a valid integer")
		return 0, false
	}
	return logID, true
}
