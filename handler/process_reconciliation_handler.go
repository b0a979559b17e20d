package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/radhian/expense-reconciliation/entity"
	usecase "github.com/radhian/expense-reconciliation/usecase/reconciliation"

	"github.com/labstack/gommon/log"
)

func (h *ReconciliationHandler) ProcessReconciliation(w http.ResponseWriter, r *http.Request) {
	var req entity.ProcessReconciliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateProcessReconciliationRequest(req); err != nil {
		log.Warnf("[ProcessReconciliation] Invalid input: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Usecase.ProcessReconciliationInit(req)
	if err != nil {
		log.Errorf("[ProcessReconciliation] Failed to init process: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process reconciliation")
		return
	}

	writeResponse(w, http.StatusOK, APIResponse{
		Status: "success",
		Data:   res,
	})
}

func validateProcessReconciliationRequest(req entity.ProcessReconciliationRequest) error {
	if strings.TrimSpace(req.ExpensesPath) == "" {
		return errors.New("expenses path is required")
	}
	if strings.TrimSpace(req.LedgerPath) == "" {
		return errors.New("ledger path is required")
	}

	paths := []string{req.ExpensesPath, req.LedgerPath, req.MovementsPath, req.CardSummaryPath}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
	}

	if req.Competence != "" {
		if _, err := usecase.ParseCompetence(req.Competence); err != nil {
			return err
		}
	}
	if strings.TrimSpace(req.Operator) == "" {
		return errors.New("operator must be specified")
	}
	return nil
}
