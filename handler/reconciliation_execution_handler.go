package handler

import (
	"context"
	"errors"
)

var ErrNoProcessHandled = errors.New("no process handled")

func (h *ReconciliationHandler) ReconciliationExecution(ctx context.Context) error {
	acquired, logID, err := h.Usecase.TryAcquireLock(ctx)
	if err != nil {
		return err
	}

	if !acquired {
		return ErrNoProcessHandled
	}

	defer h.Usecase.UnlockProcess(ctx, logID)

	return h.Usecase.ProcessReconciliationJob(ctx, logID)
}
