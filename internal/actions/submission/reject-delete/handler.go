// internal/actions/submission/reject-delete/handler.go
package rejectdelete

import (
	"context"
	"fmt"
	"time"

	"market-admin/internal/audit"
	"market-admin/internal/common/errors"
	"market-admin/internal/common/logger"
	"market-admin/internal/common/metrics"
	"market-admin/internal/common/validation"
	"market-admin/internal/models"
	"market-admin/internal/notification"
)

const ActionName = "reject-delete"

type Store interface {
	Get(ctx context.Context, path string, out interface{}) (bool, error)
	Patch(ctx context.Context, path string, fields interface{}) error
}

type Notifier interface {
	Send(ctx context.Context, req notification.Request) (*notification.Result, error)
}

type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

type Handler struct {
	config   *Config
	store    Store
	notifier Notifier
	auditor  Auditor
	logger   logger.Logger
}

func NewHandler(config *Config, store Store, notifier Notifier, auditor Auditor, log logger.Logger) *Handler {
	if auditor == nil {
		auditor = audit.NewRecorder(nil)
	}
	return &Handler{
		config:   config,
		store:    store,
		notifier: notifier,
		auditor:  auditor,
		logger:   log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

// Execute denies a delete request. Only the submission is written; the
// market keeps its status.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	output, err := h.execute(ctx, input)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailure
	case !output.Found:
		outcome = metrics.OutcomeSkipped
	}
	metrics.AdminActionsTotal.WithLabelValues(ActionName, outcome).Inc()
	metrics.AdminActionDuration.WithLabelValues(ActionName).Observe(time.Since(start).Seconds())

	return output, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validation.ValidateRecordKey(input.ID); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	path := "submissions/" + input.ID

	var sub models.Submission
	found, err := h.store.Get(ctx, path, &sub)
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", input.ID, err)
	}
	if !found {
		h.logger.Warn("submission not found, nothing to do", map[string]interface{}{
			"submissionId": input.ID,
		})
		return &Output{ID: input.ID}, nil
	}

	if err := h.store.Patch(ctx, path, models.StatusPatch{Status: models.StatusRejected}); err != nil {
		return nil, fmt.Errorf("reject submission %s: %w", input.ID, err)
	}

	output := &Output{
		ID:       input.ID,
		Status:   models.StatusRejected,
		Found:    true,
		MarketID: sub.MarketID,
	}

	result, err := h.notifier.Send(ctx, notification.Request{
		UserID:          sub.SubmittedBy,
		Title:           NotificationTitle,
		Body:            fmt.Sprintf(notificationBody, sub.MarketName),
		RelatedMarketID: sub.MarketID,
		Type:            models.NotificationTypeRejection,
		SourceID:        audit.KindSubmission + ":" + input.ID,
		TargetStatus:    models.StatusRejected,
	})
	if err != nil {
		h.logger.Error("denial notification failed after status write", map[string]interface{}{
			"submissionId": input.ID,
			"error":        err,
		})
	} else {
		output.NotificationID = result.NotificationID
		output.Notified = result.Written
	}

	if err := h.auditor.Record(ctx, audit.Entry{
		Action:         ActionName,
		RecordID:       input.ID,
		RecordKind:     audit.KindSubmission,
		TargetStatus:   models.StatusRejected,
		UserID:         sub.SubmittedBy,
		NotificationID: output.NotificationID,
		Notified:       output.Notified,
	}); err != nil {
		h.logger.Error("audit write failed", map[string]interface{}{
			"submissionId": input.ID,
			"error":        err,
		})
	}

	h.logger.Info("delete request denied", map[string]interface{}{
		"submissionId": input.ID,
		"notified":     output.Notified,
	})

	return output, nil
}
