// internal/actions/market/reject-new/handler.go
package rejectnew

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

const ActionName = "reject-new"

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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	output, err := h.execute(ctx, input)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
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

	path := "markets/" + input.ID

	var market models.Market
	found, err := h.store.Get(ctx, path, &market)
	if err != nil {
		return nil, fmt.Errorf("load market %s: %w", input.ID, err)
	}

	// Written whether or not the market exists.
	if err := h.store.Patch(ctx, path, models.StatusPatch{Status: models.StatusRejected}); err != nil {
		return nil, fmt.Errorf("reject market %s: %w", input.ID, err)
	}

	output := &Output{ID: input.ID, Status: models.StatusRejected, Found: found}

	if found {
		result, err := h.notifier.Send(ctx, notification.Request{
			UserID:          market.SubmittedBy,
			Title:           NotificationTitle,
			Body:            fmt.Sprintf(notificationBody, market.DisplayName()),
			RelatedMarketID: input.ID,
			Type:            models.NotificationTypeRejection,
			SourceID:        audit.KindMarket + ":" + input.ID,
			TargetStatus:    models.StatusRejected,
		})
		if err != nil {
			h.logger.Error("rejection notification failed after status write", map[string]interface{}{
				"marketId": input.ID,
				"error":    err,
			})
		} else {
			output.NotificationID = result.NotificationID
			output.Notified = result.Written
		}
	} else {
		h.logger.Warn("market not found, status written without notification", map[string]interface{}{
			"marketId": input.ID,
		})
	}

	if err := h.auditor.Record(ctx, audit.Entry{
		Action:         ActionName,
		RecordID:       input.ID,
		RecordKind:     audit.KindMarket,
		TargetStatus:   models.StatusRejected,
		UserID:         market.SubmittedBy,
		NotificationID: output.NotificationID,
		Notified:       output.Notified,
	}); err != nil {
		h.logger.Error("audit write failed", map[string]interface{}{
			"marketId": input.ID,
			"error":    err,
		})
	}

	h.logger.Info("market rejected", map[string]interface{}{
		"marketId": input.ID,
		"notified": output.Notified,
	})

	return output, nil
}
