// internal/actions/notification/send-broadcast/handler.go
package sendbroadcast

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market-admin/internal/audit"
	"market-admin/internal/common/logger"
	"market-admin/internal/common/metrics"
	"market-admin/internal/notification"
)

const ActionName = "send-broadcast"

type Broadcaster interface {
	Broadcast(ctx context.Context, message string) (*notification.Result, error)
}

type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

type Handler struct {
	config      *Config
	broadcaster Broadcaster
	auditor     Auditor
	logger      logger.Logger
}

func NewHandler(config *Config, broadcaster Broadcaster, auditor Auditor, log logger.Logger) *Handler {
	if auditor == nil {
		auditor = audit.NewRecorder(nil)
	}
	return &Handler{
		config:      config,
		broadcaster: broadcaster,
		auditor:     auditor,
		logger:      log.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

// Execute posts message to every user. A blank message sends nothing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	output, err := h.execute(ctx, input)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailure
	case !output.Sent:
		outcome = metrics.OutcomeSkipped
	}
	metrics.AdminActionsTotal.WithLabelValues(ActionName, outcome).Inc()
	metrics.AdminActionDuration.WithLabelValues(ActionName).Observe(time.Since(start).Seconds())

	return output, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Message) == "" {
		return &Output{Sent: false}, nil
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	result, err := h.broadcaster.Broadcast(ctx, input.Message)
	if err != nil {
		return nil, fmt.Errorf("send broadcast: %w", err)
	}

	if err := h.auditor.Record(ctx, audit.Entry{
		Action:         ActionName,
		RecordID:       result.Key,
		RecordKind:     audit.KindBroadcast,
		NotificationID: result.NotificationID,
		Notified:       result.Written,
	}); err != nil {
		h.logger.Error("audit write failed", map[string]interface{}{
			"notificationId": result.NotificationID,
			"error":          err,
		})
	}

	h.logger.Info("broadcast sent", map[string]interface{}{
		"notificationId": result.NotificationID,
		"length":         len(input.Message),
	})

	return &Output{
		Sent:           result.Written,
		NotificationID: result.NotificationID,
		Key:            result.Key,
	}, nil
}

// FlashMessage is the confirmation shown to the admin after a send.
func FlashMessage(message string) string {
	return fmt.Sprintf(flashTemplate, message)
}
