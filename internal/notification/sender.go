// Package notification writes inbox records for moderation outcomes and
// announcements. Records are appended to the document store and read by the
// client apps; delivery and read state are theirs.
package notification

import (
	"context"
	"strings"
	"time"

	"market-admin/internal/common/errors"
	"market-admin/internal/common/logger"
	"market-admin/internal/common/metrics"
	"market-admin/internal/models"

	"github.com/google/uuid"
)

const (
	inboxRoot     = "notifications/"
	broadcastPath = inboxRoot + "broadcast"

	DefaultBroadcastTitle = "📢 Announcement"
)

// Store is the append operation the sender needs.
type Store interface {
	Post(ctx context.Context, path string, body interface{}) (string, error)
}

// Request describes one user-addressed notification. SourceID and
// TargetStatus identify the moderation outcome and only matter when
// de-duplication is enabled.
type Request struct {
	UserID          string
	Title           string
	Body            string
	RelatedMarketID string
	Type            string
	SourceID        string
	TargetStatus    string
}

type Result struct {
	NotificationID string `json:"notificationId,omitempty"`
	Key            string `json:"key,omitempty"`
	Written        bool   `json:"written"`
	Duplicate      bool   `json:"duplicate,omitempty"`
}

type Sender struct {
	store          Store
	deduper        *Deduper
	logger         logger.Logger
	broadcastTitle string
	now            func() time.Time
}

type Option func(*Sender)

// WithDeduper enables at-most-once writes per (SourceID, TargetStatus).
func WithDeduper(d *Deduper) Option {
	return func(s *Sender) { s.deduper = d }
}

func WithBroadcastTitle(title string) Option {
	return func(s *Sender) {
		if title != "" {
			s.broadcastTitle = title
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Sender) { s.now = now }
}

func NewSender(store Store, log logger.Logger, opts ...Option) *Sender {
	s := &Sender{
		store:          store,
		logger:         log.WithFields(map[string]interface{}{"component": "notification"}),
		broadcastTitle: DefaultBroadcastTitle,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends a notification to notifications/{UserID}. An empty UserID is
// logged and nothing is written.
func (s *Sender) Send(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == "" {
		s.logger.Error("no user id provided for notification", map[string]interface{}{
			"title":           req.Title,
			"relatedMarketId": req.RelatedMarketID,
		})
		metrics.NotificationsWritten.WithLabelValues(req.Type, metrics.OutcomeSkipped).Inc()
		return &Result{Written: false}, nil
	}

	id := uuid.NewString()
	guarded := false
	if s.deduper != nil && req.SourceID != "" {
		id = DeterministicID(req.SourceID, req.TargetStatus)
		if !s.deduper.AcquireOnce(ctx, id) {
			metrics.NotificationsWritten.WithLabelValues(req.Type, metrics.OutcomeDuplicate).Inc()
			return &Result{NotificationID: id, Written: false, Duplicate: true}, nil
		}
		guarded = true
	}

	n := models.Notification{
		ID:              id,
		UserID:          req.UserID,
		Title:           req.Title,
		Body:            req.Body,
		Type:            req.Type,
		RelatedMarketID: req.RelatedMarketID,
		CreatedAt:       models.FormatCreatedAt(s.now()),
		IsRead:          false,
	}

	result, err := s.write(ctx, inboxRoot+req.UserID, n)
	if err != nil && guarded {
		s.deduper.Release(ctx, id)
	}
	return result, err
}

// Broadcast appends an announcement addressed to every user.
func (s *Sender) Broadcast(ctx context.Context, message string) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.NewInvalidInputError("broadcast message is empty")
	}

	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    models.BroadcastUserID,
		Title:     s.broadcastTitle,
		Body:      message,
		Type:      models.NotificationTypeBroadcast,
		CreatedAt: models.FormatCreatedAt(s.now()),
		IsRead:    false,
	}

	return s.write(ctx, broadcastPath, n)
}

func (s *Sender) write(ctx context.Context, path string, n models.Notification) (*Result, error) {
	result, err := wireSchema.Validate(n)
	if err != nil {
		return nil, errors.NewNotificationInvalidError(err.Error())
	}
	if !result.Valid {
		metrics.NotificationsWritten.WithLabelValues(n.Type, metrics.OutcomeFailure).Inc()
		return nil, errors.NewNotificationInvalidError(strings.Join(result.GetErrorMessages(), "; "))
	}

	key, err := s.store.Post(ctx, path, n)
	if err != nil {
		metrics.NotificationsWritten.WithLabelValues(n.Type, metrics.OutcomeFailure).Inc()
		return nil, errors.NewNotificationSendFailedError(n.Type, err)
	}

	metrics.NotificationsWritten.WithLabelValues(n.Type, metrics.OutcomeSuccess).Inc()
	s.logger.Info("notification written", map[string]interface{}{
		"notificationId": n.ID,
		"userId":         n.UserID,
		"type":           n.Type,
		"key":            key,
	})

	return &Result{NotificationID: n.ID, Key: key, Written: true}, nil
}
