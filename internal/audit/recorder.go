// Package audit keeps a Postgres trail of moderation decisions. The trail is
// write-only; the document store stays the source of truth.
package audit

import (
	"context"
	"database/sql"
	"time"

	"market-admin/internal/common/errors"
)

const (
	KindMarket     = "market"
	KindSubmission = "submission"
	KindBroadcast  = "broadcast"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS moderation_audit (
	id              BIGSERIAL PRIMARY KEY,
	action          TEXT        NOT NULL,
	record_id       TEXT        NOT NULL,
	record_kind     TEXT        NOT NULL,
	target_status   TEXT        NOT NULL DEFAULT '',
	user_id         TEXT        NOT NULL DEFAULT '',
	notification_id TEXT        NOT NULL DEFAULT '',
	notified        BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL
)`

const insertSQL = `INSERT INTO moderation_audit
	(action, record_id, record_kind, target_status, user_id, notification_id, notified, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Entry is one completed moderation action.
type Entry struct {
	Action         string
	RecordID       string
	RecordKind     string
	TargetStatus   string
	UserID         string
	NotificationID string
	Notified       bool
	At             time.Time
}

// Recorder appends entries to moderation_audit. A nil Recorder records nothing.
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *sql.DB) *Recorder {
	if db == nil {
		return nil
	}
	return &Recorder{db: db}
}

// EnsureSchema creates the audit table if it does not exist.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return errors.NewAuditWriteFailedError(err)
	}
	return nil
}

func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil {
		return nil
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertSQL,
		e.Action, e.RecordID, e.RecordKind, e.TargetStatus,
		e.UserID, e.NotificationID, e.Notified, e.At.UTC(),
	)
	if err != nil {
		return errors.NewAuditWriteFailedError(err)
	}
	return nil
}
