// internal/models/notification.go
package models

import "time"

// Notification types understood by the client apps.
const (
	NotificationTypeApproval  = "Approval"
	NotificationTypeRejection = "Rejection"
	NotificationTypeBroadcast = "Broadcast"
	NotificationTypeGeneral   = "General"
)

// BroadcastUserID addresses a notification to every user.
const BroadcastUserID = "ALL"

// CreatedAtLayout matches the timestamps the client apps already parse.
const CreatedAtLayout = "2006-01-02T15:04:05.000000"

// Notification is the inbox record written under notifications/{userId}
// or notifications/broadcast. Field names and types are read as-is by the
// client apps.
type Notification struct {
	ID              string `json:"Id"`
	UserID          string `json:"UserId"`
	Title           string `json:"Title"`
	Body            string `json:"Body"`
	Type            string `json:"Type"`
	RelatedMarketID string `json:"RelatedMarketId,omitempty"`
	CreatedAt       string `json:"CreatedAt"`
	IsRead          bool   `json:"IsRead"`
}

// FormatCreatedAt renders t in UTC using CreatedAtLayout.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}
