// internal/actions/notification/send-broadcast/models.go
package sendbroadcast

type Input struct {
	Message string `json:"message"`
}

type Output struct {
	Sent           bool   `json:"sent"`
	NotificationID string `json:"notificationId,omitempty"`
	Key            string `json:"key,omitempty"`
}

const flashTemplate = "✅ Broadcast sent: '%s'"
