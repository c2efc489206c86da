// internal/actions/market/approve-new/models.go
package approvenew

type Input struct {
	ID string `json:"id"`
}

type Output struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Found          bool   `json:"found"`
	NotificationID string `json:"notificationId,omitempty"`
	Notified       bool   `json:"notified"`
}

const (
	NotificationTitle = "Market Approved! 🎉"
	notificationBody  = "Good news! Your submission for '%s' has been approved and is now visible."
)
