// internal/actions/market/reject-new/models.go
package rejectnew

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
	NotificationTitle = "Submission Rejected"
	notificationBody  = "We reviewed your submission for '%s' but could not approve it at this time."
)
