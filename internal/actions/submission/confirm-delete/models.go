// internal/actions/submission/confirm-delete/models.go
package confirmdelete

// Input carries the submission id, not the market id.
type Input struct {
	ID string `json:"id"`
}

type Output struct {
	ID             string `json:"id"`
	Status         string `json:"status,omitempty"`
	Found          bool   `json:"found"`
	MarketID       string `json:"marketId,omitempty"`
	MarketDelisted bool   `json:"marketDelisted"`
	NotificationID string `json:"notificationId,omitempty"`
	Notified       bool   `json:"notified"`
}

const (
	NotificationTitle = "Deletion Request Approved"
	notificationBody  = "Your request to delete '%s' has been processed."
)
