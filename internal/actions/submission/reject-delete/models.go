// internal/actions/submission/reject-delete/models.go
package rejectdelete

type Input struct {
	ID string `json:"id"`
}

type Output struct {
	ID             string `json:"id"`
	Status         string `json:"status,omitempty"`
	Found          bool   `json:"found"`
	MarketID       string `json:"marketId,omitempty"`
	NotificationID string `json:"notificationId,omitempty"`
	Notified       bool   `json:"notified"`
}

const (
	NotificationTitle = "Deletion Request Denied"
	notificationBody  = "Your request to delete '%s' was not approved. The market remains listed."
)
