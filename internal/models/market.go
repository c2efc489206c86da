// internal/models/market.go
package models

// Record statuses shared by markets and submissions.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// DefaultMarketName is shown when a market record carries no name.
const DefaultMarketName = "Market"

// Market is a listing as written by the mobile client under markets/{id}.
type Market struct {
	ID              string  `json:"Id,omitempty"`
	Name            string  `json:"Name"`
	Description     string  `json:"Description"`
	Address         string  `json:"Address"`
	Latitude        float64 `json:"Latitude"`
	Longitude       float64 `json:"Longitude"`
	Type            string  `json:"Type"`
	OpeningHours    string  `json:"OpeningHours"`
	SubmittedBy     string  `json:"SubmittedBy"`
	SubmittedByName string  `json:"SubmittedByName"`
	SubmittedAt     string  `json:"SubmittedAt"`
	Status          string  `json:"Status"`
	PhotoURL        string  `json:"PhotoUrl"`
	Likes           int     `json:"Likes"`
}

// DisplayName returns the market name, or DefaultMarketName when empty.
func (m *Market) DisplayName() string {
	if m.Name == "" {
		return DefaultMarketName
	}
	return m.Name
}

// StatusPatch is the single-field body written by every moderation action.
type StatusPatch struct {
	Status string `json:"Status"`
}
