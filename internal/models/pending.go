// internal/models/pending.go
package models

// DeleteNamePrefix marks delete requests in the pending list.
const DeleteNamePrefix = "❌ DELETE: "

// PendingItem is one row of the moderation list: either a new market awaiting
// review or a delete request against an existing one.
type PendingItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	IsDeleteRequest bool   `json:"isDeleteRequest"`
	Status          string `json:"status"`
	SubmittedBy     string `json:"submittedBy"`
	SubmittedByName string `json:"submittedByName"`
	SubmittedAt     string `json:"submittedAt"`
	Description     string `json:"description"`
	PhotoURL        string `json:"photoUrl"`
	Address         string `json:"address,omitempty"`
	Type            string `json:"type,omitempty"`
	OpeningHours    string `json:"openingHours,omitempty"`
	MarketID        string `json:"marketId,omitempty"`
}
