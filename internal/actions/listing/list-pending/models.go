// internal/actions/listing/list-pending/models.go
package listpending

import "market-admin/internal/models"

type Output struct {
	Items    []models.PendingItem `json:"items"`
	Warnings []string             `json:"warnings,omitempty"`
}

const (
	SourceMarkets     = "markets"
	SourceSubmissions = "submissions"
)
