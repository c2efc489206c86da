// internal/models/submission.go
package models

// Submission request types.
const (
	RequestTypeNew    = "New"
	RequestTypeDelete = "Delete"
)

// Submission is a change or delete request stored under submissions/{id}.
type Submission struct {
	ID              string  `json:"Id,omitempty"`
	MarketName      string  `json:"MarketName"`
	MarketID        string  `json:"MarketId"`
	SubmittedBy     string  `json:"SubmittedBy"`
	SubmittedByName string  `json:"SubmittedByName"`
	SubmittedAt     string  `json:"SubmittedAt"`
	Status          string  `json:"Status"`
	RejectionReason *string `json:"RejectionReason,omitempty"`
	ReviewedAt      *string `json:"ReviewedAt,omitempty"`
	ReviewedBy      *string `json:"ReviewedBy,omitempty"`
	RequestType     string  `json:"RequestType"`
	ChangeDetails   string  `json:"ChangeDetails"`
}

// IsPendingDelete reports whether the submission is an undecided delete request.
func (s *Submission) IsPendingDelete() bool {
	return s.Status == StatusPending && s.RequestType == RequestTypeDelete
}
