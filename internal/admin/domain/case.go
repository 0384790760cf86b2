package domain

import "time"

// CaseMessage is one thread entry as shown on the dashboard.
type CaseMessage struct {
	Role      string
	Text      string
	CreatedAt time.Time
}

// Case is the dashboard view of a recovery case, joined with the score and
// feedback of the originating response.
type Case struct {
	ID            string
	TenantID      string
	ResponseID    string
	Status        string
	CustomerName  string
	CustomerEmail string
	Score         *int
	Feedback      string
	Messages      []CaseMessage
	ResolvedScore *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
