package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Thread bounds. MaxCaseMessages is the single authoritative cap for both
// business- and customer-authored replies; once a case holds this many
// messages no further append is accepted from either side.
const (
	MaxCaseMessages  = 5
	MaxMessageLength = 1000
)

// CaseStatus is the lifecycle state of a recovery case.
type CaseStatus string

const (
	CaseOpen       CaseStatus = "open"
	CaseInProgress CaseStatus = "in_progress"
	CaseResolved   CaseStatus = "resolved"
	CaseClosed     CaseStatus = "closed"
)

// Valid reports whether the value is a known case status.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseOpen, CaseInProgress, CaseResolved, CaseClosed:
		return true
	}
	return false
}

// MessageRole identifies the author of a thread message.
type MessageRole string

const (
	RoleBusiness MessageRole = "business"
	RoleCustomer MessageRole = "customer"
)

// Message is one entry of a case's append-only thread.
type Message struct {
	Role      MessageRole
	Text      string
	CreatedAt time.Time
}

// RecoveryCase is a bounded conversation opened for one detractor response.
// The thread is strictly append-only: no edit or reorder operation exists.
type RecoveryCase struct {
	ID            string
	TenantID      string
	ResponseID    string
	Status        CaseStatus
	CustomerName  string
	CustomerEmail string
	Messages      []Message
	ResolvedScore *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecoveryCase opens a case for a detractor response, seeding the thread
// with the customer's feedback text as its first message.
func NewRecoveryCase(response *FeedbackResponse, now time.Time) *RecoveryCase {
	return &RecoveryCase{
		TenantID:      response.TenantID,
		ResponseID:    response.ID,
		Status:        CaseOpen,
		CustomerName:  response.CustomerName,
		CustomerEmail: response.CustomerEmail,
		Messages: []Message{{
			Role:      RoleCustomer,
			Text:      response.Feedback,
			CreatedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidateMessageText checks a reply body against the thread bounds.
func ValidateMessageText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NewValidationError("message", "message text is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return NewValidationError("message", "message text is too long")
	}
	return nil
}

// CanAppend reports whether the case currently accepts another message.
func (c *RecoveryCase) CanAppend() error {
	if c.Status == CaseClosed {
		return ErrCaseClosed
	}
	if len(c.Messages) >= MaxCaseMessages {
		return ErrMessageLimitReached
	}
	return nil
}

// Append adds one message to the thread, transitioning an open case to
// in_progress on its first reply. The persistence layer re-applies the same
// guards conditionally so concurrent appends cannot race past the cap.
func (c *RecoveryCase) Append(role MessageRole, text string, now time.Time) (Message, error) {
	if err := ValidateMessageText(text); err != nil {
		return Message{}, err
	}
	if err := c.CanAppend(); err != nil {
		return Message{}, err
	}

	msg := Message{Role: role, Text: strings.TrimSpace(text), CreatedAt: now}
	c.Messages = append(c.Messages, msg)
	if c.Status == CaseOpen {
		c.Status = CaseInProgress
	}
	c.UpdatedAt = now
	return msg, nil
}

// Transition applies a business-requested status change. Only resolved and
// closed are reachable through the API; closed is terminal.
func (c *RecoveryCase) Transition(next CaseStatus, now time.Time) error {
	if c.Status == CaseClosed {
		return ErrCaseClosed
	}
	if next != CaseResolved && next != CaseClosed {
		return NewValidationError("status", "status must be resolved or closed")
	}
	c.Status = next
	c.UpdatedAt = now
	return nil
}
