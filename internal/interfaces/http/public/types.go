package public

import (
	"time"

	publicapp "github.com/testimonioya/feedback-services/api/internal/public/application"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// endpointViewResponse is what the public form needs to render itself. It
// deliberately exposes nothing about the owning account beyond branding.
type endpointViewResponse struct {
	Slug            string `json:"slug"`
	Kind            string `json:"kind"`
	BusinessName    string `json:"businessName"`
	BrandColor      string `json:"brandColor,omitempty"`
	DefaultLanguage string `json:"defaultLanguage,omitempty"`
	WelcomeMessage  string `json:"welcomeMessage,omitempty"`
	Message         string `json:"message,omitempty"`
	Branded         bool   `json:"branded"`
}

type submitFeedbackRequest struct {
	Score         int    `json:"score"`
	Feedback      string `json:"feedback,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Rating        int    `json:"rating,omitempty"`
}

type submitTestimonialRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Text          string `json:"text"`
	Rating        int    `json:"rating"`
}

// outcomeResponse reports what one accepted submission produced. The
// redirect URL is only present when the thank-you screen should offer the
// Google review step.
type outcomeResponse struct {
	Status             string `json:"status"`
	Category           string `json:"category,omitempty"`
	TestimonialCreated bool   `json:"testimonialCreated"`
	CaseCreated        bool   `json:"caseCreated"`
	GoogleRedirectURL  string `json:"googleRedirectUrl,omitempty"`
}

type replyRequest struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type caseMessageResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// caseResponse is the customer-facing view of a recovery case.
type caseResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	CustomerName string                `json:"customerName,omitempty"`
	Messages     []caseMessageResponse `json:"messages"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

func buildEndpointView(view *publicapp.EndpointView) endpointViewResponse {
	return endpointViewResponse{
		Slug:            view.Endpoint.Slug,
		Kind:            string(view.Endpoint.Kind),
		BusinessName:    view.Tenant.Name,
		BrandColor:      view.Tenant.BrandColor,
		DefaultLanguage: view.Tenant.DefaultLanguage,
		WelcomeMessage:  view.Tenant.WelcomeMessage,
		Message:         view.Endpoint.Message,
		Branded:         view.Branded,
	}
}

func buildOutcome(outcome *publicapp.Outcome) outcomeResponse {
	return outcomeResponse{
		Status:             "ok",
		Category:           string(outcome.Category),
		TestimonialCreated: outcome.TestimonialCreated,
		CaseCreated:        outcome.CaseCreated,
		GoogleRedirectURL:  outcome.GoogleRedirectURL,
	}
}

func buildCaseResponse(recoveryCase *domain.RecoveryCase) caseResponse {
	messages := make([]caseMessageResponse, 0, len(recoveryCase.Messages))
	for _, m := range recoveryCase.Messages {
		messages = append(messages, caseMessageResponse{
			Role:      string(m.Role),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return caseResponse{
		ID:           recoveryCase.ID,
		Status:       string(recoveryCase.Status),
		CustomerName: recoveryCase.CustomerName,
		Messages:     messages,
		UpdatedAt:    recoveryCase.UpdatedAt,
	}
}
