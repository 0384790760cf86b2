package admin

import (
	"time"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
)

type tenantResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	BrandColor          string    `json:"brandColor,omitempty"`
	DefaultLanguage     string    `json:"defaultLanguage,omitempty"`
	WelcomeMessage      string    `json:"welcomeMessage,omitempty"`
	GoogleReviewsURL    string    `json:"googleReviewsUrl,omitempty"`
	GoogleNPSThreshold  int       `json:"googleNpsThreshold"`
	GoogleStarThreshold int       `json:"googleStarThreshold"`
	UseUnifiedFlow      bool      `json:"useUnifiedFlow"`
	UseRecoveryFlow     bool      `json:"useRecoveryFlow"`
	AllowAudio          bool      `json:"allowAudio"`
	AllowVideo          bool      `json:"allowVideo"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type tenantListResponse struct {
	Items []tenantResponse `json:"items"`
}

type updateSettingsRequest struct {
	Name                *string `json:"name,omitempty"`
	BrandColor          *string `json:"brandColor,omitempty"`
	DefaultLanguage     *string `json:"defaultLanguage,omitempty"`
	WelcomeMessage      *string `json:"welcomeMessage,omitempty"`
	GoogleReviewsURL    *string `json:"googleReviewsUrl,omitempty"`
	GoogleNPSThreshold  *int    `json:"googleNpsThreshold,omitempty"`
	GoogleStarThreshold *int    `json:"googleStarThreshold,omitempty"`
	UseUnifiedFlow      *bool   `json:"useUnifiedFlow,omitempty"`
	UseRecoveryFlow     *bool   `json:"useRecoveryFlow,omitempty"`
	AllowAudio          *bool   `json:"allowAudio,omitempty"`
	AllowVideo          *bool   `json:"allowVideo,omitempty"`
}

type usageResponse struct {
	Resource  string `json:"resource"`
	Current   int    `json:"current"`
	Limit     int    `json:"limit"`
	Unlimited bool   `json:"unlimited"`
}

type usageListResponse struct {
	Items []usageResponse `json:"items"`
}

type caseMessageResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type caseResponse struct {
	ID            string                `json:"id"`
	TenantID      string                `json:"tenantId"`
	ResponseID    string                `json:"responseId"`
	Status        string                `json:"status"`
	CustomerName  string                `json:"customerName,omitempty"`
	CustomerEmail string                `json:"customerEmail,omitempty"`
	Score         *int                  `json:"score,omitempty"`
	Feedback      string                `json:"feedback,omitempty"`
	Messages      []caseMessageResponse `json:"messages"`
	ResolvedScore *int                  `json:"resolvedScore,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type caseListResponse struct {
	Items []caseResponse `json:"items"`
}

type caseReplyRequest struct {
	Message string `json:"message"`
}

type caseStatusRequest struct {
	Status string `json:"status"`
}

type testimonialResponse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Text          string    `json:"text"`
	Rating        int       `json:"rating"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
}

type testimonialListResponse struct {
	Items []testimonialResponse `json:"items"`
}

type moderateTestimonialRequest struct {
	Status   string `json:"status"`
	Featured *bool  `json:"featured,omitempty"`
}

type endpointResponse struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenantId"`
	Slug              string    `json:"slug"`
	Name              string    `json:"name"`
	Kind              string    `json:"kind"`
	Active            bool      `json:"active"`
	Views             int       `json:"views"`
	Submissions       int       `json:"submissions"`
	Message           string    `json:"message,omitempty"`
	PromoterThreshold int       `json:"promoterThreshold,omitempty"`
	PassiveThreshold  int       `json:"passiveThreshold,omitempty"`
	AskGoogleReview   bool      `json:"askGoogleReview"`
	GoogleReviewsURL  string    `json:"googleReviewsUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type endpointListResponse struct {
	Items []endpointResponse `json:"items"`
}

type createEndpointRequest struct {
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	Message           string `json:"message,omitempty"`
	PromoterThreshold int    `json:"promoterThreshold,omitempty"`
	PassiveThreshold  int    `json:"passiveThreshold,omitempty"`
	AskGoogleReview   bool   `json:"askGoogleReview,omitempty"`
	GoogleReviewsURL  string `json:"googleReviewsUrl,omitempty"`
}

type updateEndpointRequest struct {
	Name              *string `json:"name,omitempty"`
	Active            *bool   `json:"active,omitempty"`
	Message           *string `json:"message,omitempty"`
	PromoterThreshold *int    `json:"promoterThreshold,omitempty"`
	PassiveThreshold  *int    `json:"passiveThreshold,omitempty"`
	AskGoogleReview   *bool   `json:"askGoogleReview,omitempty"`
	GoogleReviewsURL  *string `json:"googleReviewsUrl,omitempty"`
}

func buildTenantResponse(tenant admindomain.Tenant) tenantResponse {
	return tenantResponse{
		ID:                  tenant.ID,
		Name:                tenant.Name,
		Slug:                tenant.Slug,
		BrandColor:          tenant.BrandColor,
		DefaultLanguage:     tenant.DefaultLanguage,
		WelcomeMessage:      tenant.WelcomeMessage,
		GoogleReviewsURL:    tenant.GoogleReviewsURL,
		GoogleNPSThreshold:  tenant.GoogleNPSThreshold,
		GoogleStarThreshold: tenant.GoogleStarThreshold,
		UseUnifiedFlow:      tenant.UseUnifiedFlow,
		UseRecoveryFlow:     tenant.UseRecoveryFlow,
		AllowAudio:          tenant.AllowAudio,
		AllowVideo:          tenant.AllowVideo,
		CreatedAt:           tenant.CreatedAt,
		UpdatedAt:           tenant.UpdatedAt,
	}
}

func buildCaseResponse(adminCase admindomain.Case) caseResponse {
	messages := make([]caseMessageResponse, 0, len(adminCase.Messages))
	for _, m := range adminCase.Messages {
		messages = append(messages, caseMessageResponse{
			Role:      m.Role,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return caseResponse{
		ID:            adminCase.ID,
		TenantID:      adminCase.TenantID,
		ResponseID:    adminCase.ResponseID,
		Status:        adminCase.Status,
		CustomerName:  adminCase.CustomerName,
		CustomerEmail: adminCase.CustomerEmail,
		Score:         adminCase.Score,
		Feedback:      adminCase.Feedback,
		Messages:      messages,
		ResolvedScore: adminCase.ResolvedScore,
		CreatedAt:     adminCase.CreatedAt,
		UpdatedAt:     adminCase.UpdatedAt,
	}
}

func buildTestimonialResponse(testimonial admindomain.Testimonial) testimonialResponse {
	return testimonialResponse{
		ID:            testimonial.ID,
		TenantID:      testimonial.TenantID,
		CustomerName:  testimonial.CustomerName,
		CustomerEmail: testimonial.CustomerEmail,
		Text:          testimonial.Text,
		Rating:        testimonial.Rating,
		Status:        string(testimonial.Status),
		Source:        testimonial.Source,
		Featured:      testimonial.Featured,
		CreatedAt:     testimonial.CreatedAt,
	}
}

func buildEndpointResponse(endpoint admindomain.Endpoint) endpointResponse {
	return endpointResponse{
		ID:                endpoint.ID,
		TenantID:          endpoint.TenantID,
		Slug:              endpoint.Slug,
		Name:              endpoint.Name,
		Kind:              endpoint.Kind,
		Active:            endpoint.Active,
		Views:             endpoint.Views,
		Submissions:       endpoint.Submissions,
		Message:           endpoint.Message,
		PromoterThreshold: endpoint.PromoterThreshold,
		PassiveThreshold:  endpoint.PassiveThreshold,
		AskGoogleReview:   endpoint.AskGoogleReview,
		GoogleReviewsURL:  endpoint.GoogleReviewsURL,
		CreatedAt:         endpoint.CreatedAt,
	}
}
