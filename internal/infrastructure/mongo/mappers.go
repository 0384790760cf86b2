package mongo

import (
	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
	publicdomain "github.com/testimonioya/feedback-services/api/internal/public/domain"
)

func mapTenantDocument(doc TenantDocument) publicdomain.Tenant {
	return publicdomain.Tenant{
		ID:                  doc.ID.Hex(),
		UserID:              doc.UserID,
		Name:                doc.Name,
		Slug:                doc.Slug,
		BrandColor:          doc.BrandColor,
		DefaultLanguage:     doc.DefaultLanguage,
		WelcomeMessage:      doc.WelcomeMessage,
		GoogleReviewsURL:    doc.GoogleReviewsURL,
		GoogleNPSThreshold:  doc.GoogleNPSThreshold,
		GoogleStarThreshold: doc.GoogleStarThreshold,
		UseUnifiedFlow:      doc.UseUnifiedFlow,
		UseRecoveryFlow:     doc.UseRecoveryFlow,
		AllowAudio:          doc.AllowAudio,
		AllowVideo:          doc.AllowVideo,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
}

func mapAdminTenantDocument(doc TenantDocument) admindomain.Tenant {
	return admindomain.Tenant{
		ID:                  doc.ID.Hex(),
		UserID:              doc.UserID,
		Name:                doc.Name,
		Slug:                doc.Slug,
		BrandColor:          doc.BrandColor,
		DefaultLanguage:     doc.DefaultLanguage,
		WelcomeMessage:      doc.WelcomeMessage,
		GoogleReviewsURL:    doc.GoogleReviewsURL,
		GoogleNPSThreshold:  doc.GoogleNPSThreshold,
		GoogleStarThreshold: doc.GoogleStarThreshold,
		UseUnifiedFlow:      doc.UseUnifiedFlow,
		UseRecoveryFlow:     doc.UseRecoveryFlow,
		AllowAudio:          doc.AllowAudio,
		AllowVideo:          doc.AllowVideo,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
}

func mapEndpointDocument(doc EndpointDocument) publicdomain.Endpoint {
	return publicdomain.Endpoint{
		ID:                doc.ID.Hex(),
		TenantID:          doc.TenantID.Hex(),
		Slug:              doc.Slug,
		Name:              doc.Name,
		Kind:              publicdomain.EndpointKind(doc.Kind),
		Active:            doc.Active,
		Views:             doc.Views,
		Submissions:       doc.Submissions,
		Message:           doc.Message,
		PromoterThreshold: doc.PromoterThreshold,
		PassiveThreshold:  doc.PassiveThreshold,
		AskGoogleReview:   doc.AskGoogleReview,
		GoogleReviewsURL:  doc.GoogleReviewsURL,
		CreatedAt:         doc.CreatedAt,
	}
}

func mapAdminEndpointDocument(doc EndpointDocument) admindomain.Endpoint {
	return admindomain.Endpoint{
		ID:                doc.ID.Hex(),
		TenantID:          doc.TenantID.Hex(),
		Slug:              doc.Slug,
		Name:              doc.Name,
		Kind:              doc.Kind,
		Active:            doc.Active,
		Views:             doc.Views,
		Submissions:       doc.Submissions,
		Message:           doc.Message,
		PromoterThreshold: doc.PromoterThreshold,
		PassiveThreshold:  doc.PassiveThreshold,
		AskGoogleReview:   doc.AskGoogleReview,
		GoogleReviewsURL:  doc.GoogleReviewsURL,
		CreatedAt:         doc.CreatedAt,
	}
}

func mapCaseDocument(doc RecoveryCaseDocument) publicdomain.RecoveryCase {
	messages := make([]publicdomain.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		messages = append(messages, publicdomain.Message{
			Role:      publicdomain.MessageRole(m.Role),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return publicdomain.RecoveryCase{
		ID:            doc.ID.Hex(),
		TenantID:      doc.TenantID.Hex(),
		ResponseID:    doc.ResponseID.Hex(),
		Status:        publicdomain.CaseStatus(doc.Status),
		CustomerName:  doc.CustomerName,
		CustomerEmail: doc.CustomerEmail,
		Messages:      messages,
		ResolvedScore: doc.ResolvedScore,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func mapAdminCaseDocument(doc RecoveryCaseDocument, response *ResponseDocument) admindomain.Case {
	messages := make([]admindomain.CaseMessage, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		messages = append(messages, admindomain.CaseMessage{
			Role:      m.Role,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	adminCase := admindomain.Case{
		ID:            doc.ID.Hex(),
		TenantID:      doc.TenantID.Hex(),
		ResponseID:    doc.ResponseID.Hex(),
		Status:        doc.Status,
		CustomerName:  doc.CustomerName,
		CustomerEmail: doc.CustomerEmail,
		Messages:      messages,
		ResolvedScore: doc.ResolvedScore,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if response != nil {
		score := response.Score
		adminCase.Score = &score
		adminCase.Feedback = response.Feedback
	}
	return adminCase
}

func mapAdminTestimonialDocument(doc TestimonialDocument) admindomain.Testimonial {
	return admindomain.Testimonial{
		ID:            doc.ID.Hex(),
		TenantID:      doc.TenantID.Hex(),
		CustomerName:  doc.CustomerName,
		CustomerEmail: doc.CustomerEmail,
		Text:          doc.Text,
		Rating:        doc.Rating,
		Status:        admindomain.ModerationStatus(doc.Status),
		Source:        doc.Source,
		Featured:      doc.Featured,
		CreatedAt:     doc.CreatedAt,
	}
}
