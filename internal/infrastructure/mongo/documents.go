package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileDocument stores the per-user subscription state. The plan lives
// here, not on tenants: all tenants of one user share it.
type ProfileDocument struct {
	ID            string     `bson:"_id"`
	Plan          string     `bson:"plan"`
	PlanUpdatedAt *time.Time `bson:"planUpdatedAt,omitempty"`
}

// TenantDocument is the MongoDB schema of a business profile.
type TenantDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	UserID              string             `bson:"userId"`
	Name                string             `bson:"name"`
	Slug                string             `bson:"slug"`
	BrandColor          string             `bson:"brandColor,omitempty"`
	DefaultLanguage     string             `bson:"defaultLanguage,omitempty"`
	WelcomeMessage      string             `bson:"welcomeMessage,omitempty"`
	GoogleReviewsURL    string             `bson:"googleReviewsUrl,omitempty"`
	GoogleNPSThreshold  int                `bson:"googleNpsThreshold,omitempty"`
	GoogleStarThreshold int                `bson:"googleStarThreshold,omitempty"`
	UseUnifiedFlow      bool               `bson:"useUnifiedFlow,omitempty"`
	UseRecoveryFlow     bool               `bson:"useRecoveryFlow,omitempty"`
	AllowAudio          bool               `bson:"allowAudio,omitempty"`
	AllowVideo          bool               `bson:"allowVideo,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

// EndpointDocument is the schema of a shareable collection/unified link.
type EndpointDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	TenantID          primitive.ObjectID `bson:"tenantId"`
	Slug              string             `bson:"slug"`
	Name              string             `bson:"name"`
	Kind              string             `bson:"kind"`
	Active            bool               `bson:"active"`
	Views             int                `bson:"viewsCount"`
	Submissions       int                `bson:"submissionsCount"`
	Message           string             `bson:"message,omitempty"`
	PromoterThreshold int                `bson:"npsThresholdPromoter,omitempty"`
	PassiveThreshold  int                `bson:"npsThresholdPassive,omitempty"`
	AskGoogleReview   bool               `bson:"askGoogleReview,omitempty"`
	GoogleReviewsURL  string             `bson:"googleReviewsUrl,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

// ResponseDocument is the schema of one immutable NPS feedback response.
type ResponseDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	TenantID      primitive.ObjectID `bson:"tenantId"`
	EndpointID    primitive.ObjectID `bson:"endpointId,omitempty"`
	Score         int                `bson:"score"`
	Category      string             `bson:"category"`
	Feedback      string             `bson:"feedback,omitempty"`
	CustomerName  string             `bson:"customerName,omitempty"`
	CustomerEmail string             `bson:"customerEmail,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// TestimonialDocument is the schema of a testimonial candidate.
type TestimonialDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	TenantID      primitive.ObjectID `bson:"tenantId"`
	CustomerName  string             `bson:"customerName"`
	CustomerEmail string             `bson:"customerEmail,omitempty"`
	Text          string             `bson:"textContent"`
	Rating        int                `bson:"rating"`
	Status        string             `bson:"status"`
	Source        string             `bson:"source"`
	Featured      bool               `bson:"isFeatured,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// MessageDocument is one embedded thread entry of a recovery case.
type MessageDocument struct {
	Role      string    `bson:"role"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

// RecoveryCaseDocument is the schema of a recovery case with its embedded
// append-only message thread.
type RecoveryCaseDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	TenantID      primitive.ObjectID `bson:"tenantId"`
	ResponseID    primitive.ObjectID `bson:"responseId"`
	Status        string             `bson:"status"`
	CustomerName  string             `bson:"customerName,omitempty"`
	CustomerEmail string             `bson:"customerEmail,omitempty"`
	Messages      []MessageDocument  `bson:"messages"`
	ResolvedScore *int               `bson:"resolvedScore,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}
