package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	publicapp "github.com/testimonioya/feedback-services/api/internal/public/application"
)

// ReplyTokenIssuer mints the signed links customers use to answer a recovery
// case without an account.
type ReplyTokenIssuer interface {
	IssueReplyToken(caseID, customerEmail string) (string, error)
}

// Handler wires the anonymous submission and recovery endpoints to the
// application services.
type Handler struct {
	logger              *log.Logger
	submissions         publicapp.SubmissionService
	recovery            publicapp.RecoveryService
	tokens              ReplyTokenIssuer
	httpClient          *http.Client
	messengerEndpoint   string
	messengerDest       string
	recoveryBaseURL     string
	dashboardBaseURL    string
	failedNotifications *mongo.Collection
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger               *log.Logger
	Submissions          publicapp.SubmissionService
	Recovery             publicapp.RecoveryService
	Tokens               ReplyTokenIssuer
	HTTPClient           *http.Client
	MessengerEndpoint    string
	MessengerDestination string
	RecoveryBaseURL      string
	DashboardBaseURL     string
	FailedNotifications  *mongo.Collection
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:              cfg.Logger,
		submissions:         cfg.Submissions,
		recovery:            cfg.Recovery,
		tokens:              cfg.Tokens,
		httpClient:          cfg.HTTPClient,
		messengerEndpoint:   cfg.MessengerEndpoint,
		messengerDest:       cfg.MessengerDestination,
		recoveryBaseURL:     cfg.RecoveryBaseURL,
		dashboardBaseURL:    cfg.DashboardBaseURL,
		failedNotifications: cfg.FailedNotifications,
	}
}

// Register mounts all public routes onto the router. Everything here is
// anonymous; the customer recovery routes authorize through reply tokens,
// not sessions.
func (h *Handler) Register(r chi.Router) {
	r.Get("/links/{slug}", h.endpointResolveHandler())
	r.Post("/links/{slug}/feedback", h.feedbackSubmitHandler())
	r.Post("/links/{slug}/testimonials", h.testimonialSubmitHandler())
	r.Get("/recovery/{caseID}", h.caseViewHandler())
	r.Post("/recovery/{caseID}/replies", h.customerReplyHandler())
}
