package public

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	publicapp "github.com/testimonioya/feedback-services/api/internal/public/application"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

type stubSubmissionService struct {
	view    *publicapp.EndpointView
	outcome *publicapp.Outcome
	err     error

	lastFeedback    publicapp.SubmitFeedbackCommand
	lastTestimonial publicapp.SubmitTestimonialCommand
}

func (s *stubSubmissionService) ResolveEndpoint(ctx context.Context, slug string) (*publicapp.EndpointView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

func (s *stubSubmissionService) SubmitFeedback(ctx context.Context, cmd publicapp.SubmitFeedbackCommand) (*publicapp.Outcome, error) {
	s.lastFeedback = cmd
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func (s *stubSubmissionService) SubmitTestimonial(ctx context.Context, cmd publicapp.SubmitTestimonialCommand) (*publicapp.Outcome, error) {
	s.lastTestimonial = cmd
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

type stubRecoveryService struct {
	recoveryCase *domain.RecoveryCase
	err          error
	lastToken    string
	lastText     string
}

func (s *stubRecoveryService) BusinessReply(ctx context.Context, caseID, actingUserID, text string) (*domain.RecoveryCase, error) {
	return s.recoveryCase, s.err
}

func (s *stubRecoveryService) CustomerReply(ctx context.Context, caseID, tokenString, text string) (*domain.RecoveryCase, error) {
	s.lastToken = tokenString
	s.lastText = text
	if s.err != nil {
		return nil, s.err
	}
	return s.recoveryCase, nil
}

func (s *stubRecoveryService) SetStatus(ctx context.Context, caseID, actingUserID string, status domain.CaseStatus) (*domain.RecoveryCase, error) {
	return s.recoveryCase, s.err
}

func (s *stubRecoveryService) CaseForCustomer(ctx context.Context, caseID, tokenString string) (*domain.RecoveryCase, error) {
	s.lastToken = tokenString
	if s.err != nil {
		return nil, s.err
	}
	return s.recoveryCase, nil
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) IssueReplyToken(caseID, customerEmail string) (string, error) {
	return "signed-token", nil
}

func newTestRouter(submissions *stubSubmissionService, recovery *stubRecoveryService) http.Handler {
	h := NewHandler(Config{
		Logger:      log.New(testWriter{}, "", 0),
		Submissions: submissions,
		Recovery:    recovery,
		Tokens:      stubTokenIssuer{},
		HTTPClient:  &http.Client{},
	})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestEndpointResolveReturnsView(t *testing.T) {
	submissions := &stubSubmissionService{view: &publicapp.EndpointView{
		Endpoint: &domain.Endpoint{Slug: "aurora-feedback", Kind: domain.EndpointUnified},
		Tenant:   &domain.Tenant{Name: "Café Aurora", BrandColor: "#2563eb"},
		Branded:  true,
	}}
	router := newTestRouter(submissions, &stubRecoveryService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/links/aurora-feedback", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "aurora-feedback", body["slug"])
	assert.Equal(t, "Café Aurora", body["businessName"])
	assert.Equal(t, true, body["branded"])
}

func TestFeedbackSubmitReturnsOutcome(t *testing.T) {
	submissions := &stubSubmissionService{outcome: &publicapp.Outcome{
		Category:           domain.CategoryPromoter,
		TestimonialCreated: true,
		GoogleRedirectURL:  "https://g.page/r/demo/review",
	}}
	router := newTestRouter(submissions, &stubRecoveryService{})

	payload := `{"score":10,"feedback":"great","customerName":"Ana"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/links/aurora-feedback/feedback", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body outcomeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "promoter", body.Category)
	assert.True(t, body.TestimonialCreated)
	assert.Equal(t, "https://g.page/r/demo/review", body.GoogleRedirectURL)
	assert.Equal(t, "aurora-feedback", submissions.lastFeedback.Slug)
	assert.Equal(t, 10, submissions.lastFeedback.Score)
}

func TestFeedbackSubmitMalformedBody(t *testing.T) {
	router := newTestRouter(&stubSubmissionService{}, &stubRecoveryService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/links/x/feedback", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackSubmitRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(&stubSubmissionService{}, &stubRecoveryService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/links/x/feedback", strings.NewReader(`{"score":5,"admin":true}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: domain.NewValidationError("score", "score must be between 0 and 10"), wantStatus: http.StatusBadRequest},
		{name: "endpoint unavailable is neutral 404", err: domain.ErrEndpointUnavailable, wantStatus: http.StatusNotFound},
		{name: "unauthorized is neutral 404", err: domain.ErrUnauthorized, wantStatus: http.StatusNotFound},
		{name: "upgrade required", err: domain.ErrUpgradeRequired, wantStatus: http.StatusForbidden},
		{name: "quota exceeded", err: domain.ErrQuotaExceeded, wantStatus: http.StatusTooManyRequests},
		{name: "case closed", err: domain.ErrCaseClosed, wantStatus: http.StatusConflict},
		{name: "message limit", err: domain.ErrMessageLimitReached, wantStatus: http.StatusConflict},
		{name: "infrastructure", err: errors.New("mongo down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubSubmissionService{err: tt.err}, &stubRecoveryService{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/links/x/feedback", strings.NewReader(`{"score":5}`)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestNeutral404LeaksNothing(t *testing.T) {
	for _, err := range []error{domain.ErrEndpointUnavailable, domain.ErrUnauthorized} {
		router := newTestRouter(&stubSubmissionService{err: err}, &stubRecoveryService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/links/whatever", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String(), "both causes must answer identically")
	}
}

func TestCaseViewReadsTokenFromQuery(t *testing.T) {
	recovery := &stubRecoveryService{recoveryCase: &domain.RecoveryCase{
		ID:     "case-1",
		Status: domain.CaseInProgress,
		Messages: []domain.Message{
			{Role: domain.RoleCustomer, Text: "bad experience"},
			{Role: domain.RoleBusiness, Text: "we are sorry"},
		},
	}}
	router := newTestRouter(&stubSubmissionService{}, recovery)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recovery/case-1?token=signed-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed-token", recovery.lastToken)

	var body caseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "case-1", body.ID)
	assert.Len(t, body.Messages, 2)
}

func TestCustomerReplyTokenFromBody(t *testing.T) {
	recovery := &stubRecoveryService{recoveryCase: &domain.RecoveryCase{ID: "case-1", Status: domain.CaseInProgress}}
	router := newTestRouter(&stubSubmissionService{}, recovery)

	payload := `{"token":"signed-token","message":"thanks for following up"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recovery/case-1/replies", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "signed-token", recovery.lastToken)
	assert.Equal(t, "thanks for following up", recovery.lastText)
}

func TestCustomerReplyFallsBackToQueryToken(t *testing.T) {
	recovery := &stubRecoveryService{recoveryCase: &domain.RecoveryCase{ID: "case-1", Status: domain.CaseInProgress}}
	router := newTestRouter(&stubSubmissionService{}, recovery)

	payload := `{"message":"hello"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recovery/case-1/replies?token=query-token", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "query-token", recovery.lastToken)
}

func TestCustomerReplyInvalidTokenIs404(t *testing.T) {
	recovery := &stubRecoveryService{err: domain.ErrUnauthorized}
	router := newTestRouter(&stubSubmissionService{}, recovery)

	payload := `{"token":"forged","message":"hello"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recovery/case-1/replies", strings.NewReader(payload)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
