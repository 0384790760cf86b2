package admin

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
	publicdomain "github.com/testimonioya/feedback-services/api/internal/public/domain"
)

type stubCaseService struct {
	cases map[string]*admindomain.Case
}

func (s *stubCaseService) List(ctx context.Context, tenantID, actingUserID string, filter adminapp.CaseFilter, paging adminapp.Paging) ([]admindomain.Case, error) {
	var out []admindomain.Case
	for _, c := range s.cases {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubCaseService) Detail(ctx context.Context, caseID, actingUserID string) (*admindomain.Case, error) {
	c, ok := s.cases[caseID]
	if !ok {
		return nil, adminapp.ErrNotFound
	}
	return c, nil
}

type stubRecoveryService struct {
	recoveryCase *publicdomain.RecoveryCase
	err          error
}

func (s *stubRecoveryService) BusinessReply(ctx context.Context, caseID, actingUserID, text string) (*publicdomain.RecoveryCase, error) {
	return s.recoveryCase, s.err
}

func (s *stubRecoveryService) CustomerReply(ctx context.Context, caseID, tokenString, text string) (*publicdomain.RecoveryCase, error) {
	return s.recoveryCase, s.err
}

func (s *stubRecoveryService) SetStatus(ctx context.Context, caseID, actingUserID string, status publicdomain.CaseStatus) (*publicdomain.RecoveryCase, error) {
	return s.recoveryCase, s.err
}

func (s *stubRecoveryService) CaseForCustomer(ctx context.Context, caseID, tokenString string) (*publicdomain.RecoveryCase, error) {
	return s.recoveryCase, s.err
}

type notifyCall struct {
	caseID string
	email  string
}

type spyNotifier struct {
	calls chan notifyCall
}

func (s *spyNotifier) NotifyBusinessReply(ctx context.Context, caseID, customerEmail string) {
	s.calls <- notifyCall{caseID: caseID, email: customerEmail}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newCaseTestRouter(cases *stubCaseService, recovery *stubRecoveryService, notifier CaseReplyNotifier) http.Handler {
	h := NewHandler(Config{
		Logger:   log.New(discardWriter{}, "", 0),
		Cases:    cases,
		Recovery: recovery,
		Notifier: notifier,
	})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := common.ContextWithUser(req.Context(), common.AuthenticatedUser{ID: "user-1"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return r
}

func TestCaseReplyNotifiesCustomer(t *testing.T) {
	recovery := &stubRecoveryService{recoveryCase: &publicdomain.RecoveryCase{
		ID:            "case-1",
		TenantID:      "tenant-1",
		Status:        publicdomain.CaseInProgress,
		CustomerEmail: "ana@example.com",
	}}
	cases := &stubCaseService{cases: map[string]*admindomain.Case{
		"case-1": {ID: "case-1", TenantID: "tenant-1", Status: "in_progress", CustomerEmail: "ana@example.com"},
	}}
	notifier := &spyNotifier{calls: make(chan notifyCall, 1)}
	router := newCaseTestRouter(cases, recovery, notifier)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cases/case-1/replies", strings.NewReader(`{"message":"we are on it"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case call := <-notifier.calls:
		assert.Equal(t, "case-1", call.caseID)
		assert.Equal(t, "ana@example.com", call.email)
	case <-time.After(time.Second):
		t.Fatal("expected the customer to be notified of the business reply")
	}
}

func TestCaseReplySkipsNotificationWithoutEmail(t *testing.T) {
	recovery := &stubRecoveryService{recoveryCase: &publicdomain.RecoveryCase{
		ID:       "case-1",
		TenantID: "tenant-1",
		Status:   publicdomain.CaseInProgress,
	}}
	cases := &stubCaseService{cases: map[string]*admindomain.Case{
		"case-1": {ID: "case-1", TenantID: "tenant-1", Status: "in_progress"},
	}}
	notifier := &spyNotifier{calls: make(chan notifyCall, 1)}
	router := newCaseTestRouter(cases, recovery, notifier)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cases/case-1/replies", strings.NewReader(`{"message":"hello"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case call := <-notifier.calls:
		t.Fatalf("no notification expected for an email-less case, got %+v", call)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCaseReplyFailureDoesNotNotify(t *testing.T) {
	recovery := &stubRecoveryService{err: publicdomain.ErrCaseClosed}
	cases := &stubCaseService{cases: map[string]*admindomain.Case{}}
	notifier := &spyNotifier{calls: make(chan notifyCall, 1)}
	router := newCaseTestRouter(cases, recovery, notifier)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cases/case-1/replies", strings.NewReader(`{"message":"hello"}`)))

	require.Equal(t, http.StatusConflict, rec.Code)

	select {
	case call := <-notifier.calls:
		t.Fatalf("no notification expected for a rejected reply, got %+v", call)
	case <-time.After(100 * time.Millisecond):
	}
}
