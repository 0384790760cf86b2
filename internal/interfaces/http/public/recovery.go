package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
)

const recoveryTimeout = 10 * time.Second

func (h *Handler) caseViewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := strings.TrimSpace(chi.URLParam(r, "caseID"))
		tokenString := strings.TrimSpace(r.URL.Query().Get("token"))

		ctx, cancel := context.WithTimeout(r.Context(), recoveryTimeout)
		defer cancel()

		recoveryCase, err := h.recovery.CaseForCustomer(ctx, caseID, tokenString)
		if err != nil {
			writeDomainError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildCaseResponse(recoveryCase))
	}
}

func (h *Handler) customerReplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := strings.TrimSpace(chi.URLParam(r, "caseID"))

		var req replyRequest
		if !decodeBody(h, w, r, common.MaxReplyRequestBody, &req) {
			return
		}
		// The link token may arrive in the body or, for older emailed links,
		// as a query parameter.
		tokenString := strings.TrimSpace(req.Token)
		if tokenString == "" {
			tokenString = strings.TrimSpace(r.URL.Query().Get("token"))
		}

		ctx, cancel := context.WithTimeout(r.Context(), recoveryTimeout)
		defer cancel()

		recoveryCase, err := h.recovery.CustomerReply(ctx, caseID, tokenString, req.Message)
		if err != nil {
			writeDomainError(h.logger, w, err)
			return
		}

		go h.notifyCustomerReply(context.Background(), recoveryCase.ID)

		common.WriteJSON(h.logger, w, http.StatusCreated, buildCaseResponse(recoveryCase))
	}
}

// notifyCustomerReply alerts the business that the customer answered.
func (h *Handler) notifyCustomerReply(ctx context.Context, caseID string) {
	if strings.TrimSpace(h.messengerDest) == "" {
		return
	}
	var builder strings.Builder
	builder.WriteString("A customer replied in a recovery conversation.\n")
	if base := strings.TrimSpace(h.dashboardBaseURL); base != "" {
		builder.WriteString("- Dashboard: " + strings.TrimRight(base, "/") + "/cases/" + caseID + "\n")
	}
	const attempts = 3
	if err := h.sendMessengerWithRetry(ctx, h.messengerDest, caseID, builder.String(), attempts, 200*time.Millisecond); err != nil {
		if h.logger != nil {
			h.logger.Printf("customer reply notification failed: case=%s err=%v", caseID, err)
		}
		h.persistNotificationFailure(ctx, "customer_reply", caseID, builder.String(), err, attempts)
	}
}
