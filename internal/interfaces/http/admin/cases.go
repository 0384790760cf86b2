package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
	publicdomain "github.com/testimonioya/feedback-services/api/internal/public/domain"
)

func (h *Handler) caseListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		tenantID := strings.TrimSpace(chi.URLParam(r, "tenantID"))
		filter := adminapp.CaseFilter{Status: strings.TrimSpace(r.URL.Query().Get("status"))}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		cases, err := h.cases.List(ctx, tenantID, user.ID, filter, parsePaging(r))
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}

		items := make([]caseResponse, 0, len(cases))
		for _, adminCase := range cases {
			items = append(items, buildCaseResponse(adminCase))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, caseListResponse{Items: items})
	}
}

func (h *Handler) caseDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		caseID := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		adminCase, err := h.cases.Detail(ctx, caseID, user.ID)
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildCaseResponse(*adminCase))
	}
}

func (h *Handler) caseReplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		caseID := strings.TrimSpace(chi.URLParam(r, "id"))

		var req caseReplyRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		updated, err := h.recovery.BusinessReply(ctx, caseID, user.ID, req.Message)
		if err != nil {
			h.writeServiceError(w, err, true)
			return
		}

		if h.notifier != nil && updated.CustomerEmail != "" {
			go h.notifier.NotifyBusinessReply(context.Background(), updated.ID, updated.CustomerEmail)
		}

		adminCase, err := h.cases.Detail(ctx, updated.ID, user.ID)
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildCaseResponse(*adminCase))
	}
}

func (h *Handler) caseStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		caseID := strings.TrimSpace(chi.URLParam(r, "id"))

		var req caseStatusRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		updated, err := h.recovery.SetStatus(ctx, caseID, user.ID, publicdomain.CaseStatus(strings.TrimSpace(req.Status)))
		if err != nil {
			h.writeServiceError(w, err, true)
			return
		}

		adminCase, err := h.cases.Detail(ctx, updated.ID, user.ID)
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildCaseResponse(*adminCase))
	}
}
