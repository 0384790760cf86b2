package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
)

func (h *Handler) endpointListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		tenantID := strings.TrimSpace(chi.URLParam(r, "tenantID"))

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		endpoints, err := h.endpoints.List(ctx, tenantID, user.ID)
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}

		items := make([]endpointResponse, 0, len(endpoints))
		for _, endpoint := range endpoints {
			items = append(items, buildEndpointResponse(endpoint))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, endpointListResponse{Items: items})
	}
}

func (h *Handler) endpointCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		tenantID := strings.TrimSpace(chi.URLParam(r, "tenantID"))

		var req createEndpointRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		endpoint, err := h.endpoints.Create(ctx, tenantID, user.ID, adminapp.CreateEndpointCommand{
			Name:              req.Name,
			Kind:              req.Kind,
			Message:           req.Message,
			PromoterThreshold: req.PromoterThreshold,
			PassiveThreshold:  req.PassiveThreshold,
			AskGoogleReview:   req.AskGoogleReview,
			GoogleReviewsURL:  req.GoogleReviewsURL,
		})
		if err != nil {
			h.writeServiceError(w, err, true)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildEndpointResponse(*endpoint))
	}
}

func (h *Handler) endpointUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		endpointID := strings.TrimSpace(chi.URLParam(r, "id"))

		var req updateEndpointRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		endpoint, err := h.endpoints.Update(ctx, endpointID, user.ID, adminapp.UpdateEndpointCommand{
			Name:              req.Name,
			Active:            req.Active,
			Message:           req.Message,
			PromoterThreshold: req.PromoterThreshold,
			PassiveThreshold:  req.PassiveThreshold,
			AskGoogleReview:   req.AskGoogleReview,
			GoogleReviewsURL:  req.GoogleReviewsURL,
		})
		if err != nil {
			h.writeServiceError(w, err, true)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildEndpointResponse(*endpoint))
	}
}
