package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
	"github.com/testimonioya/feedback-services/api/internal/plan"
)

const dashboardTimeout = 5 * time.Second

func (h *Handler) tenantListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		tenants, err := h.tenants.ListForUser(ctx, user.ID)
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}

		items := make([]tenantResponse, 0, len(tenants))
		for _, tenant := range tenants {
			items = append(items, buildTenantResponse(tenant))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, tenantListResponse{Items: items})
	}
}

func (h *Handler) settingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		tenantID := strings.TrimSpace(chi.URLParam(r, "tenantID"))

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		tenant, err := h.tenants.Settings(ctx, tenantID, user.ID)
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildTenantResponse(*tenant))
	}
}

func (h *Handler) settingsUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		tenantID := strings.TrimSpace(chi.URLParam(r, "tenantID"))

		var req updateSettingsRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		tenant, err := h.tenants.UpdateSettings(ctx, tenantID, user.ID, adminapp.UpdateSettingsCommand{
			Name:                req.Name,
			BrandColor:          req.BrandColor,
			DefaultLanguage:     req.DefaultLanguage,
			WelcomeMessage:      req.WelcomeMessage,
			GoogleReviewsURL:    req.GoogleReviewsURL,
			GoogleNPSThreshold:  req.GoogleNPSThreshold,
			GoogleStarThreshold: req.GoogleStarThreshold,
			UseUnifiedFlow:      req.UseUnifiedFlow,
			UseRecoveryFlow:     req.UseRecoveryFlow,
			AllowAudio:          req.AllowAudio,
			AllowVideo:          req.AllowVideo,
		})
		if err != nil {
			h.writeServiceError(w, err, true)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildTenantResponse(*tenant))
	}
}

func (h *Handler) usageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		tenantID := strings.TrimSpace(chi.URLParam(r, "tenantID"))

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		usage, err := h.tenants.Usage(ctx, tenantID, user.ID)
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}

		items := make([]usageResponse, 0, len(usage))
		for _, entry := range usage {
			items = append(items, usageResponse{
				Resource:  entry.Resource,
				Current:   entry.Current,
				Limit:     entry.Limit,
				Unlimited: plan.IsUnlimited(entry.Limit),
			})
		}
		common.WriteJSON(h.logger, w, http.StatusOK, usageListResponse{Items: items})
	}
}
