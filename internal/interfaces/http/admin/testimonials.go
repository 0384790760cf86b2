package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
)

func (h *Handler) testimonialListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		tenantID := strings.TrimSpace(chi.URLParam(r, "tenantID"))
		query := r.URL.Query()
		filter := adminapp.TestimonialFilter{
			Status: strings.TrimSpace(query.Get("status")),
			Source: strings.TrimSpace(query.Get("source")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		testimonials, err := h.testimonials.List(ctx, tenantID, user.ID, filter, parsePaging(r))
		if err != nil {
			h.writeServiceError(w, err, false)
			return
		}

		items := make([]testimonialResponse, 0, len(testimonials))
		for _, testimonial := range testimonials {
			items = append(items, buildTestimonialResponse(testimonial))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, testimonialListResponse{Items: items})
	}
}

func (h *Handler) testimonialModerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}
		testimonialID := strings.TrimSpace(chi.URLParam(r, "id"))

		var req moderateTestimonialRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
		defer cancel()

		testimonial, err := h.testimonials.Moderate(ctx, testimonialID, user.ID, adminapp.ModerateCommand{
			Status:   strings.TrimSpace(req.Status),
			Featured: req.Featured,
		})
		if err != nil {
			h.writeServiceError(w, err, true)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildTestimonialResponse(*testimonial))
	}
}
