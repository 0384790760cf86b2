package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
	publicapp "github.com/testimonioya/feedback-services/api/internal/public/application"
)

const submissionTimeout = 10 * time.Second

func (h *Handler) endpointResolveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			common.WriteError(h.logger, w, http.StatusNotFound, "not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), submissionTimeout)
		defer cancel()

		view, err := h.submissions.ResolveEndpoint(ctx, slug)
		if err != nil {
			writeDomainError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildEndpointView(view))
	}
}

func (h *Handler) feedbackSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))

		var req submitFeedbackRequest
		if !decodeBody(h, w, r, common.MaxSubmissionRequestBody, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), submissionTimeout)
		defer cancel()

		outcome, err := h.submissions.SubmitFeedback(ctx, publicapp.SubmitFeedbackCommand{
			Slug:          slug,
			Score:         req.Score,
			Feedback:      req.Feedback,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			Rating:        req.Rating,
		})
		if err != nil {
			writeDomainError(h.logger, w, err)
			return
		}

		if outcome.CaseCreated {
			go h.notifyCaseOpened(context.Background(), outcome.CaseID, req)
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, buildOutcome(outcome))
	}
}

func (h *Handler) testimonialSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))

		var req submitTestimonialRequest
		if !decodeBody(h, w, r, common.MaxSubmissionRequestBody, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), submissionTimeout)
		defer cancel()

		outcome, err := h.submissions.SubmitTestimonial(ctx, publicapp.SubmitTestimonialCommand{
			Slug:          slug,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			Text:          req.Text,
			Rating:        req.Rating,
		})
		if err != nil {
			writeDomainError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildOutcome(outcome))
	}
}

// decodeBody reads a size-capped JSON body into dst, answering 400 itself on
// malformed input.
func decodeBody(h *Handler, w http.ResponseWriter, r *http.Request, limit int64, dst any) bool {
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, limit))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && err != io.EOF {
		common.WriteError(h.logger, w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
