package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
	publicdomain "github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// requireUser extracts the session principal, answering 401 itself when the
// middleware did not attach one.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (common.AuthenticatedUser, bool) {
	user, ok := common.UserFromContext(r.Context())
	if !ok {
		common.WriteError(h.logger, w, http.StatusUnauthorized, "authentication required")
	}
	return user, ok
}

// decodeBody reads a size-capped JSON body into dst, answering 400 itself on
// malformed input.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxAdminRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && err != io.EOF {
		common.WriteError(h.logger, w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func parsePaging(r *http.Request) adminapp.Paging {
	query := r.URL.Query()
	page, _ := strconv.Atoi(strings.TrimSpace(query.Get("page")))
	limit, _ := strconv.Atoi(strings.TrimSpace(query.Get("limit")))
	return adminapp.Paging{Page: page, Limit: limit}
}

// writeServiceError maps expected dashboard outcomes to statuses. Ownership
// failures answer the same 404 as a missing resource so guessing ids reveals
// nothing. The fallback differs by operation kind: reads treat unmapped
// errors as infrastructure failures, mutations surface them as validation
// messages, matching where each service produces free-form errors.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, mutation bool) {
	var ve *publicdomain.ValidationError
	switch {
	case errors.Is(err, adminapp.ErrNotFound),
		errors.Is(err, adminapp.ErrUnauthorized),
		errors.Is(err, publicdomain.ErrCaseNotFound),
		errors.Is(err, publicdomain.ErrUnauthorized):
		common.WriteError(h.logger, w, http.StatusNotFound, "not found")
	case errors.Is(err, adminapp.ErrUpgradeRequired),
		errors.Is(err, publicdomain.ErrUpgradeRequired):
		common.WriteError(h.logger, w, http.StatusForbidden, "plan upgrade required")
	case errors.Is(err, adminapp.ErrQuotaExceeded):
		common.WriteError(h.logger, w, http.StatusForbidden, "plan limit reached")
	case errors.Is(err, publicdomain.ErrCaseClosed):
		common.WriteError(h.logger, w, http.StatusConflict, "case is closed")
	case errors.Is(err, publicdomain.ErrMessageLimitReached):
		common.WriteError(h.logger, w, http.StatusConflict, "case reached its message limit")
	case errors.As(err, &ve):
		common.WriteError(h.logger, w, http.StatusBadRequest, ve.Error())
	case mutation:
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	default:
		if h.logger != nil {
			h.logger.Printf("dashboard request failed: %v", err)
		}
		common.WriteError(h.logger, w, http.StatusInternalServerError, "internal error")
	}
}
