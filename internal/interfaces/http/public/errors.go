package public

import (
	"errors"
	"log"
	"net/http"

	"github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// writeDomainError maps expected business-rule outcomes to HTTP statuses.
// ErrUnauthorized and an unavailable endpoint both answer a neutral 404 so
// an anonymous caller learns nothing about what exists. Anything unmapped is
// an infrastructure failure and answers 500 after logging.
func writeDomainError(logger *log.Logger, w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		common.WriteError(logger, w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrEndpointUnavailable),
		errors.Is(err, domain.ErrUnauthorized):
		common.WriteError(logger, w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUpgradeRequired):
		common.WriteError(logger, w, http.StatusForbidden, "this form is not available on the current plan")
	case errors.Is(err, domain.ErrQuotaExceeded):
		common.WriteError(logger, w, http.StatusTooManyRequests, "monthly submission limit reached")
	case errors.Is(err, domain.ErrCaseClosed):
		common.WriteError(logger, w, http.StatusConflict, "this conversation is closed")
	case errors.Is(err, domain.ErrMessageLimitReached):
		common.WriteError(logger, w, http.StatusConflict, "this conversation reached its message limit")
	default:
		if logger != nil {
			logger.Printf("public request failed: %v", err)
		}
		common.WriteError(logger, w, http.StatusInternalServerError, "internal error")
	}
}
