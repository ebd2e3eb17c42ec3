package response

import (
	"errors"
	"net/http"

	"github.com/baechuer/notepad-service/internal/domain"
	"github.com/baechuer/notepad-service/internal/logger"
	appCtx "github.com/baechuer/notepad-service/internal/pkg/context"
)

// ErrorBody is the wire shape of every failed request.
type ErrorBody struct {
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError converts a domain error into a JSON HTTP error response.
// Non-domain errors become 500 "Server error"; details stay in the log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := ErrorBody{
		Message:   "Server error",
		Code:      "internal_error",
		RequestID: appCtx.GetRequestID(r.Context()),
	}

	var de *domain.Error
	if errors.As(err, &de) {
		status = StatusFromKind(de.Kind)
		body.Code = de.Code
		body.Message = de.Message
		body.Meta = de.Meta
	}

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request failed")
	}

	WriteJSON(w, status, body)
}

func StatusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict, domain.KindCredentials:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
