package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/services"
	"github.com/ewilliams-labs/moodcast/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service errors onto status codes. Internal
// details are logged, not returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		message = "internal server error"
	case http.StatusBadGateway:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("upstream unavailable")
		message = "upstream provider unavailable, try again later"
	case http.StatusGatewayTimeout:
		message = "request timed out"
	}
	writeError(w, status, message)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyLocation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
