package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/commands"
	"github.com/goliatone/go-admin-hub/components/theme"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var cfgErr *dashboard.ConfigError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, commands.ErrInvalidInput),
		errors.Is(err, theme.ErrUnknownPreset),
		errors.Is(err, dashboard.ErrUnknownArea):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.As(err, &cfgErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorBody builds the envelope for err, listing schema violations when
// the error carries them.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var cfgErr *dashboard.ConfigError
	if errors.As(err, &cfgErr) {
		body.Violations = cfgErr.Violations
	}
	return body
}
