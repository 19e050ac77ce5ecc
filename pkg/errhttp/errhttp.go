// Package errhttp maps domain error kinds to HTTP status codes.
// Add a case to mapErrorToStatus for each new kernel error kind.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/pantry/pkg/httpx"
	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/pkg/telemetry"
)

// WriteError maps err to an HTTP status code and writes a JSON
// {"error", "code"} response. Uses errors.Is() so wrapped kinds match.
// Unrecognized errors become 500 with code "internal" and are reported to
// Sentry; their message is masked when isProduction is set.
func WriteError(w http.ResponseWriter, r *http.Request, err error, isProduction bool) {
	status := mapErrorToStatus(err)
	code := kernel.CodeOf(err)
	if status >= http.StatusInternalServerError {
		telemetry.CaptureError(r.Context(), err)
		code = "internal"
	}

	msg := httpx.SafeError(err, status, isProduction)
	var de *kernel.Error
	if errors.As(err, &de) {
		// the domain message is client-facing; wrapping context is not
		msg = de.Message
	}
	httpx.JSONErrorCode(w, status, msg, code)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, kernel.ErrValueRequired),
		errors.Is(err, kernel.ErrValueInvalid),
		errors.Is(err, kernel.ErrUnknownMeasureType):
		return http.StatusBadRequest // 400
	case errors.Is(err, kernel.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, kernel.ErrAlreadyArchived),
		errors.Is(err, kernel.ErrAlreadyUnarchived),
		errors.Is(err, kernel.ErrUniqueViolation):
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError // 500
	}
}
