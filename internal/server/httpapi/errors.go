package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/photodiary/internal/common"
	"github.com/go-chi/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// statusFor maps service errors to HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateFilename):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidTransform),
		errors.Is(err, common.ErrInvalidDate),
		errors.Is(err, common.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs 5xx causes and hides them from the client.
func (h *handlers) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), op+" failed", "error", err)
		writeError(w, r, status, http.StatusText(status))
		return
	}
	writeError(w, r, status, err.Error())
}
