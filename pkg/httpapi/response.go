package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	apperrors "github.com/tendant/simple-account/pkg/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Bind decodes the JSON body into dst and validates it. On failure the 400
// response is already written and Bind returns false.
func Bind(w http.ResponseWriter, r *http.Request, v *Validator, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		RenderError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid request body", err.Error())
		return false
	}
	if err := v.Validate(dst); err != nil {
		RenderError(w, r, http.StatusBadRequest, apperrors.ErrCodeValidationFailed, "Validation failed", err.Error())
		return false
	}
	return true
}

// RenderServiceError maps the error code carried by err to an HTTP status.
// Server errors are logged at error level, client errors at debug.
func RenderServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.MapErrorCodeToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		slog.Error(message, "err", err)
	} else {
		slog.Debug(message, "err", err)
	}
	RenderError(w, r, status, code, message, err.Error())
}

// RenderError renders an error response with the given status code and message
func RenderError(w http.ResponseWriter, r *http.Request, statusCode int, code apperrors.ErrorCode, message, errorDetail string) {
	response := ErrorResponse{
		Status:  "error",
		Code:    string(code),
		Message: message,
		Error:   errorDetail,
	}

	render.Status(r, statusCode)
	render.JSON(w, r, response)
}
