// Package apierrors writes API errors in the single JSON shape
// {"error": {"code": "...", "message": "..."}}.
package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/truproof/internal/common"
)

const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeStorageError    = "STORAGE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes statusCode and the error body.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// StorageError is 502: the blob store behind the service failed.
func StorageError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeStorageError, message)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}

// Status maps a service error to its HTTP status and code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		return http.StatusBadRequest, CodeValidationError
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, common.ErrorStorage):
		return http.StatusBadGateway, CodeStorageError
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// FromError writes the response for a service error. Validation messages are
// passed through; internal details of other failures are not.
func FromError(w http.ResponseWriter, err error) {
	status, code := Status(err)
	message := http.StatusText(status)
	switch code {
	case CodeValidationError:
		message = err.Error()
	case CodeNotFound:
		message = "certification not found"
	case CodeStorageError:
		message = "artifact storage unavailable"
	}
	WriteError(w, status, code, message)
}
