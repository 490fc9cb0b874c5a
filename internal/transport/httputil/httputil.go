// Package httputil centralizes JSON response encoding and domain error
// translation for the HTTP layer.
package httputil

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	domainerrors "euromillones/pkg/domain-errors"
)

// WriteJSON encodes response as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Headers are already out; nothing more can be done for the client.
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// WriteError translates a domain error into the wire error envelope. Internal
// errors are the one class that surfaces the underlying message in details,
// matching the database-error contract of the API.
func WriteError(w http.ResponseWriter, err error) {
	var dErr *domainerrors.Error
	if !errors.As(err, &dErr) {
		WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Internal server error",
		})
		return
	}

	body := map[string]string{"error": dErr.Message}
	if dErr.Code == domainerrors.CodeInternal && dErr.Err != nil {
		body["details"] = dErr.Err.Error()
	}
	WriteJSON(w, StatusFor(dErr.Code), body)
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code domainerrors.Code) int {
	switch code {
	case domainerrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case domainerrors.CodeMalformedRequest, domainerrors.CodeValidation:
		return http.StatusBadRequest
	case domainerrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainerrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerrors.CodeNotFound:
		return http.StatusNotFound
	case domainerrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
