// Package validation implements the request defense pipeline: pattern
// screening, parameter sanitization, strict JSON payload parsing, and
// declarative schema checks. Handlers behind the pipeline receive either a
// fully vetted payload or nothing at all.
package validation

import (
	"net/http"
	"time"
)

// Stage names used in rejection envelopes and metrics labels.
const (
	StageRateLimit      = "rate_limit"
	StageContentType    = "content_type"
	StagePayloadSize    = "payload_size"
	StageEncoding       = "encoding"
	StageJSONParse      = "json_parse"
	StageJSONStructure  = "json_structure"
	StageRequiredFields = "required_fields"
	StageDataTypes      = "data_types"
)

// Rejection is the structured outcome of a failed pipeline stage. It
// serializes directly into the wire error envelope.
type Rejection struct {
	Message       string   `json:"error"`
	Field         string   `json:"field,omitempty"`
	Details       string   `json:"details,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
	TypeErrors    []string `json:"type_errors,omitempty"`
	Timestamp     string   `json:"timestamp,omitempty"`
}

// NewRejection builds a rejection for the given stage.
func NewRejection(message, field, details string) *Rejection {
	return &Rejection{Message: message, Field: field, Details: details}
}

// Stamped returns a copy carrying an ISO-8601 timestamp, for route-level
// validation errors.
func (r *Rejection) Stamped() *Rejection {
	out := *r
	out.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return &out
}

// Status maps the failed stage to its HTTP status code.
func (r *Rejection) Status() int {
	switch r.Field {
	case StageRateLimit:
		return http.StatusTooManyRequests
	case StagePayloadSize:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}
