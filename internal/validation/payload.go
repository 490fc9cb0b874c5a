package validation

import (
	"bytes"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// ParseBody turns a raw request body into a payload map. An empty or
// whitespace-only body is a valid empty payload. Numbers are decoded as
// json.Number so integer checks downstream are exact.
//
// Failures come back as a *Rejection, never a panic: invalid UTF-8 maps to the
// encoding stage, undecodable JSON to json_parse with the decoder's own
// message, and well-formed non-object JSON to json_structure.
func ParseBody(body []byte) (map[string]any, *Rejection) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	if !utf8.Valid(body) {
		return nil, NewRejection(
			"Invalid character encoding",
			StageEncoding,
			"Request body contains invalid UTF-8 characters",
		)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, NewRejection("Invalid JSON format", StageJSONParse, err.Error())
	}
	// A second document after the first means the body is not one JSON value.
	if dec.More() {
		return nil, NewRejection("Invalid JSON format", StageJSONParse, "unexpected data after JSON value")
	}

	object, ok := parsed.(map[string]any)
	if !ok {
		return nil, NewRejection(
			"Invalid JSON structure",
			StageJSONStructure,
			"Expected JSON object, got "+jsonKind(parsed),
		)
	}
	return object, nil
}

// jsonKind names the decoded Go shape in JSON vocabulary for error details.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	default:
		return "object"
	}
}

// trimmedEmpty reports whether a payload value is a string that is empty after
// trimming, which required-field checks treat the same as absent.
func trimmedEmpty(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
