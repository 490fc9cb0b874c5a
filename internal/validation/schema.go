package validation

import (
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// FieldType is a declared payload field type for schema checks.
type FieldType string

const (
	TypeString          FieldType = "string"
	TypeInteger         FieldType = "integer"
	TypeArray           FieldType = "array"
	TypeEmail           FieldType = "email"
	TypeArrayOfIntegers FieldType = "array_of_integers"
)

// Schema declares what a route expects of its payload. Required fields must
// be present and non-empty; Types constrains fields that are present.
type Schema struct {
	Required []string
	Types    map[string]FieldType
}

var emailRegex = regexp.MustCompile(`(?i)^[\w+.-]+@[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]+$`)

// RequiredFields checks that every named field is present, non-null, and for
// strings non-empty after trimming. All missing fields are reported together.
func RequiredFields(payload map[string]any, names []string) *Rejection {
	var missing []string
	for _, name := range names {
		value, ok := payload[name]
		if !ok || value == nil || trimmedEmpty(value) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	r := NewRejection(
		"Missing required fields",
		StageRequiredFields,
		"The following fields are required: "+strings.Join(missing, ", "),
	)
	r.MissingFields = missing
	return r
}

// DataTypes checks present fields against their declared types. Absent fields
// are skipped (RequiredFields owns presence), unknown declared types pass, and
// all mismatches are reported together.
func DataTypes(payload map[string]any, types map[string]FieldType) *Rejection {
	var typeErrors []string
	for field, expected := range types {
		value, ok := payload[field]
		if !ok {
			continue
		}
		if !matchesType(value, expected) {
			typeErrors = append(typeErrors, field+" must be "+string(expected))
		}
	}
	if len(typeErrors) == 0 {
		return nil
	}
	r := NewRejection(
		"Invalid data types",
		StageDataTypes,
		strings.Join(typeErrors, ", "),
	)
	r.TypeErrors = typeErrors
	return r
}

func matchesType(value any, expected FieldType) bool {
	switch expected {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeInteger:
		return isInteger(value)
	case TypeArray:
		_, ok := value.([]any)
		return ok
	case TypeEmail:
		s, ok := value.(string)
		return ok && emailRegex.MatchString(s)
	case TypeArrayOfIntegers:
		items, ok := value.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			if !isInteger(item) {
				return false
			}
		}
		return true
	default:
		// Unknown declared types are a schema authoring mistake, not a
		// client error.
		return true
	}
}

// isInteger reports whether a decoded JSON value is an integer literal.
// Bodies are parsed with UseNumber, so 3 and 3.0 stay distinguishable.
func isInteger(value any) bool {
	n, ok := value.(json.Number)
	if !ok {
		return false
	}
	if strings.ContainsAny(n.String(), ".eE") {
		return false
	}
	_, err := n.Int64()
	return err == nil
}
