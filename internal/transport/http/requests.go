package httptransport

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"euromillones/internal/transport/httputil"
	"euromillones/internal/validation"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindPayload maps a vetted payload onto a request struct and runs its
// validate tags. The pipeline has already checked presence and JSON types;
// this adds the struct-level constraints.
func bindPayload(payload map[string]any, dest any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}
	return validate.Struct(dest)
}

// stringField returns a payload string field, empty when absent or not a
// string.
func stringField(payload map[string]any, name string) string {
	s, _ := payload[name].(string)
	return s
}

// intSlice converts a pipeline-vetted array_of_integers field.
func intSlice(payload map[string]any, name string) []int {
	items, ok := payload[name].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := item.(json.Number)
		if !ok {
			return nil
		}
		v, err := n.Int64()
		if err != nil {
			return nil
		}
		out = append(out, int(v))
	}
	return out
}

// writeRejection emits a route-level validation error with a timestamp.
func writeRejection(w http.ResponseWriter, message, field string) {
	rej := validation.NewRejection(message, field, "").Stamped()
	httputil.WriteJSON(w, rej.Status(), rej)
}
