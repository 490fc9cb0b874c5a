package validation

import (
	"io"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Character classes stripped by the sanitizer. Parameters lose the HTML/SQL
// metacharacters; emails additionally lose grouping characters; free-form hash
// strings keep quotes-adjacent characters out but leave brackets alone.
const (
	paramStripSet      = `<>'"&`
	emailStripSet      = `<>"'&;(){}[]`
	hashStringStripSet = `<>"'&;`
)

// Sanitizer normalizes untrusted inbound strings. Sanitization is lossy and
// idempotent: applying it twice yields the same output.
type Sanitizer struct {
	logger *slog.Logger
}

// NewSanitizer creates a Sanitizer. A nil logger disables decode-failure logs.
func NewSanitizer(logger *slog.Logger) *Sanitizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sanitizer{logger: logger}
}

// Param cleans one URL or path parameter: percent-decode (falling back to the
// raw value when decoding fails), trim, strip metacharacters, repair encoding.
func (s *Sanitizer) Param(key, value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		s.logger.Warn("url parameter decode failed",
			"param", key,
			"error", err,
		)
		decoded = value
	}

	clean := strings.TrimSpace(decoded)
	clean = stripChars(clean, paramStripSet)

	if !utf8.ValidString(clean) {
		s.logger.Warn("invalid encoding in url parameter", "param", key)
		clean = strings.ToValidUTF8(clean, "�")
	}
	return clean
}

// Email normalizes an email address: trim, lower-case, strip injection
// characters, repair encoding. Validation happens separately; this only makes
// the value safe to compare and store.
func (s *Sanitizer) Email(email string) string {
	clean := strings.ToLower(strings.TrimSpace(email))
	clean = stripChars(clean, emailStripSet)
	if !utf8.ValidString(clean) {
		clean = strings.ToValidUTF8(clean, "�")
	}
	return clean
}

// Map cleans every string value in a parsed payload in place of the original:
// keys are trimmed, string values are trimmed and stripped, non-strings pass
// through untouched.
func (s *Sanitizer) Map(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	sanitized := make(map[string]any, len(payload))
	for key, value := range payload {
		cleanKey := strings.TrimSpace(key)
		str, ok := value.(string)
		if !ok {
			sanitized[cleanKey] = value
			continue
		}
		clean := stripChars(strings.TrimSpace(str), hashStringStripSet)
		if !utf8.ValidString(clean) {
			clean = strings.ToValidUTF8(clean, "�")
		}
		sanitized[cleanKey] = clean
	}
	return sanitized
}

func stripChars(s, set string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(set, r) {
			return -1
		}
		return r
	}, s)
}
