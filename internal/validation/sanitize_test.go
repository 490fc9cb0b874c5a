package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamStripsMetacharacters(t *testing.T) {
	s := NewSanitizer(nil)
	assert.Equal(t, "scriptalert(1)/script", s.Param("q", "<script>alert(1)</script>"))
	assert.Equal(t, "DROP TABLE users;--", s.Param("q", `"DROP TABLE users;--"`))
}

func TestParamDecodesPercentEncoding(t *testing.T) {
	s := NewSanitizer(nil)
	assert.Equal(t, "scriptalert", s.Param("q", "%3Cscript%3Ealert"))
	assert.Equal(t, "a b", s.Param("q", "a%20b"))
}

func TestParamKeepsRawValueWhenDecodeFails(t *testing.T) {
	s := NewSanitizer(nil)
	// Bad percent escape: decode fails, raw value is stripped and kept.
	assert.Equal(t, "abc%zz", s.Param("q", "abc%zz"))
}

func TestParamTrimsWhitespace(t *testing.T) {
	s := NewSanitizer(nil)
	assert.Equal(t, "hello", s.Param("q", "  hello  "))
}

func TestParamRepairsInvalidUTF8(t *testing.T) {
	s := NewSanitizer(nil)
	got := s.Param("q", "abc\xff\xfedef")
	assert.Equal(t, "abc�def", got)
}

func TestParamIsIdempotent(t *testing.T) {
	s := NewSanitizer(nil)
	once := s.Param("q", "<b>'x'&\"y\"</b>")
	assert.Equal(t, once, s.Param("q", once))
}

func TestEmailLowercasesAndStrips(t *testing.T) {
	s := NewSanitizer(nil)
	assert.Equal(t, "user@example.com", s.Email("  User@Example.COM  "))
	assert.Equal(t, "user@example.com", s.Email(`user@example.com;(){}[]<>"'&`))
}

func TestMapSanitizesStringValuesOnly(t *testing.T) {
	s := NewSanitizer(nil)
	got := s.Map(map[string]any{
		" name ":  "  O'Neill<script> ",
		"balls":   []any{1, 2, 3},
		"count":   42,
		"comment": "fine; drop",
	})
	assert.Equal(t, "ONeillscript", got["name"])
	assert.Equal(t, []any{1, 2, 3}, got["balls"])
	assert.Equal(t, 42, got["count"])
	assert.Equal(t, "fine drop", got["comment"])
}

func TestMapNilPassthrough(t *testing.T) {
	s := NewSanitizer(nil)
	assert.Nil(t, s.Map(nil))
}
