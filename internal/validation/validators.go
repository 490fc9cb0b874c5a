package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Domain rules for the lottery: 5 balls from 1–50, 2 stars from 1–12, draws
// on Tuesday and Friday.
const (
	BallCount = 5
	BallMin   = 1
	BallMax   = 50

	StarCount = 2
	StarMin   = 1
	StarMax   = 12

	// MaxCombinationID is the PostgreSQL integer ceiling.
	MaxCombinationID = 2147483647
)

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidEmail applies the full address policy: length 5–255, format per the
// shared regex, no consecutive or edge dots, no dot adjacent to the @, and
// none of the injection characters the sanitizer strips.
func ValidEmail(email string) bool {
	clean := strings.ToLower(strings.TrimSpace(email))
	if len(clean) < 5 || len(clean) > 255 {
		return false
	}
	if !emailRegex.MatchString(clean) {
		return false
	}
	if strings.Contains(clean, "..") {
		return false
	}
	if strings.HasPrefix(clean, ".") || strings.HasSuffix(clean, ".") {
		return false
	}
	if strings.Contains(clean, "@.") || strings.Contains(clean, ".@") {
		return false
	}
	return !strings.ContainsAny(clean, emailStripSet)
}

// ValidBalls checks for exactly five unique integers between 1 and 50.
func ValidBalls(balls []int) bool {
	return uniqueInRange(balls, BallCount, BallMin, BallMax)
}

// ValidStars checks for exactly two unique integers between 1 and 12.
func ValidStars(stars []int) bool {
	return uniqueInRange(stars, StarCount, StarMin, StarMax)
}

func uniqueInRange(values []int, count, min, max int) bool {
	if len(values) != count {
		return false
	}
	seen := make(map[int]struct{}, count)
	for _, v := range values {
		if v < min || v > max {
			return false
		}
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// ValidCombinationID accepts a positive decimal identifier within the
// database integer range.
func ValidCombinationID(id string) bool {
	if !digitsOnly.MatchString(id) {
		return false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false
	}
	return n > 0 && n <= MaxCombinationID
}

// Draw date failures, distinguished so the transport layer can keep its
// distinct client messages.
var (
	ErrDateFormat = errors.New("invalid date format")
	ErrDateValue  = errors.New("invalid calendar date")
	ErrDateFuture = errors.New("date in the future")
)

// ParseDrawDate parses a YYYY-MM-DD draw date and enforces the acceptable
// range: a real calendar date, year 1900–2100, not in the future.
func ParseDrawDate(dateStr string) (time.Time, error) {
	clean := strings.TrimSpace(dateStr)
	if !dateFormat.MatchString(clean) {
		return time.Time{}, ErrDateFormat
	}
	date, err := time.Parse("2006-01-02", clean)
	if err != nil {
		return time.Time{}, ErrDateValue
	}
	if date.Year() < 1900 || date.Year() > 2100 {
		return time.Time{}, ErrDateValue
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.After(today) {
		return time.Time{}, ErrDateFuture
	}
	return date, nil
}

// ValidDrawDay reports whether the date falls on a draw day (Tuesday or
// Friday).
func ValidDrawDay(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Tuesday || wd == time.Friday
}
