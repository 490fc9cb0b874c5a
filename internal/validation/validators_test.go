package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"a@b.io",
		"user.name+tag@example.com",
		"UPPER@EXAMPLE.COM",
		"num-123@sub.domain-x.org",
	}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{
		"",
		"a@b",              // no TLD
		"a@.com",           // dot after @
		".user@example.com", // leading dot
		"user.@example.com", // dot before @
		"us..er@example.com",
		"user@example.com.",
		"user<script>@example.com", // injection chars
		"user@exam ple.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}

func TestValidEmailLengthLimits(t *testing.T) {
	assert.False(t, ValidEmail("a@b."))
	long := make([]byte, 250)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ValidEmail(string(long)+"@example.com"))
}

func TestValidBalls(t *testing.T) {
	assert.True(t, ValidBalls([]int{1, 13, 27, 38, 50}))
	assert.False(t, ValidBalls([]int{1, 2, 3, 4}))        // too few
	assert.False(t, ValidBalls([]int{1, 2, 3, 4, 5, 6}))  // too many
	assert.False(t, ValidBalls([]int{0, 2, 3, 4, 5}))     // below range
	assert.False(t, ValidBalls([]int{1, 2, 3, 4, 51}))    // above range
	assert.False(t, ValidBalls([]int{7, 7, 3, 4, 5}))     // duplicate
}

func TestValidStars(t *testing.T) {
	assert.True(t, ValidStars([]int{1, 12}))
	assert.False(t, ValidStars([]int{1}))
	assert.False(t, ValidStars([]int{1, 2, 3}))
	assert.False(t, ValidStars([]int{0, 5}))
	assert.False(t, ValidStars([]int{5, 13}))
	assert.False(t, ValidStars([]int{6, 6}))
}

func TestValidCombinationID(t *testing.T) {
	assert.True(t, ValidCombinationID("1"))
	assert.True(t, ValidCombinationID("2147483647"))
	assert.False(t, ValidCombinationID("0"))
	assert.False(t, ValidCombinationID("2147483648"))
	assert.False(t, ValidCombinationID("-1"))
	assert.False(t, ValidCombinationID("12abc"))
	assert.False(t, ValidCombinationID("1; DROP TABLE"))
	assert.False(t, ValidCombinationID(""))
}

func TestParseDrawDate(t *testing.T) {
	got, err := ParseDrawDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDrawDate("15/03/2024")
	assert.ErrorIs(t, err, ErrDateFormat)

	_, err = ParseDrawDate("2024-02-30")
	assert.ErrorIs(t, err, ErrDateValue)

	_, err = ParseDrawDate("1899-12-31")
	assert.ErrorIs(t, err, ErrDateValue)

	future := time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
	_, err = ParseDrawDate(future)
	assert.ErrorIs(t, err, ErrDateFuture)
}

func TestValidDrawDay(t *testing.T) {
	assert.True(t, ValidDrawDay(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))  // Friday
	assert.True(t, ValidDrawDay(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)))  // Tuesday
	assert.False(t, ValidDrawDay(time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))) // Wednesday
	assert.False(t, ValidDrawDay(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))) // Saturday
}
