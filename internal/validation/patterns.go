package validation

import "strings"

// Substrings that indicate probing rather than legitimate input. The scan is
// deliberately coarse: the sanitizer has already stripped metacharacters, so a
// hit here means something survived that should not have.
var suspiciousPatterns = []string{
	// SQL injection
	"union", "select", "drop", "delete", "insert", "update", "--", ";",
	// XSS
	"<script", "javascript:", "onload=", "onerror=", "onclick=",
	// Path traversal
	"../", `..\`,
}

// IsSuspicious reports whether the input contains a known attack pattern.
// Matching is case-insensitive substring containment.
func IsSuspicious(input string) bool {
	if input == "" {
		return false
	}
	lower := strings.ToLower(input)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
