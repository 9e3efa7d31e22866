package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Input validation and sanitization utilities

// ValidateUserID validates user id format
func ValidateUserID(user string) error {
	if user == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, user)
	if !matched {
		return fmt.Errorf("invalid user ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateAnalysisID validates analysis id format (UUID)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}

	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, strings.ToLower(id))
	if !matched {
		return fmt.Errorf("invalid analysis ID format")
	}

	return nil
}

// ValidateDate validates YYYY-MM-DD date strings
func ValidateDate(date string) error {
	if date == "" {
		return fmt.Errorf("date cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD)")
	}
	return nil
}

// ValidateTestType validates lab test type strings
func ValidateTestType(testType string) error {
	if testType == "" {
		return fmt.Errorf("test type cannot be empty")
	}
	if len(testType) > 128 {
		return fmt.Errorf("test type too long (max 128 chars)")
	}

	// Block dangerous patterns
	dangerous := []string{"$(", "`", "&", "|", ";", "\n", "\r"}
	for _, d := range dangerous {
		if strings.Contains(testType, d) {
			return fmt.Errorf("invalid characters in test type")
		}
	}

	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePageSize validates page size
func ValidatePageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}
