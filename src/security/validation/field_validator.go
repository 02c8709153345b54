package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxDescriptionLength   = 1024
	MaxSourceNameLength    = 64
)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateDateString parses a YYYY-MM-DD string into a time value.
func ValidateDateString(s, fieldName string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid YYYY-MM-DD date", ErrValidationFailed, fieldName, s)
	}
	return t, nil
}

// ValidateFloatRange checks a float against inclusive bounds.
func ValidateFloatRange(val float64, fieldName string, minVal, maxVal float64) error {
	if val < minVal || val > maxVal {
		return fmt.Errorf("%w: %s (%g) must be between %g and %g", ErrValidationFailed, fieldName, val, minVal, maxVal)
	}
	return nil
}
