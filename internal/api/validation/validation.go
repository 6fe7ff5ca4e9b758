package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Category colors are stored as #rrggbb.
	hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,50}$`)
)

var ErrInvalidTime = errors.New("invalid date or time")

// Layouts accepted for dates on request bodies and query strings, most
// specific first. Values without an offset are taken as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

func IsValidUsername(name string) bool {
	return usernameRegex.MatchString(name)
}

func IsValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// IsValidURL accepts absolute http and https URLs only.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidPassword checks password length and that it mixes letters and digits.
func IsValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 128 {
		return false, "Password must be at most 128 characters"
	}

	var hasLetter, hasNumber bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsNumber(c):
			hasNumber = true
		}
	}

	if !hasLetter {
		return false, "Password must contain at least one letter"
	}
	if !hasNumber {
		return false, "Password must contain at least one number"
	}
	return true, ""
}

// ParseTime reads a date or datetime in any of the accepted layouts and
// returns it in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// ParseTimestamp requires RFC 3339 with an explicit offset. Time entries use
// it so that a missing zone is rejected rather than guessed.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return t.UTC(), nil
}

// SanitizeString removes null bytes and other control characters
func SanitizeString(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		// Allow printable characters, newlines, tabs
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
