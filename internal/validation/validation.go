package validation

import (
	"regexp"
	"strings"
)

// EmailPattern is a deliberately loose shape check; the auth provider has
// already verified ownership of the caller's own address.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail trims and lowercases an email so all lookups and
// comparisons are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that a string looks like an email address.
func ValidateEmail(email string) bool {
	email = NormalizeEmail(email)
	if email == "" || len(email) > 254 {
		return false
	}
	return EmailPattern.MatchString(email)
}

// SplitEmail returns the local part and domain of a normalized email.
// The domain is empty if the address has no "@".
func SplitEmail(email string) (local, domain string) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email, ""
	}
	return email[:at], email[at+1:]
}
