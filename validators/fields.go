package validators

import (
	"net/netip"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxEmailLength = 120

const maxIPLength = 45

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// SanitizeString trims leading/trailing whitespace and strips non-printable
// characters. An input that sanitizes down to nothing yields "".
func SanitizeString(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, trimmed)
}

// ValidateField checks a sanitized value against a length limit. An empty
// value passes only when allowEmpty is set.
func ValidateField(value string, maxLength int, allowEmpty bool) bool {
	sanitized := SanitizeString(value)
	if sanitized == "" {
		return allowEmpty
	}
	// Limits are character counts, matching the store's column sizes.
	return utf8.RuneCountInString(sanitized) <= maxLength
}

// ValidateEmail checks the value against the local-part@domain.tld pattern
// and the 120-character limit.
func ValidateEmail(value string) bool {
	email := SanitizeString(value)
	if email == "" {
		return false
	}
	if !emailPattern.MatchString(email) {
		return false
	}
	return len(email) <= maxEmailLength
}

// ValidateIP accepts an empty value (the authorized IP is optional) or a
// syntactically valid IPv4/IPv6 literal of at most 45 characters.
func ValidateIP(value string) bool {
	ip := SanitizeString(value)
	if ip == "" {
		return true
	}
	if _, err := netip.ParseAddr(ip); err != nil {
		return false
	}
	return len(ip) <= maxIPLength
}
