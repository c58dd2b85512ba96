package validators

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinDescriptionLength = 20
	MaxDescriptionLength = 2000
	MaxNameLength        = 50
)

var (
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^(?:\+?1[\s.\-]?)?\(?([2-9]\d{2})\)?[\s.\-]?(\d{3})[\s.\-]?(\d{4})$`)
	namePattern  = regexp.MustCompile(`^\p{L}[\p{L}' .\-]*$`)
)

// ValidZip accepts 5-digit and ZIP+4 codes.
func ValidZip(zip string) bool {
	return zipPattern.MatchString(zip)
}

// ValidDescription reports whether the description length, counted in
// characters, lies within [MinDescriptionLength, MaxDescriptionLength].
func ValidDescription(description string) bool {
	n := utf8.RuneCountInString(description)
	return n >= MinDescriptionLength && n <= MaxDescriptionLength
}

// ValidEmail checks for a conventional local@domain.tld address.
func ValidEmail(email string) bool {
	return len(email) <= 254 && emailPattern.MatchString(email)
}

// ValidPhone accepts common US formats such as 5551234567, (555) 123-4567
// and +1 555 123 4567.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// NormalizePhone returns the 10-digit national number, or "" when the input
// is not a valid phone number.
func NormalizePhone(phone string) string {
	m := phonePattern.FindStringSubmatch(strings.TrimSpace(phone))
	if m == nil {
		return ""
	}
	return m[1] + m[2] + m[3]
}

// ValidName requires a non-blank name made of letters and the usual
// separators found in personal names.
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return false
	}
	return namePattern.MatchString(name)
}
