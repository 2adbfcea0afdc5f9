package services

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/microcosm-cc/bluemonday"
)

const maxEmailLen = 254

// markup drops every HTML element from user-supplied free text.
var markup = bluemonday.StrictPolicy()

// plainText strips markup from s, decodes the entities the policy leaves
// behind and trims surrounding whitespace. Length limits apply to the result.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(markup.Sanitize(s)))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// requireLength checks the rune length of value against [min, max].
func requireLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		if min <= 1 && n == 0 {
			return invalid("%s is required", field)
		}
		return invalid("%s must be between %d and %d characters", field, min, max)
	}
	return nil
}

// NormalizeEmail trims and lowercases raw and checks it has the shape
// local@domain.tld.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return "", invalid("invalid email format")
	}
	local, domain := email[:i], email[i+1:]
	if local == "" || domain == "" || !strings.Contains(domain, ".") {
		return "", invalid("invalid email format")
	}
	if len(email) > maxEmailLen {
		return "", invalid("email is too long")
	}
	return email, nil
}

// normalizeStatus lowercases and trims s and reports whether it names a
// review state.
func normalizeStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, common.IsValidStatus(s)
}
