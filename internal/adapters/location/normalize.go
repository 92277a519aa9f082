package location

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery produces a consistent cache key for a location query:
// Unicode NFC, collapsed whitespace, lower case.
func NormalizeQuery(s string) string {
	s = norm.NFC.String(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
