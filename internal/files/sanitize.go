package files

import (
	"strings"
	"unicode"
)

// DefaultBaseName is used when nothing of a name survives sanitization.
const DefaultBaseName = "certificate"

// BaseName reduces a name to letters, digits and spaces, trims it and joins
// the words with underscores. Underscores in the input count as spaces, so
// BaseName(BaseName(s)) == BaseName(s).
func BaseName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '_' || r == ' ':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	base := strings.TrimSpace(b.String())
	if base == "" {
		return DefaultBaseName
	}
	return strings.ReplaceAll(base, " ", "_")
}

// Filename returns the archive entry name for a certificate.
func Filename(name, ext string) string {
	return BaseName(name) + ext
}
