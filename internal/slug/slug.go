// Package slug derives path and URL safe identifiers from free text.
package slug

import (
	"strings"
	"unicode"
)

// Make normalizes free text into a lowercase slug of alphanumerics and
// single hyphens. Characters outside that set are dropped; runs of
// whitespace, underscores and hyphens collapse into one hyphen; leading
// and trailing hyphens are trimmed. Pure and total: input with no usable
// characters yields the empty string, which callers must treat as
// invalid.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSep := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r + 'a' - 'A')
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingSep = true
		}
	}

	return b.String()
}
