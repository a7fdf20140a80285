package chapters

import (
	"strings"
	"unicode"
)

// SanitizeTitle turns a display title into a file name stem: whitespace
// becomes '_' and every other rune that is not a letter or digit is dropped.
func SanitizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	return b.String()
}

// OutputName is the Markdown file name for a novel title.
func OutputName(title string) string {
	name := SanitizeTitle(title)
	if name == "" {
		name = "novel"
	}

	return name + ".md"
}
