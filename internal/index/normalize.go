package index

import (
	"strings"
	"unicode"
)

// Normalize trims text and collapses runs of whitespace to single spaces,
// so chunk boundaries are stable against incidental formatting differences.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
