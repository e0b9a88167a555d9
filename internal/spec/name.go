package spec

import (
	"strings"
	"unicode"
)

// SentenceCase turns an argument id into a human label: words are split on
// non-alphanumeric boundaries and lower-to-upper camel-case boundaries, then
// joined with spaces with only the first letter capitalized.
// "output_dir" and "outputDir" both become "Output dir".
func SentenceCase(id string) string {
	trimmed := strings.TrimRightFunc(id, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	b.Grow(len(trimmed) + 4)

	newWord := true
	firstWord := true
	foundReal := false
	lastChar := ' '

	for _, r := range trimmed {
		isAlnum := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case !isAlnum && foundReal:
			newWord = true
		case !isAlnum:
			// Leading separators are dropped entirely.
		case unicode.IsDigit(r):
			foundReal = true
			newWord = true
			lastChar = r
			b.WriteRune(r)
		case newWord || (unicode.IsLower(lastChar) && unicode.IsUpper(r) && lastChar != ' '):
			foundReal = true
			newWord = false
			lastChar = r
			if !firstWord {
				b.WriteRune(' ')
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			firstWord = false
		default:
			foundReal = true
			lastChar = r
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
