package ingredient

import "strings"

// Normalize lower-cases one raw ingredient line and strips every rune that
// is not an ASCII letter or whitespace, collapsing the remainder to single
// spaces. A line of pure digits/punctuation normalizes to the empty string.
func Normalize(line string) string {
	line = strings.ToLower(line)
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
