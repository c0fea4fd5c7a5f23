package util

import "strings"

// Ellipsis is appended to truncated labels.
const Ellipsis = "…"

// DefaultSegmentLength is the number of characters Compress keeps per word.
const DefaultSegmentLength = 3

// Truncate shortens text to maxLen runes followed by an ellipsis.
func Truncate(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + Ellipsis
}

// Compress keeps the first segment characters of every ASCII alphanumeric run
// plus the single separator that follows it. A separator sitting on the last
// character of text is dropped.
func Compress(text string, segment int) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(runes); {
		if !isASCIIAlnum(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && isASCIIAlnum(runes[i]) {
			i++
		}
		keep := i - start
		if keep > segment {
			keep = segment
		}
		b.WriteString(string(runes[start : start+keep]))
		if i < len(runes)-1 {
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
