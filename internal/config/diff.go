package config

import (
	"strings"

	"github.com/google/go-cmp/cmp"
)

// DiffSerialized returns a line diff between two rule files. Line endings and
// trailing whitespace are normalized and blank lines ignored, so a diff is only
// reported for content changes.
func DiffSerialized(previous, current []byte) string {
	return cmp.Diff(ruleLines(previous), ruleLines(current))
}

func ruleLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
