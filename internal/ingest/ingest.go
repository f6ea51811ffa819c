package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sentinel is substituted when cleaning leaves nothing to analyze, so the
// detector and classifier always see at least one line.
const Sentinel = "No valid logs found"

// CleanLines coerces arbitrary caller input into a non-empty batch of
// trimmed log lines. Accepted shapes: a string (split on newlines), a
// []string, a []any with entries coerced via fmt.Sprint, or any other value
// coerced to a single line. Malformed input is never an error; an empty
// result yields the sentinel line.
func CleanLines(v any) []string {
	var lines []string
	switch in := v.(type) {
	case string:
		for _, line := range strings.Split(in, "\n") {
			lines = appendClean(lines, line)
		}
	case []string:
		for _, line := range in {
			lines = appendClean(lines, line)
		}
	case []any:
		for _, entry := range in {
			s, ok := entry.(string)
			if !ok {
				s = fmt.Sprint(entry)
			}
			for _, line := range strings.Split(s, "\n") {
				lines = appendClean(lines, line)
			}
		}
	case nil:
	default:
		lines = appendClean(lines, fmt.Sprint(in))
	}

	if len(lines) == 0 {
		return []string{Sentinel}
	}
	return lines
}

// CleanLine normalizes a single line: control characters below 0x20 (except
// tab) become spaces, the text is canonicalized to NFC, and surrounding
// whitespace is trimmed.
func CleanLine(line string) string {
	scrubbed := strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' {
			return ' '
		}
		return r
	}, line)
	return strings.TrimSpace(norm.NFC.String(scrubbed))
}

// Truncate keeps the trailing max lines of the batch, mirroring how the
// service bounds very large submissions. Reports whether anything was cut.
func Truncate(lines []string, max int) ([]string, bool) {
	if max <= 0 || len(lines) <= max {
		return lines, false
	}
	return lines[len(lines)-max:], true
}

func appendClean(lines []string, raw string) []string {
	if cleaned := CleanLine(raw); cleaned != "" {
		lines = append(lines, cleaned)
	}
	return lines
}
