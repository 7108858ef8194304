package dialogue

import (
	"regexp"
	"strings"
)

var (
	bracketedAction = regexp.MustCompile(`\[.*?\]`)
	speakerPrefix   = regexp.MustCompile(`(?i)^\s*\w+\s*:\s*`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// CleanLine strips bracketed stage actions and a leading "Name:" prefix, repairs apostrophes that
// came through as '?', and collapses whitespace.
func CleanLine(raw string) string {
	line := bracketedAction.ReplaceAllString(raw, "")
	line = speakerPrefix.ReplaceAllString(line, "")
	line = repairApostrophes(strings.TrimSpace(line))
	line = whitespaceRun.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// repairApostrophes turns every '?' except a line-final one into an apostrophe.
// PDF extraction renders curly apostrophes as '?', so only the last one can be a real question mark.
func repairApostrophes(line string) string {
	if body, ok := strings.CutSuffix(line, "?"); ok {
		return strings.ReplaceAll(body, "?", "'") + "?"
	}
	return strings.ReplaceAll(line, "?", "'")
}
