package dialogue

import "regexp"

var (
	hasDigits = regexp.MustCompile(`\d`)
	hasWebRef = regexp.MustCompile(`(?i)http|www|\.com|\.org|\.net`)
)

// IsCleanDialogue reports whether a line reads like spoken dialogue rather than scraped reference text.
// Digits (page refs, citations like "[3]") and web references are rejected.
func IsCleanDialogue(line string) bool {
	return !hasDigits.MatchString(line) && !hasWebRef.MatchString(line)
}

// FilterCleanPairs keeps pairs whose prompt and response are both clean dialogue.
func FilterCleanPairs(pairs []Pair) (kept []Pair, dropped int) {
	kept = make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if IsCleanDialogue(p.Prompt) && IsCleanDialogue(p.Response) {
			kept = append(kept, p)
			continue
		}
		dropped++
	}
	return kept, dropped
}
