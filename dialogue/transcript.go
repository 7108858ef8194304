package dialogue

import (
	"strings"
)

// ExtractTranscriptPairs pairs each line containing marker (e.g. "Jack : ") with the nearest preceding
// non-empty line. Both sides are cleaned with CleanLine and the pair is kept only when both survive cleaning.
// After a marked line the preceding context is reset, so one prompt never answers twice.
func ExtractTranscriptPairs(lines []string, marker string) []Pair {
	if marker == "" {
		return nil
	}
	var pairs []Pair
	prev := ""
	for _, raw := range lines {
		cleaned := CleanLine(raw)
		if strings.Contains(raw, marker) && prev != "" {
			if p := CleanLine(prev); p != "" && cleaned != "" {
				pairs = append(pairs, Pair{Prompt: p, Response: cleaned, Speaker: transcriptSpeaker(prev)})
			}
			prev = ""
			continue
		}
		if cleaned != "" {
			prev = raw
		}
	}
	return pairs
}

// transcriptSpeaker returns the "Name" of a "Name : text" line, or "".
func transcriptSpeaker(line string) string {
	name, _, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t") {
		return ""
	}
	return name
}
