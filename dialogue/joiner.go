package dialogue

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const continuationLeaders = ",.-'\""

// JoinSplitLines rejoins lines that a PDF or text export wrapped mid-sentence. A line starting with a
// lower-case letter or continuation punctuation is appended to the previous logical line; blank lines are dropped.
func JoinSplitLines(lines []string) []string {
	var out []string
	var cur strings.Builder
	for _, raw := range lines {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if cur.Len() > 0 && isContinuation(s) {
			cur.WriteByte(' ')
			cur.WriteString(s)
			continue
		}
		if cur.Len() > 0 {
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
		cur.WriteString(s)
	}
	if cur.Len() > 0 {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}

func isContinuation(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r) || strings.ContainsRune(continuationLeaders, r)
}
