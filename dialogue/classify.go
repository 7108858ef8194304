package dialogue

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineKind is the classification of a single trimmed script line.
type LineKind int

const (
	LineBlank LineKind = iota
	// LineCue names the speaker of the lines that follow.
	LineCue
	LineDialogue
	// LineDirection is an upper-case line that isn't a cue (scene headings, transitions, shouted action).
	// It never contributes to a speaker buffer.
	LineDirection
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineCue:
		return "cue"
	case LineDialogue:
		return "dialogue"
	case LineDirection:
		return "direction"
	default:
		return "unknown"
	}
}

// MaxCueLength is the exclusive upper bound on the length of a cue line, in runes.
const MaxCueLength = 30

const cuePunctuation = ".,!?"

// ClassifyLine classifies a line after trimming surrounding whitespace.
func ClassifyLine(line string) LineKind {
	s := strings.TrimSpace(line)
	if s == "" {
		return LineBlank
	}
	if !isUpper(s) {
		return LineDialogue
	}
	// Extensions like "(V.O.)" don't count against the punctuation rule.
	if utf8.RuneCountInString(s) < MaxCueLength && !strings.ContainsAny(NormalizeCue(s), cuePunctuation) {
		return LineCue
	}
	return LineDirection
}

// isUpper reports whether every cased rune in s is upper-case and there is at least one.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// NormalizeCue strips screenplay extensions like "(CONT'D)" or "(V.O.)" and collapses inner whitespace,
// so "JACK  (CONT'D)" and "JACK" name the same speaker.
func NormalizeCue(cue string) string {
	s := strings.TrimSpace(cue)
	for strings.HasSuffix(s, ")") {
		open := strings.LastIndexByte(s, '(')
		if open <= 0 {
			break
		}
		s = strings.TrimSpace(s[:open])
	}
	return strings.Join(strings.Fields(s), " ")
}
