package dialogue

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Pair is one training example: what someone else said, and how the target character answered.
type Pair struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`

	// Speaker is the last non-target cue that contributed to Prompt, when known.
	Speaker string `json:"speaker,omitempty"`
	// Source is the base name of the document the pair came from, when known.
	Source string `json:"source,omitempty"`
}

// ExtractOptions configures an Extractor.
type ExtractOptions struct {
	// TargetCues are the cue variants naming the target character (e.g. "JACK", "JACK SPARROW").
	// Matching ignores trailing parenthetical extensions and inner whitespace runs.
	TargetCues []string

	// Filters are applied in order to every trimmed, non-blank line before classification.
	// A filtered line is dropped as if it weren't in the document.
	Filters []LineFilter
}

// Extractor turns cue-formatted script text into dialogue pairs.
// It holds no per-document state, so one Extractor can be reused across documents.
type Extractor struct {
	targets map[string]struct{}
	filters []LineFilter
}

// NewExtractor validates opts and returns an Extractor.
func NewExtractor(opts ExtractOptions) (*Extractor, error) {
	targets := make(map[string]struct{}, len(opts.TargetCues))
	for _, c := range opts.TargetCues {
		n := NormalizeCue(c)
		if n == "" {
			continue
		}
		targets[strings.ToUpper(n)] = struct{}{}
	}
	if len(targets) == 0 {
		return nil, errors.New("NewExtractor: no target cues")
	}
	return &Extractor{
		targets: targets,
		filters: append([]LineFilter(nil), opts.Filters...),
	}, nil
}

// IsTargetCue reports whether cue names the target character.
func (e *Extractor) IsTargetCue(cue string) bool {
	_, ok := e.targets[strings.ToUpper(NormalizeCue(cue))]
	return ok
}

type speakerMode int

const (
	modeNeutral speakerMode = iota
	modeOther
	modeTarget
)

// pairState is the accumulator for a single pass over one document.
type pairState struct {
	mode      speakerMode
	character string

	prompt   []string
	response []string
	speaker  string

	pairs []Pair
}

// flush emits a pair iff both sides are non-empty. One-sided buffers are carried over.
func (s *pairState) flush() {
	if len(s.prompt) == 0 || len(s.response) == 0 {
		return
	}
	s.pairs = append(s.pairs, Pair{
		Prompt:   strings.Join(s.prompt, " "),
		Response: strings.Join(s.response, " "),
		Speaker:  s.speaker,
	})
	s.prompt = nil
	s.response = nil
	s.speaker = ""
}

func (s *pairState) enter(mode speakerMode, character string) {
	if mode != s.mode {
		s.flush()
	}
	s.mode = mode
	s.character = character
}

// Extract runs one pass over lines and returns the pairs in document order.
// It never fails; a document without target cues yields no pairs.
func (e *Extractor) Extract(lines []string) []Pair {
	var st pairState
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line != "" && excluded(e.filters, line) {
			continue
		}

		switch ClassifyLine(line) {
		case LineBlank:
			// A blank before any speech is skipped, so "GIBBS", "", "line" still attributes the line.
			if len(st.prompt) == 0 && len(st.response) == 0 {
				continue
			}
			st.flush()
			st.mode = modeNeutral
			st.character = ""
		case LineCue:
			if e.IsTargetCue(line) {
				st.enter(modeTarget, "")
			} else {
				st.enter(modeOther, NormalizeCue(line))
			}
		case LineDialogue:
			switch {
			case st.mode == modeTarget:
				st.response = append(st.response, line)
			case st.mode == modeOther && st.character != "":
				st.prompt = append(st.prompt, line)
				st.speaker = st.character
			}
		case LineDirection:
			// Scene headings and transitions aren't speech.
		}
	}
	st.flush()
	return st.pairs
}

// ExtractReader reads r line by line and extracts pairs.
func (e *Extractor) ExtractReader(r io.Reader) ([]Pair, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("ExtractReader: %w", err)
	}
	return e.Extract(lines), nil
}

// ReadLines splits r into lines. Both "\n" and "\r\n" endings are accepted, and form feeds
// (pdftotext page breaks) are treated as line separators.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	var lines []string
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.Contains(line, "\f") {
			for _, part := range strings.Split(line, "\f") {
				if part != "" {
					lines = append(lines, part)
				}
			}
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return lines, nil
}
