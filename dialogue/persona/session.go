// Package persona keeps a chat with a fine-tuned character model on track: it builds the raw
// completion prompt from a short history window, trims replies at the next speaker turn, and
// regenerates replies that merely parrot the previous one.
package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// CompletionRequest is a raw-prompt completion call.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
}

// Completer produces a raw completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Message is one entry in the session history.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Config describes the character and sampling settings.
type Config struct {
	// CharacterName is the full name the model tends to emit before a second reply, e.g. "Jack Sparrow".
	CharacterName  string
	SystemPrompt   string
	UserLabel      string
	AssistantLabel string
	Stop           []string

	HistoryWindow int
	MaxTokens     int
	Temperature   float64
	TopP          float64

	// RepeatThreshold is the share of a reply's distinct words that may also appear in the previous
	// reply before it is regenerated.
	RepeatThreshold float64
	MaxAttempts     int
}

// DefaultConfig returns the sampling defaults the character model was tuned with.
func DefaultConfig() Config {
	return Config{
		UserLabel:       "Human",
		AssistantLabel:  "Assistant",
		HistoryWindow:   3,
		MaxTokens:       100,
		Temperature:     0.8,
		TopP:            0.9,
		RepeatThreshold: 0.7,
		MaxAttempts:     3,
	}
}

// ErrEmptyReply is returned when every attempt produced an empty reply.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Session is one conversation. Its methods are safe for concurrent use.
type Session struct {
	cfg       Config
	completer Completer

	mu        sync.Mutex
	history   []Message
	lastReply string
}

// NewSession validates cfg and returns an empty session.
func NewSession(completer Completer, cfg Config) (*Session, error) {
	if completer == nil {
		return nil, errors.New("persona.NewSession: completer is nil")
	}
	def := DefaultConfig()
	if cfg.UserLabel == "" {
		cfg.UserLabel = def.UserLabel
	}
	if cfg.AssistantLabel == "" {
		cfg.AssistantLabel = def.AssistantLabel
	}
	if cfg.HistoryWindow < 0 {
		return nil, errors.New("persona.NewSession: history window must be >= 0")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.RepeatThreshold <= 0 {
		cfg.RepeatThreshold = def.RepeatThreshold
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	return &Session{cfg: cfg, completer: completer}, nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history...)
}

// Reset clears history and the repetition baseline.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.lastReply = ""
}

// Send appends input to the history, asks the model for a reply, and records it.
// On failure the pending input is dropped from the history.
func (s *Session) Send(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("persona: empty input")
	}

	s.mu.Lock()
	prompt := s.buildPromptLocked(input)
	last := s.lastReply
	s.mu.Unlock()

	req := CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
		Stop:        s.stopSequences(),
	}

	// reply is the latest non-empty candidate; an empty retry never discards it.
	var reply string
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		raw, err := s.completer.Complete(ctx, req)
		if err != nil {
			return "", fmt.Errorf("persona: generate reply: %w", err)
		}
		candidate := s.CleanReply(raw)
		if candidate == "" {
			continue
		}
		reply = candidate
		if attempt < s.cfg.MaxAttempts && IsRepetitive(reply, last, s.cfg.RepeatThreshold) {
			continue
		}
		break
	}
	if reply == "" {
		return "", ErrEmptyReply
	}

	s.mu.Lock()
	s.history = append(s.history,
		Message{Role: RoleUser, Text: input},
		Message{Role: RoleAssistant, Text: reply},
	)
	s.lastReply = reply
	s.mu.Unlock()
	return reply, nil
}

// BuildPrompt renders the completion prompt for input without changing the session.
func (s *Session) BuildPrompt(input string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildPromptLocked(strings.TrimSpace(input))
}

func (s *Session) buildPromptLocked(input string) string {
	var b strings.Builder
	if sp := strings.TrimSpace(s.cfg.SystemPrompt); sp != "" {
		b.WriteString(sp)
		b.WriteString("\n")
	}
	window := s.history
	if n := s.cfg.HistoryWindow; len(window) > n {
		window = window[len(window)-n:]
	}
	for _, m := range window {
		label := s.cfg.AssistantLabel
		if m.Role == RoleUser {
			label = s.cfg.UserLabel
		}
		fmt.Fprintf(&b, "%s: %s\n", label, m.Text)
	}
	fmt.Fprintf(&b, "%s: %s\n%s:", s.cfg.UserLabel, input, s.cfg.AssistantLabel)
	return b.String()
}

// stopSequences is a blank line and the speaker labels, then the configured stop list, deduplicated.
// Endpoints that cap the number of stop sequences keep the leading ones.
func (s *Session) stopSequences() []string {
	candidates := []string{"\n\n", s.cfg.UserLabel + ":", s.cfg.AssistantLabel + ":"}
	if s.cfg.CharacterName != "" {
		candidates = append(candidates, s.cfg.CharacterName+":")
	}
	candidates = append(candidates, s.cfg.Stop...)
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// CleanReply keeps only the first reply when the model runs on into "<CharacterName>:" turns.
func (s *Session) CleanReply(raw string) string {
	if s.cfg.CharacterName != "" {
		raw, _, _ = strings.Cut(raw, s.cfg.CharacterName+":")
	}
	return strings.TrimSpace(raw)
}

// IsRepetitive reports whether more than threshold of reply's distinct words (case-insensitive)
// also occur in previous. An empty previous reply is never repeated.
func IsRepetitive(reply, previous string, threshold float64) bool {
	if strings.TrimSpace(previous) == "" {
		return false
	}
	words := wordSet(reply)
	if len(words) == 0 {
		return false
	}
	prev := wordSet(previous)
	shared := 0
	for w := range words {
		if _, ok := prev[w]; ok {
			shared++
		}
	}
	return float64(shared)/float64(len(words)) > threshold
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
