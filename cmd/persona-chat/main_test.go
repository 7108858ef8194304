package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/persona"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/provider"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("persona-chat", flag.ContinueOnError)
	cfg, err := parseFlags(fs, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.HistoryWindow != 3 || cfg.MaxTokens != 100 || cfg.Temperature != 0.8 || cfg.TopP != 0.9 {
		t.Fatalf("sampling defaults=%+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	ok := defaultConfig()
	ok.BaseURL = "http://localhost:8080/v1"
	ok.Name = "Jack Sparrow"
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := ok
	bad.BaseURL = ""
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error without endpoint or key")
	}
	bad = ok
	bad.Name = ""
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error without name or profile")
	}
	bad = ok
	bad.TopP = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for top-p=0")
	}
}

func TestSessionConfig_ProfileAndOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "jack.yaml")
	y := "name: Jack Sparrow\ncues: [JACK]\npersona:\n  system_prompt: You are Jack.\n  stop: [\"Human:\"]\n"
	if err := os.WriteFile(path, []byte(y), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := defaultConfig()
	cfg.ProfilePath = path
	cfg.SystemPrompt = "Arr."
	pc, err := sessionConfig(cfg)
	if err != nil {
		t.Fatalf("sessionConfig: %v", err)
	}
	if pc.CharacterName != "Jack Sparrow" || pc.AssistantLabel != "Jack" || pc.UserLabel != "Human" {
		t.Fatalf("labels=%+v", pc)
	}
	if pc.SystemPrompt != "Arr." {
		t.Fatalf("SystemPrompt=%q, want override", pc.SystemPrompt)
	}

	pc, err = sessionConfig(Config{Name: "Will Turner", HistoryWindow: 2, MaxTokens: 50, TopP: 1})
	if err != nil {
		t.Fatalf("sessionConfig: %v", err)
	}
	if pc.AssistantLabel != "Will" || pc.HistoryWindow != 2 || pc.MaxTokens != 50 {
		t.Fatalf("pc=%+v", pc)
	}
}

type fakeCompletions struct {
	params []openai.CompletionNewParams
	errs   []error
	text   string
}

func (f *fakeCompletions) New(_ context.Context, body openai.CompletionNewParams, _ ...option.RequestOption) (*openai.Completion, error) {
	f.params = append(f.params, body)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &openai.Completion{Choices: []openai.CompletionChoice{{Text: f.text}}}, nil
}

func TestOpenAICompleter_Complete(t *testing.T) {
	t.Parallel()

	api := &fakeCompletions{
		text: " Why is the rum gone?",
		errs: []error{errors.New("503 Service Unavailable: loading model")},
	}
	c := &openAICompleter{
		api:    api,
		model:  "jack-7b",
		policy: provider.RetryPolicy{ServerErrorWaits: []time.Duration{time.Millisecond}},
	}

	got, err := c.Complete(context.Background(), persona.CompletionRequest{
		Prompt:      "Human: hi\nJack:",
		MaxTokens:   100,
		Temperature: 0.8,
		TopP:        0.9,
		Stop:        []string{"Human:", "", "Jack:", "Jack Sparrow:", "\n\n", "extra"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != " Why is the rum gone?" {
		t.Fatalf("text=%q", got)
	}
	if len(api.params) != 2 {
		t.Fatalf("calls=%d, want 2 (one retry)", len(api.params))
	}
	p := api.params[1]
	if string(p.Model) != "jack-7b" {
		t.Fatalf("Model=%q", p.Model)
	}
	if p.Prompt.OfString.Value != "Human: hi\nJack:" {
		t.Fatalf("Prompt=%q", p.Prompt.OfString.Value)
	}
	if p.MaxTokens.Value != 100 || p.TopP.Value != 0.9 {
		t.Fatalf("MaxTokens=%d TopP=%v", p.MaxTokens.Value, p.TopP.Value)
	}
	wantStop := []string{"Human:", "Jack:", "Jack Sparrow:", "\n\n"}
	if strings.Join(p.Stop.OfStringArray, "|") != strings.Join(wantStop, "|") {
		t.Fatalf("Stop=%q, want %q", p.Stop.OfStringArray, wantStop)
	}
}

func TestOpenAICompleter_NonRetryableError(t *testing.T) {
	t.Parallel()

	api := &fakeCompletions{errs: []error{errors.New("401 Unauthorized")}}
	c := &openAICompleter{api: api, model: "m", policy: provider.RetryPolicy{ServerErrorWaits: []time.Duration{time.Millisecond}}}
	if _, err := c.Complete(context.Background(), persona.CompletionRequest{Prompt: "x", MaxTokens: 1, TopP: 1}); err == nil {
		t.Fatalf("expected error")
	}
	if len(api.params) != 1 {
		t.Fatalf("calls=%d, want 1", len(api.params))
	}
}

type scriptedCompleter struct {
	replies []string
	prompts []string
}

func (s *scriptedCompleter) Complete(_ context.Context, req persona.CompletionRequest) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	if len(s.replies) == 0 {
		return "", errors.New("500 internal server error")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func TestRunREPL_TurnsResetAndTranscript(t *testing.T) {
	t.Parallel()

	fc := &scriptedCompleter{replies: []string{"Savvy?", "Not all treasure is silver and gold, mate."}}
	sess, err := persona.NewSession(fc, persona.Config{
		CharacterName:  "Jack Sparrow",
		UserLabel:      "Human",
		AssistantLabel: "Jack",
		HistoryWindow:  3,
		TopP:           0.9,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	dir := t.TempDir()
	tr, err := openTranscript(dir)
	if err != nil {
		t.Fatalf("openTranscript: %v", err)
	}
	firstID := tr.ID()

	in := strings.NewReader("hello\n\n/reset\nwhat treasure?\nfail please\n/quit\nnever read\n")
	var out strings.Builder
	turns, err := runREPL(context.Background(), in, &out, sess, tr, "Jack")
	if err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if turns != 2 {
		t.Fatalf("turns=%d, want 2", turns)
	}
	if !strings.Contains(out.String(), "Jack: Savvy?") || !strings.Contains(out.String(), "(history cleared)") {
		t.Fatalf("output=%q", out.String())
	}
	if !strings.Contains(out.String(), "error:") {
		t.Fatalf("expected model error to be reported, output=%q", out.String())
	}
	if len(fc.prompts) != 3 {
		t.Fatalf("completer calls=%d, want 3", len(fc.prompts))
	}
	if strings.Contains(fc.prompts[1], "hello") {
		t.Fatalf("history leaked across /reset: %q", fc.prompts[1])
	}
	if tr.ID() == firstID {
		t.Fatalf("expected a new session id after /reset")
	}

	first := readTranscript(t, filepath.Join(dir, firstID+".jsonl"))
	if len(first) != 2 || first[0].Role != persona.RoleUser || first[1].Text != "Savvy?" {
		t.Fatalf("first transcript=%+v", first)
	}
	second := readTranscript(t, tr.Path())
	if len(second) != 2 || second[0].Text != "what treasure?" || second[0].SessionID != tr.ID() {
		t.Fatalf("second transcript=%+v", second)
	}
}

func TestRunREPL_NilTranscript(t *testing.T) {
	t.Parallel()

	fc := &scriptedCompleter{replies: []string{"Aye."}}
	sess, err := persona.NewSession(fc, persona.Config{AssistantLabel: "Jack", HistoryWindow: 3})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	var out strings.Builder
	turns, err := runREPL(context.Background(), strings.NewReader("hi\n"), &out, sess, nil, "Jack")
	if err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	if turns != 1 {
		t.Fatalf("turns=%d, want 1", turns)
	}
}

func TestRunREPL_ReturnsOnCancelWhileWaitingForInput(t *testing.T) {
	t.Parallel()

	sess, err := persona.NewSession(&scriptedCompleter{}, persona.Config{AssistantLabel: "Jack", HistoryWindow: 3})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// Nothing is ever written, so reads block like an idle terminal.
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		turns int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		var out strings.Builder
		n, err := runREPL(ctx, pr, &out, sess, nil, "Jack")
		done <- result{n, err}
	}()

	cancel()
	select {
	case r := <-done:
		if !errors.Is(r.err, context.Canceled) {
			t.Fatalf("err=%v, want context.Canceled", r.err)
		}
		if r.turns != 0 {
			t.Fatalf("turns=%d, want 0", r.turns)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runREPL did not return after cancel")
	}
}

func readTranscript(t *testing.T, path string) []transcriptEntry {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open %s: %v", path, err)
	}
	defer f.Close()
	var out []transcriptEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e transcriptEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		out = append(out, e)
	}
	return out
}
