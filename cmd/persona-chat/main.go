package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/persona"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/profile"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	pcfg, err := sessionConfig(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	sess, err := persona.NewSession(newOpenAICompleter(cfg), pcfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	tr, err := openTranscript(cfg.TranscriptDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "chatting with %s (model=%s). /reset clears history, /quit exits.\n", pcfg.AssistantLabel, cfg.Model)
	turns, err := runREPL(ctx, os.Stdin, os.Stdout, sess, tr, pcfg.AssistantLabel)
	if cerr := tr.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "turns=%d session_id=%s transcript=%s\n", turns, tr.ID(), tr.Path())
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.BaseURL, "base-url", "", "OpenAI-compatible endpoint, e.g. http://localhost:8080/v1 for llama.cpp (default $OPENAI_BASE_URL)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "API key (default $OPENAI_API_KEY; optional for local servers)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Model name served by the endpoint")
	fs.StringVar(&cfg.ProfilePath, "profile", "", "Character profile YAML (persona prompt, labels, stop sequences)")
	fs.StringVar(&cfg.Name, "name", "", "Character full name, used when no -profile is given (e.g. \"Jack Sparrow\")")
	fs.StringVar(&cfg.SystemPrompt, "system-prompt", "", "Overrides the profile's system prompt")
	fs.IntVar(&cfg.HistoryWindow, "history", cfg.HistoryWindow, "Number of past messages included in each prompt")
	fs.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "Max tokens per reply")
	fs.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Sampling temperature")
	fs.Float64Var(&cfg.TopP, "top-p", cfg.TopP, "Nucleus sampling top-p")
	fs.StringVar(&cfg.TranscriptDir, "transcript-dir", cfg.TranscriptDir, "Directory for <session-id>.jsonl transcripts (empty disables)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/persona-chat -base-url http://localhost:8080/v1 -profile profiles/jack.yaml")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.ProfilePath != "" {
		cfg.ProfilePath = filepath.Clean(cfg.ProfilePath)
	}
	if cfg.TranscriptDir != "" {
		cfg.TranscriptDir = filepath.Clean(cfg.TranscriptDir)
	}
	return cfg, nil
}

// sessionConfig merges the profile persona with flag overrides.
func sessionConfig(cfg Config) (persona.Config, error) {
	pc := persona.DefaultConfig()
	pc.HistoryWindow = cfg.HistoryWindow
	pc.MaxTokens = cfg.MaxTokens
	pc.Temperature = cfg.Temperature
	pc.TopP = cfg.TopP

	if cfg.ProfilePath != "" {
		p, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			return persona.Config{}, err
		}
		pc.CharacterName = p.Name
		pc.SystemPrompt = p.Persona.SystemPrompt
		pc.UserLabel = p.Persona.UserLabel
		pc.AssistantLabel = p.Persona.AssistantLabel
		pc.Stop = p.Persona.Stop
	}
	if cfg.Name != "" {
		pc.CharacterName = cfg.Name
		if f := strings.Fields(cfg.Name); len(f) > 0 && cfg.ProfilePath == "" {
			pc.AssistantLabel = f[0]
		}
	}
	if cfg.SystemPrompt != "" {
		pc.SystemPrompt = cfg.SystemPrompt
	}
	return pc, nil
}

// runREPL reads one message per line until EOF, /quit, or ctx is done, and returns the number of
// completed turns. Model errors are reported and the loop continues.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, sess *persona.Session, tr *transcript, label string) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, scanErr := scanLines(ctx, in)
	turns := 0
	for {
		fmt.Fprint(out, "> ")
		var text string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return turns, ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				if err := <-scanErr; err != nil && ctx.Err() == nil {
					return turns, err
				}
				return turns, ctx.Err()
			}
			text = l
		}

		line := strings.TrimSpace(text)
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return turns, nil
		case "/reset":
			sess.Reset()
			if err := tr.Rotate(); err != nil {
				return turns, err
			}
			fmt.Fprintln(out, "(history cleared)")
			continue
		}

		reply, err := sess.Send(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return turns, ctx.Err()
			}
			fmt.Fprintln(out, "error:", err.Error())
			continue
		}
		if err := tr.Append(persona.RoleUser, line); err != nil {
			return turns, err
		}
		if err := tr.Append(persona.RoleAssistant, reply); err != nil {
			return turns, err
		}
		turns++
		fmt.Fprintf(out, "%s: %s\n", label, reply)
	}
}

// scanLines reads in on its own goroutine so a blocked read never delays cancellation.
// The error channel receives exactly one value once the line channel is closed.
func scanLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}
