package main

import (
	"errors"
	"path/filepath"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string

	ProfilePath  string
	Name         string
	SystemPrompt string

	HistoryWindow int
	MaxTokens     int
	Temperature   float64
	TopP          float64

	// TranscriptDir, if set, receives one <session-id>.jsonl file per chat session.
	TranscriptDir string
}

func (c Config) Validate() error {
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.BaseURL == "" && c.APIKey == "" {
		return errors.New("missing -base-url (local server) or OPENAI_API_KEY")
	}
	if c.ProfilePath == "" && c.Name == "" {
		return errors.New("missing -name (or -profile)")
	}
	if c.HistoryWindow < 0 {
		return errors.New("history must be >= 0")
	}
	if c.MaxTokens <= 0 {
		return errors.New("max-tokens must be > 0")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("temperature must be in [0, 2]")
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return errors.New("top-p must be in (0, 1]")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Model:         "jack-sparrow",
		HistoryWindow: 3,
		MaxTokens:     100,
		Temperature:   0.8,
		TopP:          0.9,
		TranscriptDir: filepath.FromSlash("res/chats"),
	}
}
