package main

import (
	"errors"
	"path/filepath"
	"strings"
)

type Config struct {
	InputPath   string
	OutputDir   string
	ProfilePath string

	Targets []string
	Presets []string
	Exclude []string

	Mode   string
	Marker string

	Pdftotext string
	Overwrite bool
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("missing -in")
	}
	if c.OutputDir == "" {
		return errors.New("missing -out")
	}
	if c.ProfilePath == "" && len(c.Targets) == 0 {
		return errors.New("missing -target (or -profile)")
	}
	switch c.Mode {
	case modeCue, modeTranscript:
	default:
		return errors.New("mode must be cue or transcript")
	}
	return nil
}

const (
	modeCue        = "cue"
	modeTranscript = "transcript"
)

func defaultConfig() Config {
	return Config{
		InputPath: filepath.FromSlash("res/scripts"),
		OutputDir: filepath.FromSlash("res/pairs"),
		Mode:      modeCue,
		Pdftotext: "pdftotext",
	}
}

// stringList is a flag.Value that accepts repeated flags and comma-separated values.
type stringList []string

func (s *stringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// patternList is like stringList but never splits on commas, since regexps contain them.
type patternList []string

func (p *patternList) String() string {
	if p == nil {
		return ""
	}
	return strings.Join(*p, " ")
}

func (p *patternList) Set(v string) error {
	if v != "" {
		*p = append(*p, v)
	}
	return nil
}
