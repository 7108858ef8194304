package main

import (
	"errors"
	"path/filepath"
	"strings"
)

var allStages = []string{"extract", "merge", "format"}

type Config struct {
	ScriptsPath string
	BaseDir     string
	ProfilePath string

	Targets string
	Presets string
	Mode    string

	IDPrefix string
	Clean    bool
	Review   bool

	FromStage string
	OnlyStage string

	Overwrite bool
}

func (c Config) Validate() error {
	if c.ScriptsPath == "" {
		return errors.New("missing -scripts")
	}
	if c.BaseDir == "" {
		return errors.New("missing -base-dir")
	}
	if c.ProfilePath == "" && c.Targets == "" {
		return errors.New("missing -target (or -profile)")
	}
	if c.OnlyStage != "" && c.FromStage != "" {
		return errors.New("use only one of -only-stage or -from-stage")
	}
	for _, s := range []string{c.OnlyStage, c.FromStage} {
		if s != "" && !knownStage(s) {
			return errors.New("unknown stage " + s + " (want " + strings.Join(allStages, "|") + ")")
		}
	}
	return nil
}

func knownStage(s string) bool {
	for _, k := range allStages {
		if k == s {
			return true
		}
	}
	return false
}

func defaultConfig() Config {
	return Config{
		ScriptsPath: filepath.FromSlash("res/scripts"),
		BaseDir:     filepath.FromSlash("res"),
		Mode:        "cue",
	}
}
