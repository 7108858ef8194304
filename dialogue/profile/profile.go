// Package profile loads character profiles: which cues name the target, which lines are noise,
// and how the chat persona is prompted.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
)

// Profile describes one target character.
type Profile struct {
	Name             string   `yaml:"name"`
	Cues             []string `yaml:"cues"`
	TranscriptMarker string   `yaml:"transcript_marker,omitempty"`
	Exclude          []string `yaml:"exclude,omitempty"`
	Presets          []string `yaml:"presets,omitempty"`
	IDPrefix         string   `yaml:"id_prefix,omitempty"`
	Persona          Persona  `yaml:"persona,omitempty"`
}

// Persona is the chat-side description of the character.
type Persona struct {
	SystemPrompt   string   `yaml:"system_prompt,omitempty"`
	UserLabel      string   `yaml:"user_label,omitempty"`
	AssistantLabel string   `yaml:"assistant_label,omitempty"`
	Stop           []string `yaml:"stop,omitempty"`
}

// Load reads and validates a YAML profile.
func Load(path string) (Profile, error) {
	if path == "" {
		return Profile{}, errors.New("profile.Load: path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile.Load: read: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, rejecting unknown keys, and fills defaults.
func Parse(b []byte) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("profile.Parse: decode: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p *Profile) applyDefaults() {
	p.Name = strings.TrimSpace(p.Name)
	first := firstName(p.Name)
	if p.TranscriptMarker == "" && first != "" {
		p.TranscriptMarker = first + " : "
	}
	if p.IDPrefix == "" && first != "" {
		p.IDPrefix = strings.ToLower(first)
	}
	if p.Persona.UserLabel == "" {
		p.Persona.UserLabel = "Human"
	}
	if p.Persona.AssistantLabel == "" && first != "" {
		p.Persona.AssistantLabel = first
	}
}

// Validate checks that the profile can drive extraction.
func (p Profile) Validate() error {
	if len(p.Cues) == 0 {
		return errors.New("profile: cues is empty")
	}
	for _, c := range p.Cues {
		if dialogue.ClassifyLine(c) != dialogue.LineCue {
			return fmt.Errorf("profile: cue %q would never classify as a cue line (must be upper-case, < %d chars, no .,!?)", c, dialogue.MaxCueLength)
		}
	}
	if _, err := p.Filters(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// Filters compiles presets then exclude patterns, in that order.
func (p Profile) Filters() ([]dialogue.LineFilter, error) {
	return dialogue.BuildFilters(p.Presets, p.Exclude)
}

// ExtractOptions builds extractor options from the profile.
func (p Profile) ExtractOptions() (dialogue.ExtractOptions, error) {
	filters, err := p.Filters()
	if err != nil {
		return dialogue.ExtractOptions{}, err
	}
	return dialogue.ExtractOptions{
		TargetCues: append([]string(nil), p.Cues...),
		Filters:    filters,
	}, nil
}

func firstName(name string) string {
	f := strings.Fields(name)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
