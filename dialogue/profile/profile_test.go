package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
)

const jackYAML = `
name: Jack Sparrow
cues: [JACK, JACK SPARROW]
presets: [screenplay-pdf]
exclude:
  - 'POTC:.*\d+/\d+/\d+'
persona:
  system_prompt: You are Captain Jack Sparrow.
  stop: ["Human:", "Jack:"]
`

func TestParse_FillsDefaults(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(jackYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.TranscriptMarker != "Jack : " {
		t.Fatalf("TranscriptMarker=%q", p.TranscriptMarker)
	}
	if p.IDPrefix != "jack" {
		t.Fatalf("IDPrefix=%q", p.IDPrefix)
	}
	if p.Persona.UserLabel != "Human" || p.Persona.AssistantLabel != "Jack" {
		t.Fatalf("labels=%q/%q", p.Persona.UserLabel, p.Persona.AssistantLabel)
	}
	if len(p.Persona.Stop) != 2 {
		t.Fatalf("Stop=%v", p.Persona.Stop)
	}
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no cues":        "name: Jack\n",
		"lowercase cue":  "name: Jack\ncues: [jack]\n",
		"unknown preset": "name: Jack\ncues: [JACK]\npresets: [nope]\n",
		"bad regexp":     "name: Jack\ncues: [JACK]\nexclude: ['(']\n",
		"unknown key":    "name: Jack\ncues: [JACK]\ncolour: red\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestExtractOptions_DrivesExtractor(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(jackYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts, err := p.ExtractOptions()
	if err != nil {
		t.Fatalf("ExtractOptions: %v", err)
	}
	ex, err := dialogue.NewExtractor(opts)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}

	doc := "ELIZABETH\nYou're mad.\nPOTC: AT WORLD'S END 1/12/06\nTruly mad.\nJACK SPARROW\nThank goodness for that.\n"
	pairs := ex.Extract(strings.Split(doc, "\n"))
	if len(pairs) != 1 {
		t.Fatalf("len(pairs)=%d, want 1", len(pairs))
	}
	if pairs[0].Prompt != "You're mad. Truly mad." {
		t.Fatalf("Prompt=%q", pairs[0].Prompt)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error")
	}
	path := filepath.Join(t.TempDir(), "jack.yaml")
	if err := os.WriteFile(path, []byte(jackYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
