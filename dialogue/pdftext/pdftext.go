// Package pdftext pulls line-oriented text out of PDF screenplays via poppler's pdftotext.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// Extractor converts PDFs to text lines.
type Extractor struct {
	bin    string
	runner Runner
}

// New returns an Extractor that runs bin (default "pdftotext").
func New(bin string) *Extractor {
	return NewWithRunner(bin, execRunner{})
}

func NewWithRunner(bin string, r Runner) *Extractor {
	if bin == "" {
		bin = "pdftotext"
	}
	return &Extractor{bin: bin, runner: r}
}

// Document is the text of one PDF.
type Document struct {
	Pages int
	Lines []string
}

// Extract runs `pdftotext -enc UTF-8 -eol unix <path> -` and returns every line in page order.
// Page breaks (form feeds) separate lines but are not themselves blank lines, so a speech that
// runs across a page boundary stays in one block.
func (e *Extractor) Extract(ctx context.Context, path string) (Document, error) {
	if _, err := os.Stat(path); err != nil {
		return Document{}, fmt.Errorf("pdftext: %w", err)
	}
	out, errb, err := e.runner.Run(ctx, e.bin, "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Document{}, fmt.Errorf("pdftext: %s not found in PATH (install poppler-utils): %w", e.bin, err)
		}
		return Document{}, fmt.Errorf("pdftext: %s %s: %w (stderr: %s)", e.bin, path, err, fileutils.Truncate(string(errb), 512))
	}

	text := strings.TrimRight(string(out), "\f\n")
	lines, err := dialogue.ReadLines(strings.NewReader(text))
	if err != nil {
		return Document{}, fmt.Errorf("pdftext: %w", err)
	}
	pages := 0
	if text != "" {
		pages = 1 + strings.Count(text, "\f")
	}
	return Document{Pages: pages, Lines: lines}, nil
}
