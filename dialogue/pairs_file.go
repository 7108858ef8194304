package dialogue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
)

// FormatPairs renders pairs in the pair-file format: "<prompt>\n<response>\n\n" per pair.
// Embedded newlines are folded to spaces so every pair stays exactly two lines.
func FormatPairs(pairs []Pair) []byte {
	var b bytes.Buffer
	for _, p := range pairs {
		b.WriteString(singleLine(p.Prompt))
		b.WriteByte('\n')
		b.WriteString(singleLine(p.Response))
		b.WriteString("\n\n")
	}
	return b.Bytes()
}

// WritePairsFile writes pairs to path atomically. An empty pair list still produces an (empty) file.
func WritePairsFile(path string, pairs []Pair, overwrite bool) error {
	if path == "" {
		return errors.New("WritePairsFile: path is empty")
	}
	if err := fileutils.CheckOverwrite(path, overwrite); err != nil {
		return fmt.Errorf("WritePairsFile: %w", err)
	}
	if err := fileutils.WriteFileAtomic(path, FormatPairs(pairs), 0o644); err != nil {
		return fmt.Errorf("WritePairsFile: write: %w", err)
	}
	return nil
}

// ReadPairs reads a pair file two non-blank lines at a time. A trailing prompt without a response is dropped.
func ReadPairs(r io.Reader) ([]Pair, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("ReadPairs: %w", err)
	}
	var pairs []Pair
	var pending string
	havePrompt := false
	for _, l := range lines {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		if !havePrompt {
			pending = s
			havePrompt = true
			continue
		}
		pairs = append(pairs, Pair{Prompt: pending, Response: s})
		havePrompt = false
	}
	return pairs, nil
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
