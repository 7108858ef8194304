package dialogue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
)

const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// ShareGPTRecord is one fine-tuning example in ShareGPT layout.
type ShareGPTRecord struct {
	ID            string         `json:"id" jsonschema:"minLength=1"`
	Conversations []ShareGPTTurn `json:"conversations" jsonschema:"minItems=2,maxItems=2"`
}

// ShareGPTTurn is a single message inside a ShareGPTRecord.
type ShareGPTTurn struct {
	From  string `json:"from" jsonschema:"enum=human,enum=assistant"`
	Value string `json:"value" jsonschema:"minLength=1"`
}

// ShareGPTOptions controls record construction.
type ShareGPTOptions struct {
	// IDPrefix is prepended to the running record number (default "pair"), giving ids like "jack_0".
	IDPrefix string
}

// BuildShareGPT turns pairs into records with sequential ids starting at 0.
// Pairs with an empty side after trimming are skipped and don't consume an id.
func BuildShareGPT(pairs []Pair, opts ShareGPTOptions) []ShareGPTRecord {
	prefix := strings.TrimSpace(opts.IDPrefix)
	if prefix == "" {
		prefix = "pair"
	}
	out := make([]ShareGPTRecord, 0, len(pairs))
	for _, p := range pairs {
		prompt := strings.TrimSpace(p.Prompt)
		response := strings.TrimSpace(p.Response)
		if prompt == "" || response == "" {
			continue
		}
		out = append(out, ShareGPTRecord{
			ID: fmt.Sprintf("%s_%d", prefix, len(out)),
			Conversations: []ShareGPTTurn{
				{From: RoleHuman, Value: prompt},
				{From: RoleAssistant, Value: response},
			},
		})
	}
	return out
}

// JSONLOptions controls WriteJSONL.
type JSONLOptions struct {
	Overwrite bool

	// Validate, if set, is called with each encoded record (without the trailing newline).
	// The first failure aborts the write and nothing is written.
	Validate func(record []byte) error
}

// WriteJSONL encodes one record per line and writes the file atomically.
// HTML characters are not escaped, so dialogue like "<sigh>" survives verbatim.
func WriteJSONL(path string, records []ShareGPTRecord, opts JSONLOptions) error {
	if path == "" {
		return errors.New("WriteJSONL: path is empty")
	}
	if err := fileutils.CheckOverwrite(path, opts.Overwrite); err != nil {
		return fmt.Errorf("WriteJSONL: %w", err)
	}

	var buf bytes.Buffer
	var line bytes.Buffer
	enc := json.NewEncoder(&line)
	enc.SetEscapeHTML(false)
	for i, rec := range records {
		line.Reset()
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("WriteJSONL: encode record %d: %w", i, err)
		}
		if opts.Validate != nil {
			if err := opts.Validate(bytes.TrimRight(line.Bytes(), "\n")); err != nil {
				return fmt.Errorf("WriteJSONL: record %s: %w", rec.ID, err)
			}
		}
		buf.Write(line.Bytes())
	}

	if err := fileutils.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("WriteJSONL: write: %w", err)
	}
	return nil
}
