package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type transcriptEntry struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
}

// transcript appends chat turns to <dir>/<session-id>.jsonl. A nil *transcript discards everything.
type transcript struct {
	dir string
	id  string
	f   *os.File
	enc *json.Encoder
	now func() time.Time
}

func openTranscript(dir string) (*transcript, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir transcript dir: %w", err)
	}
	t := &transcript{dir: dir, now: time.Now}
	if err := t.open(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *transcript) open() error {
	id := uuid.NewString()
	f, err := os.OpenFile(filepath.Join(t.dir, id+".jsonl"), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	t.id = id
	t.f = f
	t.enc = json.NewEncoder(f)
	t.enc.SetEscapeHTML(false)
	return nil
}

func (t *transcript) Path() string {
	if t == nil {
		return ""
	}
	return filepath.Join(t.dir, t.id+".jsonl")
}

func (t *transcript) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// Rotate closes the current file and continues under a fresh session id.
func (t *transcript) Rotate() error {
	if t == nil {
		return nil
	}
	if err := t.Close(); err != nil {
		return err
	}
	return t.open()
}

func (t *transcript) Append(role, text string) error {
	if t == nil || t.f == nil {
		return nil
	}
	entry := transcriptEntry{SessionID: t.id, Role: role, Text: text, Time: t.now().UTC()}
	if err := t.enc.Encode(entry); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

func (t *transcript) Close() error {
	if t == nil || t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}
