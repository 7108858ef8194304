package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("line-joiner", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{"-in", "a/b.txt", "-out", "c/d.txt", "-overwrite"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.InputPath != filepath.FromSlash("a/b.txt") || cfg.OutputPath != filepath.FromSlash("c/d.txt") {
		t.Fatalf("cfg=%+v", cfg)
	}
	if !cfg.Overwrite {
		t.Fatalf("Overwrite=false, want true")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("expected error for empty config")
	}
	if err := (Config{InputPath: "a.txt", OutputPath: "a.txt"}).Validate(); err == nil {
		t.Fatalf("expected error for identical paths")
	}
	if err := (Config{InputPath: "a.txt", OutputPath: "b.txt"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJoinFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	body := "Jack : You will always remember\nthis as the day\n\n- that you almost caught\nWill : No.\n"
	if err := os.WriteFile(in, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	nIn, nOut, err := joinFile(Config{InputPath: in, OutputPath: out})
	if err != nil {
		t.Fatalf("joinFile: %v", err)
	}
	if nIn != 5 || nOut != 2 {
		t.Fatalf("lines in=%d out=%d, want 5 and 2", nIn, nOut)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "Jack : You will always remember this as the day - that you almost caught\nWill : No.\n"
	if string(got) != want {
		t.Fatalf("got=%q, want %q", got, want)
	}

	if _, _, err := joinFile(Config{InputPath: in, OutputPath: out}); !errors.Is(err, fileutils.ErrExists) {
		t.Fatalf("err=%v, want ErrExists", err)
	}
}
