package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	in, out, err := joinFile(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "lines_in=%d lines_out=%d out=%s\n", in, out, cfg.OutputPath)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Text file with lines wrapped mid-sentence (e.g. pdftotext output)")
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Where to write one logical line per line")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite the output file if it exists")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s -in <file> -out <file> [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/line-joiner -in res/transcript.txt -out res/transcript_joined.txt")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.InputPath != "" {
		cfg.InputPath = filepath.Clean(cfg.InputPath)
	}
	if cfg.OutputPath != "" {
		cfg.OutputPath = filepath.Clean(cfg.OutputPath)
	}
	return cfg, nil
}

// joinFile returns the number of raw input lines and joined output lines.
func joinFile(cfg Config) (int, int, error) {
	if err := fileutils.CheckOverwrite(cfg.OutputPath, cfg.Overwrite); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("open -in: %w", err)
	}
	defer f.Close()

	lines, err := dialogue.ReadLines(f)
	if err != nil {
		return 0, 0, err
	}
	joined := dialogue.JoinSplitLines(lines)

	var b strings.Builder
	for _, l := range joined {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := fileutils.WriteFileAtomic(cfg.OutputPath, []byte(b.String()), 0o644); err != nil {
		return 0, 0, fmt.Errorf("write -out: %w", err)
	}
	return len(lines), len(joined), nil
}
