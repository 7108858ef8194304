package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/review"
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

	res, err := dialogue.MergePairFiles(cfg.InputDir, cfg.OutputPath, dialogue.MergeOptions{
		Pattern:   cfg.Pattern,
		Overwrite: cfg.Overwrite,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	for _, f := range res.Files {
		fmt.Fprintln(os.Stderr, "merged:", filepath.Base(f))
	}

	reviewed := 0
	if cfg.ReviewPath != "" {
		pairs, err := readSourcedPairs(res.Files)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if err := review.WriteWorkbook(cfg.ReviewPath, pairs, cfg.Overwrite); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		reviewed = len(pairs)
	}

	fmt.Fprintf(os.Stdout, "files=%d lines=%d bytes=%d out=%s review_rows=%d\n",
		len(res.Files), res.Lines, res.Bytes, cfg.OutputPath, reviewed)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputDir, "in", cfg.InputDir, "Directory containing pair files")
	fs.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "Glob for pair files inside -in")
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Merged pair file to write")
	fs.StringVar(&cfg.ReviewPath, "review-xlsx", "", "Optional .xlsx workbook listing every merged pair for review")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing outputs")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/dataset-merge -in res/pairs -out res/jack_pairs_all.txt -review-xlsx res/review.xlsx")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.InputDir = filepath.Clean(cfg.InputDir)
	cfg.OutputPath = filepath.Clean(cfg.OutputPath)
	if cfg.ReviewPath != "" {
		cfg.ReviewPath = filepath.Clean(cfg.ReviewPath)
	}
	return cfg, nil
}

// readSourcedPairs re-reads each merged file so review rows keep the document they came from.
func readSourcedPairs(files []string) ([]dialogue.Pair, error) {
	var all []dialogue.Pair
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		pairs, err := dialogue.ReadPairs(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		src := filepath.Base(path)
		for i := range pairs {
			pairs[i].Source = src
		}
		all = append(all, pairs...)
	}
	return all, nil
}
