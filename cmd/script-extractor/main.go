package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/pdftext"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/profile"
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

	job, err := newJob(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputFiles, err := collectInputFiles(cfg.InputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	start := time.Now()
	total := 0
	for i, in := range inputFiles {
		pairs, err := job.extractFile(ctx, in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed extracting %s: %s\n", in, err.Error())
			os.Exit(1)
		}
		outPath := filepath.Join(cfg.OutputDir, pairsFileName(in))
		if err := dialogue.WritePairsFile(outPath, pairs, cfg.Overwrite); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		total += len(pairs)

		fmt.Fprintf(os.Stderr, "progress script-extractor: %d/%d documents (last=%s pairs=%d elapsed=%s)\n",
			i+1, len(inputFiles), filepath.Base(in), len(pairs), time.Since(start).Round(time.Millisecond))
		if len(pairs) == 0 {
			fmt.Fprintf(os.Stderr, "warning: no pairs found in %s (check -target cues and exclusions)\n", filepath.Base(in))
		}
	}

	fmt.Fprintf(os.Stdout, "documents=%d pairs=%d out_dir=%s\n", len(inputFiles), total, cfg.OutputDir)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	var targets, presets stringList
	var exclude patternList

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Script file (.txt or .pdf) or a directory of them")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory to write <name>_pairs.txt files into")
	fs.StringVar(&cfg.ProfilePath, "profile", "", "Character profile YAML (cues, exclusions, transcript marker)")
	fs.Var(&targets, "target", "Target character cue, repeatable or comma-separated (e.g. JACK,JACK SPARROW)")
	fs.Var(&presets, "preset", "Exclusion preset, repeatable: "+strings.Join(dialogue.PresetNames(), ", "))
	fs.Var(&exclude, "exclude", "Regexp for noise lines to drop before classification, repeatable")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Extraction mode: cue (screenplay cue lines) or transcript (\"Name : line\")")
	fs.StringVar(&cfg.Marker, "marker", "", "Transcript marker for the target's lines (default from profile, e.g. \"Jack : \")")
	fs.StringVar(&cfg.Pdftotext, "pdftotext", cfg.Pdftotext, "pdftotext binary used for .pdf inputs")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing pair files")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/script-extractor -in res/at_worlds_end.pdf -target JACK,\"JACK SPARROW\" -preset screenplay-pdf")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/script-extractor -in res/scripts -profile profiles/jack.yaml -overwrite")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Targets = targets
	cfg.Presets = presets
	cfg.Exclude = exclude
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.InputPath = filepath.Clean(cfg.InputPath)
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	if cfg.ProfilePath != "" {
		cfg.ProfilePath = filepath.Clean(cfg.ProfilePath)
	}
	return cfg, nil
}

type pdfSource interface {
	Extract(ctx context.Context, path string) (pdftext.Document, error)
}

// job is the resolved extraction setup shared by every input document.
type job struct {
	mode      string
	marker    string
	extractor *dialogue.Extractor
	pdf       pdfSource
}

func newJob(cfg Config) (*job, error) {
	var p profile.Profile
	if cfg.ProfilePath != "" {
		loaded, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	cues := append(append([]string(nil), p.Cues...), cfg.Targets...)
	presets := append(append([]string(nil), p.Presets...), cfg.Presets...)
	exclude := append(append([]string(nil), p.Exclude...), cfg.Exclude...)

	filters, err := dialogue.BuildFilters(presets, exclude)
	if err != nil {
		return nil, err
	}
	ex, err := dialogue.NewExtractor(dialogue.ExtractOptions{TargetCues: cues, Filters: filters})
	if err != nil {
		return nil, err
	}

	marker := cfg.Marker
	if marker == "" {
		marker = p.TranscriptMarker
	}
	if cfg.Mode == modeTranscript && marker == "" {
		return nil, fmt.Errorf("transcript mode needs -marker (or a profile with a name)")
	}

	return &job{
		mode:      cfg.Mode,
		marker:    marker,
		extractor: ex,
		pdf:       pdftext.New(cfg.Pdftotext),
	}, nil
}

func (j *job) extractFile(ctx context.Context, path string) ([]dialogue.Pair, error) {
	lines, err := j.documentLines(ctx, path)
	if err != nil {
		return nil, err
	}

	var pairs []dialogue.Pair
	if j.mode == modeTranscript {
		pairs = dialogue.ExtractTranscriptPairs(lines, j.marker)
	} else {
		pairs = j.extractor.Extract(lines)
	}
	src := filepath.Base(path)
	for i := range pairs {
		pairs[i].Source = src
	}
	return pairs, nil
}

func (j *job) documentLines(ctx context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		doc, err := j.pdf.Extract(ctx, path)
		if err != nil {
			return nil, err
		}
		return doc.Lines, nil
	case ".txt", ".text", ".md":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return dialogue.ReadLines(f)
	default:
		return nil, fmt.Errorf("%w: %s", dialogue.ErrUnsupportedInput, path)
	}
}

func isSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".text", ".md":
		return true
	}
	return false
}

func pairsFileName(inPath string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return base + "_pairs.txt"
}

func collectInputFiles(inputPath string) ([]string, error) {
	fi, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat -in: %w", err)
	}

	if !fi.IsDir() {
		if !isSupported(inputPath) {
			return nil, fmt.Errorf("%w: %s (want .txt or .pdf)", dialogue.ErrUnsupportedInput, inputPath)
		}
		return []string{inputPath}, nil
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isSupported(name) || strings.HasSuffix(name, "_pairs.txt") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("read dir entry info %s: %w", name, err)
		}
		if info.Mode()&fs.ModeType != 0 {
			continue
		}
		files = append(files, filepath.Join(inputPath, name))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", dialogue.ErrNoInputFiles, inputPath)
	}
	return files, nil
}
