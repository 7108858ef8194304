package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stages := allStages
	if cfg.OnlyStage != "" {
		stages = []string{cfg.OnlyStage}
	} else if cfg.FromStage != "" {
		stages = stagesFrom(stages, cfg.FromStage)
	}

	l := newLayout(cfg.BaseDir)

	// Keep the profile next to the dataset it produced.
	if cfg.ProfilePath != "" {
		dst := filepath.Join(l.base, "profile.yaml")
		if filepath.Clean(cfg.ProfilePath) != dst {
			copied, err := fileutils.CopyFileIfExists(cfg.ProfilePath, dst, true)
			if err != nil {
				fmt.Fprintln(os.Stderr, "failed copying profile:", err.Error())
				os.Exit(1)
			}
			if copied {
				fmt.Fprintln(os.Stdout, "copied profile:", dst)
			}
		}
	}

	for _, stage := range stages {
		if skip, why := shouldSkip(cfg, l, stage); skip {
			fmt.Fprintf(os.Stdout, "skip %s: %s\n", stage, why)
			continue
		}
		args := stageArgs(cfg, l, stage)
		if err := runGo(ctx, args...); err != nil {
			os.Exit(1)
		}
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ScriptsPath, "scripts", cfg.ScriptsPath, "Script file or directory of .txt/.pdf scripts")
	fs.StringVar(&cfg.BaseDir, "base-dir", cfg.BaseDir, "Base output directory (pairs/, merged_pairs.txt, dataset.jsonl)")
	fs.StringVar(&cfg.ProfilePath, "profile", "", "Character profile YAML passed to every stage that takes one")
	fs.StringVar(&cfg.Targets, "target", "", "Comma-separated target cues, e.g. JACK,JACK SPARROW")
	fs.StringVar(&cfg.Presets, "preset", "", "Comma-separated exclusion presets")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Extraction mode: cue|transcript")
	fs.StringVar(&cfg.IDPrefix, "id-prefix", "", "Record id prefix for the dataset")
	fs.BoolVar(&cfg.Clean, "clean", false, "Drop pairs containing digits or web references when formatting")
	fs.BoolVar(&cfg.Review, "review", false, "Also write review.xlsx during merge")

	fs.StringVar(&cfg.FromStage, "from-stage", "", "Start at stage: "+strings.Join(allStages, "|"))
	fs.StringVar(&cfg.OnlyStage, "only-stage", "", "Run only one stage: "+strings.Join(allStages, "|"))
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing outputs instead of skipping finished stages")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.ScriptsPath = filepath.Clean(cfg.ScriptsPath)
	cfg.BaseDir = filepath.Clean(cfg.BaseDir)
	if cfg.ProfilePath != "" {
		cfg.ProfilePath = filepath.Clean(cfg.ProfilePath)
	}
	cfg.FromStage = strings.ToLower(strings.TrimSpace(cfg.FromStage))
	cfg.OnlyStage = strings.ToLower(strings.TrimSpace(cfg.OnlyStage))
	return cfg, nil
}

// layout is where each stage reads and writes under the base directory.
type layout struct {
	base    string
	pairs   string
	merged  string
	dataset string
	schema  string
	review  string
}

func newLayout(base string) layout {
	base = filepath.Clean(base)
	return layout{
		base:    base,
		pairs:   filepath.Join(base, "pairs"),
		merged:  filepath.Join(base, "merged_pairs.txt"),
		dataset: filepath.Join(base, "dataset.jsonl"),
		schema:  filepath.Join(base, "dataset.schema.json"),
		review:  filepath.Join(base, "review.xlsx"),
	}
}

func shouldSkip(cfg Config, l layout, stage string) (bool, string) {
	if cfg.Overwrite {
		return false, ""
	}
	switch stage {
	case "extract":
		if dirHasPairs(l.pairs) {
			return true, "pair files already exist"
		}
	case "merge":
		if fileutils.FileExists(l.merged) {
			return true, "merged pair file already exists"
		}
	case "format":
		if fileutils.FileExists(l.dataset) {
			return true, "dataset already exists"
		}
	}
	return false, ""
}

func stageArgs(cfg Config, l layout, stage string) []string {
	var args []string
	switch stage {
	case "extract":
		args = []string{
			"run", "./cmd/script-extractor",
			"-in", cfg.ScriptsPath,
			"-out", l.pairs,
			"-mode", cfg.Mode,
		}
		if cfg.ProfilePath != "" {
			args = append(args, "-profile", cfg.ProfilePath)
		}
		if cfg.Targets != "" {
			args = append(args, "-target", cfg.Targets)
		}
		if cfg.Presets != "" {
			args = append(args, "-preset", cfg.Presets)
		}
	case "merge":
		args = []string{
			"run", "./cmd/dataset-merge",
			"-in", l.pairs,
			"-out", l.merged,
		}
		if cfg.Review {
			args = append(args, "-review-xlsx", l.review)
		}
	case "format":
		args = []string{
			"run", "./cmd/sharegpt-format",
			"-in", l.merged,
			"-out", l.dataset,
			"-schema-out", l.schema,
		}
		if cfg.ProfilePath != "" {
			args = append(args, "-profile", cfg.ProfilePath)
		}
		if cfg.IDPrefix != "" {
			args = append(args, "-id-prefix", cfg.IDPrefix)
		}
		if cfg.Clean {
			args = append(args, "-clean")
		}
	default:
		return nil
	}
	if cfg.Overwrite {
		args = append(args, "-overwrite")
	}
	return args
}

func runGo(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "command failed:", "go "+strings.Join(args, " "))
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		return err
	}
	fmt.Fprintln(os.Stdout, "ok:", "go "+strings.Join(args, " "), "(", time.Since(start).Round(time.Millisecond).String()+")")
	return nil
}

func stagesFrom(stages []string, from string) []string {
	from = strings.ToLower(strings.TrimSpace(from))
	for i, s := range stages {
		if s == from {
			return stages[i:]
		}
	}
	return stages
}

func dirHasPairs(dir string) bool {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range ents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "_pairs.txt") {
			return true
		}
	}
	return false
}
