package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/profile"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/provider"
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
	if cfg.ProfilePath != "" && cfg.IDPrefix == "" {
		p, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
		cfg.IDPrefix = p.IDPrefix
	}

	st, err := format(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if st.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "quality filter dropped %d pairs\n", st.Dropped)
	}
	fmt.Fprintf(os.Stdout, "pairs=%d records=%d dropped=%d out=%s\n", st.Pairs, st.Records, st.Dropped, cfg.OutputPath)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Pair file (prompt line, response line, blank line)")
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "JSONL dataset to write, one ShareGPT record per line")
	fs.StringVar(&cfg.SchemaOut, "schema-out", "", "Optional path to write the record JSON Schema")
	fs.StringVar(&cfg.ProfilePath, "profile", "", "Character profile YAML; supplies the id prefix when -id-prefix is unset")
	fs.StringVar(&cfg.IDPrefix, "id-prefix", "", "Record id prefix, ids are <prefix>_<n> (default \"pair\")")
	fs.BoolVar(&cfg.Clean, "clean", false, "Drop pairs containing digits or web references")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing outputs")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/sharegpt-format -in res/jack_pairs_all.txt -out res/jack.jsonl -id-prefix jack -clean")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.InputPath = filepath.Clean(cfg.InputPath)
	cfg.OutputPath = filepath.Clean(cfg.OutputPath)
	if cfg.SchemaOut != "" {
		cfg.SchemaOut = filepath.Clean(cfg.SchemaOut)
	}
	if cfg.ProfilePath != "" {
		cfg.ProfilePath = filepath.Clean(cfg.ProfilePath)
	}
	return cfg, nil
}

type stats struct {
	Pairs   int
	Records int
	Dropped int
}

func format(cfg Config) (stats, error) {
	var st stats

	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return st, fmt.Errorf("open -in: %w", err)
	}
	pairs, err := dialogue.ReadPairs(f)
	_ = f.Close()
	if err != nil {
		return st, err
	}
	st.Pairs = len(pairs)

	if cfg.Clean {
		pairs, st.Dropped = dialogue.FilterCleanPairs(pairs)
	}

	schema := provider.GenerateSchema[dialogue.ShareGPTRecord]()
	validator, err := provider.NewValidator(schema)
	if err != nil {
		return st, fmt.Errorf("record schema: %w", err)
	}

	records := dialogue.BuildShareGPT(pairs, dialogue.ShareGPTOptions{IDPrefix: cfg.IDPrefix})
	if err := dialogue.WriteJSONL(cfg.OutputPath, records, dialogue.JSONLOptions{
		Overwrite: cfg.Overwrite,
		Validate:  validator.ValidateJSON,
	}); err != nil {
		return st, err
	}
	st.Records = len(records)

	if cfg.SchemaOut != "" {
		if err := fileutils.CheckOverwrite(cfg.SchemaOut, cfg.Overwrite); err != nil {
			return st, err
		}
		b, err := provider.MarshalSchema(schema)
		if err != nil {
			return st, err
		}
		if err := fileutils.WriteFileAtomic(cfg.SchemaOut, b, 0o644); err != nil {
			return st, fmt.Errorf("write -schema-out: %w", err)
		}
	}
	return st, nil
}
