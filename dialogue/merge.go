package dialogue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
)

// MergeOptions controls MergePairFiles.
type MergeOptions struct {
	// Pattern is a filepath.Match glob applied to names in the input directory (default "*_pairs.txt").
	Pattern string

	Overwrite bool
}

// MergeResult reports what MergePairFiles wrote.
type MergeResult struct {
	Files []string
	Lines int
	Bytes int64
}

// MergePairFiles concatenates every matching pair file in inputDir (sorted by name) into outputPath,
// separating files with a blank line. The output file itself is never treated as an input.
func MergePairFiles(inputDir, outputPath string, opts MergeOptions) (MergeResult, error) {
	if inputDir == "" {
		return MergeResult{}, errors.New("MergePairFiles: inputDir is empty")
	}
	if outputPath == "" {
		return MergeResult{}, errors.New("MergePairFiles: outputPath is empty")
	}
	if opts.Pattern == "" {
		opts.Pattern = "*_pairs.txt"
	}

	matches, err := filepath.Glob(filepath.Join(inputDir, opts.Pattern))
	if err != nil {
		return MergeResult{}, fmt.Errorf("MergePairFiles: glob: %w", err)
	}
	outAbs, _ := filepath.Abs(outputPath)
	files := matches[:0]
	for _, m := range matches {
		if abs, _ := filepath.Abs(m); abs == outAbs {
			continue
		}
		if fi, err := os.Stat(m); err != nil || fi.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return MergeResult{}, fmt.Errorf("MergePairFiles: %w matching %q in %s", ErrNoInputFiles, opts.Pattern, inputDir)
	}

	if err := fileutils.CheckOverwrite(outputPath, opts.Overwrite); err != nil {
		return MergeResult{}, fmt.Errorf("MergePairFiles: %w", err)
	}

	var all []string
	for _, f := range files {
		in, err := os.Open(f)
		if err != nil {
			return MergeResult{}, fmt.Errorf("MergePairFiles: open %s: %w", f, err)
		}
		lines, err := ReadLines(in)
		_ = in.Close()
		if err != nil {
			return MergeResult{}, fmt.Errorf("MergePairFiles: read %s: %w", f, err)
		}
		if len(all) > 0 {
			all = append(all, "")
		}
		all = append(all, lines...)
	}

	var out []byte
	for _, l := range all {
		out = append(out, l...)
		out = append(out, '\n')
	}
	if err := fileutils.WriteFileAtomic(outputPath, out, 0o644); err != nil {
		return MergeResult{}, fmt.Errorf("MergePairFiles: write: %w", err)
	}
	return MergeResult{Files: files, Lines: len(all), Bytes: int64(len(out))}, nil
}
