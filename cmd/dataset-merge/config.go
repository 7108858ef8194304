package main

import (
	"errors"
	"path/filepath"
)

type Config struct {
	InputDir   string
	Pattern    string
	OutputPath string

	// ReviewPath, if set, also writes the merged pairs to an .xlsx workbook for manual review.
	ReviewPath string

	Overwrite bool
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("missing -in")
	}
	if c.OutputPath == "" {
		return errors.New("missing -out")
	}
	if _, err := filepath.Match(c.Pattern, "x"); err != nil {
		return errors.New("invalid -pattern: " + err.Error())
	}
	if c.ReviewPath != "" && filepath.Ext(c.ReviewPath) != ".xlsx" {
		return errors.New("-review-xlsx must end in .xlsx")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InputDir:   filepath.FromSlash("res/pairs"),
		Pattern:    "*_pairs.txt",
		OutputPath: filepath.FromSlash("res/merged_pairs.txt"),
	}
}
