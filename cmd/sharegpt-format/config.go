package main

import (
	"errors"
	"path/filepath"
	"strings"
)

type Config struct {
	InputPath   string
	OutputPath  string
	SchemaOut   string
	ProfilePath string

	IDPrefix string
	Clean    bool

	Overwrite bool
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("missing -in")
	}
	if c.OutputPath == "" {
		return errors.New("missing -out")
	}
	if strings.ContainsAny(c.IDPrefix, " \t\n") {
		return errors.New("id-prefix must not contain whitespace")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InputPath:  filepath.FromSlash("res/merged_pairs.txt"),
		OutputPath: filepath.FromSlash("res/dataset.jsonl"),
	}
}
