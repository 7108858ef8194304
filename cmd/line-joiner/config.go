package main

import "errors"

type Config struct {
	InputPath  string
	OutputPath string
	Overwrite  bool
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("missing -in")
	}
	if c.OutputPath == "" {
		return errors.New("missing -out")
	}
	if c.InputPath == c.OutputPath {
		return errors.New("-in and -out must differ")
	}
	return nil
}

func defaultConfig() Config {
	return Config{}
}
