package dialogue

import "errors"

var (
	// ErrNoInputFiles is returned when a directory or glob yields nothing to process.
	ErrNoInputFiles = errors.New("no input files")

	// ErrUnsupportedInput is returned for documents that are neither plain text nor PDF.
	ErrUnsupportedInput = errors.New("unsupported input type")
)
