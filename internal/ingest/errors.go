package ingest

import (
	"fmt"
	"strings"
)

// SourceError indicates a dataset source that could not be fetched or read
// (network failure, bad status, missing file, malformed CSV).
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// SchemaError indicates a source that parsed but is missing expected columns.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %s: missing expected columns: %s",
		e.Source, strings.Join(e.Missing, ", "))
}
