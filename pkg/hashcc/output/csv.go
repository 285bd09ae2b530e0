package output

import (
	"bytes"

	"github.com/jamesainslie/hashcc/pkg/hashcc/manifest"
)

// CSVFormatter writes records as tabular CSV with a path,hash header.
// The output round-trips through `verify --format csv`.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	return manifest.Write(w, manifest.FormatCSV, r.Records)
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)
