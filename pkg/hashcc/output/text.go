package output

import (
	"bytes"

	"github.com/jamesainslie/hashcc/pkg/hashcc/manifest"
)

// TextFormatter writes sumfile-style `hash  path` lines. It is the
// default format; `verify --format sumfile` reads its output back.
type TextFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TextFormatter) Format(w *bytes.Buffer, r *Result) error {
	return manifest.Write(w, manifest.FormatSumfile, r.Records)
}

func init() {
	Register("text", func() Formatter {
		return &TextFormatter{}
	})
	Register("sumfile", func() Formatter {
		return &TextFormatter{}
	})
}

// Ensure TextFormatter implements Formatter.
var _ Formatter = (*TextFormatter)(nil)
