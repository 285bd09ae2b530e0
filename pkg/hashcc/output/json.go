package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Records []types.DigestRecord `json:"records"`
	Stats   jsonStats            `json:"stats"`
	Meta    jsonMeta             `json:"meta"`
}

// jsonStats represents run statistics in JSON output.
type jsonStats struct {
	DirsWalked    int64  `json:"dirs_walked"`
	FilesHashed   int64  `json:"files_hashed"`
	FilesExcluded int64  `json:"files_excluded"`
	BytesHashed   int64  `json:"bytes_hashed"`
	Duration      string `json:"duration"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Source    string            `json:"source"`
	Algorithm string            `json:"algorithm"`
	Warnings  []types.HashError `json:"warnings,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object with
// records, stats, and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	out := jsonOutput{
		Records: r.Records,
		Stats: jsonStats{
			DirsWalked:    r.Stats.DirsWalked,
			FilesHashed:   r.Stats.FilesHashed,
			FilesExcluded: r.Stats.FilesExcluded,
			BytesHashed:   r.Stats.BytesHashed,
			Duration:      formatDurationString(r.Stats.Elapsed),
		},
		Meta: jsonMeta{
			Source:    r.Source,
			Algorithm: r.Algorithm,
			Warnings:  r.Warnings,
		},
	}
	if out.Records == nil {
		out.Records = []types.DigestRecord{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// formatDurationString formats a duration as a string for JSON output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
