package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	sourceLabel := LabelStyle.Render("Source:")
	sourceValue := ValueStyle.Render(r.Source)
	lines = append(lines, fmt.Sprintf("%s %s", sourceLabel, sourceValue))

	var infoParts []string

	algoLabel := LabelStyle.Render("Algorithm:")
	algoValue := ValueStyle.Render(r.Algorithm)
	infoParts = append(infoParts, fmt.Sprintf("%s %s", algoLabel, algoValue))

	hashedLabel := LabelStyle.Render("Hashed:")
	hashedValue := ValueStyle.Render(fmt.Sprintf("%d files in %s",
		r.Stats.FilesHashed, formatDuration(r.Stats.Elapsed)))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", hashedLabel, hashedValue))

	if r.Stats.FilesExcluded > 0 {
		excludedValue := MutedStyle.Render(fmt.Sprintf("%d excluded", r.Stats.FilesExcluded))
		infoParts = append(infoParts, excludedValue)
	}

	lines = append(lines, strings.Join(infoParts, "  "))

	content := strings.Join(lines, "\n")
	return HeaderBox.Render(content)
}

// formatTable builds the record table with HASH and PATH columns.
func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Records) == 0 {
		return MutedStyle.Render("  No files hashed\n")
	}

	var sb strings.Builder

	hashWidth := len(r.Records[0].Hash)
	hashHeader := TableHeaderStyle.Render(padRight("HASH", hashWidth))
	pathHeader := TableHeaderStyle.Render("PATH")
	sb.WriteString(fmt.Sprintf("  %s  %s\n", hashHeader, pathHeader))

	for _, rec := range r.Records {
		hashStr := HashStyle.Render(rec.Hash)
		pathStr := PathStyle.Render(rec.Path)
		sb.WriteString(fmt.Sprintf("  %s  %s\n", hashStr, pathStr))
	}

	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	fileCountLabel := LabelStyle.Render("Files:")
	fileCountValue := ValueStyle.Render(fmt.Sprintf("%d", len(r.Records)))
	parts = append(parts, fmt.Sprintf("%s %s", fileCountLabel, fileCountValue))

	totalLabel := LabelStyle.Render("Total:")
	totalValue := SuccessStyle.Render(types.FormatSize(r.Stats.BytesHashed))
	parts = append(parts, fmt.Sprintf("%s %s", totalLabel, totalValue))

	if len(r.Warnings) > 0 {
		warnValue := WarningStyle.Render(fmt.Sprintf("%d warnings", len(r.Warnings)))
		parts = append(parts, warnValue)
	}

	content := strings.Join(parts, "  ")
	return FooterBox.Render(content)
}

// formatWarnings builds a warning block listing per-path failures.
func (f *PrettyFormatter) formatWarnings(warnings []types.HashError) string {
	var sb strings.Builder

	titleStyle := WarningStyle.Bold(true)
	sb.WriteString(titleStyle.Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		line := fmt.Sprintf("  %s: %s", warning.Path, warning.Error)
		sb.WriteString(WarningStyle.Render(line))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padRight pads a string with spaces on the right to achieve the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration formats a time.Duration as a human-friendly string.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
