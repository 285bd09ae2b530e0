// Package manifest reads and writes the persisted path→digest mappings
// used for later verification. Two formats are supported: a tabular
// CSV with a path,hash header, and the line-oriented "sumfile" format
// (`<hash><whitespace><path>`). Neither format embeds the algorithm;
// it is supplied out-of-band at verification time.
package manifest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
)

// Format selects a manifest encoding.
type Format string

// Supported manifest formats.
const (
	FormatSumfile Format = "sumfile"
	FormatCSV     Format = "csv"
)

// ErrUnknownFormat is returned when a format name cannot be parsed.
var ErrUnknownFormat = errors.New("unknown manifest format")

// ErrMalformedLine marks a record that could not be parsed. Malformed
// records are recorded, never fatal.
var ErrMalformedLine = errors.New("malformed manifest record")

// LineError records a single unparseable record.
type LineError struct {
	// Line is the 1-based record number in the manifest.
	Line int

	// Message describes the parse failure.
	Message string
}

// ParseFormat parses a manifest format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sumfile", "sum", "text":
		return FormatSumfile, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatSumfile, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseSumfileLine parses one sumfile record. Trailing whitespace is
// trimmed first; the first whitespace run splits hash from path, so
// paths with embedded (non-leading) whitespace survive verbatim.
// It returns ErrMalformedLine when either field is empty.
func ParseSumfileLine(line string) (types.DigestRecord, error) {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	split := strings.IndexFunc(trimmed, unicode.IsSpace)
	if split < 0 {
		return types.DigestRecord{}, fmt.Errorf("%w: %q", ErrMalformedLine, trimmed)
	}
	hash := strings.ToLower(trimmed[:split])
	path := strings.TrimLeftFunc(trimmed[split:], unicode.IsSpace)
	if hash == "" || path == "" {
		return types.DigestRecord{}, fmt.Errorf("%w: %q", ErrMalformedLine, trimmed)
	}
	return types.DigestRecord{Path: path, Hash: hash}, nil
}

// Read parses a whole manifest. Unparseable records are returned as
// LineErrors alongside the good records; only I/O failures on the
// source itself are returned as an error.
func Read(r io.Reader, f Format) ([]types.DigestRecord, []LineError, error) {
	switch f {
	case FormatSumfile:
		return readSumfile(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func readSumfile(r io.Reader) ([]types.DigestRecord, []LineError, error) {
	var (
		records  []types.DigestRecord
		lineErrs []LineError
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseSumfileLine(line)
		if err != nil {
			lineErrs = append(lineErrs, LineError{Line: lineNo, Message: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return records, lineErrs, nil
}

func readCSV(r io.Reader) ([]types.DigestRecord, []LineError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading manifest header: %w", err)
	}

	pathCol, hashCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "path":
			pathCol = i
		case "hash":
			hashCol = i
		}
	}
	if pathCol < 0 || hashCol < 0 {
		return nil, nil, fmt.Errorf("%w: header must contain path and hash columns", ErrMalformedLine)
	}

	var (
		records  []types.DigestRecord
		lineErrs []LineError
	)
	lineNo := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			lineErrs = append(lineErrs, LineError{Line: lineNo, Message: err.Error()})
			continue
		}
		path := row[pathCol]
		hash := strings.ToLower(row[hashCol])
		if path == "" || hash == "" {
			lineErrs = append(lineErrs, LineError{Line: lineNo, Message: ErrMalformedLine.Error()})
			continue
		}
		records = append(records, types.DigestRecord{Path: path, Hash: hash})
	}
	return records, lineErrs, nil
}

// Write serializes records in the given format. Sumfile records are
// written `hash  path` with two spaces, matching the text output.
func Write(w io.Writer, f Format, records []types.DigestRecord) error {
	switch f {
	case FormatSumfile:
		for _, rec := range records {
			if _, err := fmt.Fprintf(w, "%s  %s\n", rec.Hash, rec.Path); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"path", "hash"}); err != nil {
			return err
		}
		for _, rec := range records {
			if err := cw.Write([]string{rec.Path, rec.Hash}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
