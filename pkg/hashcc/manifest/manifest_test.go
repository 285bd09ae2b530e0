package manifest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"sumfile", FormatSumfile, false},
		{"sum", FormatSumfile, false},
		{"text", FormatSumfile, false},
		{"SUMFILE", FormatSumfile, false},
		{"csv", FormatCSV, false},
		{" csv ", FormatCSV, false},
		{"yaml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestParseSumfileLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected types.DigestRecord
		wantErr  bool
	}{
		{
			name:     "two spaces",
			line:     "abc123  path/to/file",
			expected: types.DigestRecord{Path: "path/to/file", Hash: "abc123"},
		},
		{
			name:     "single space",
			line:     "abc123 file",
			expected: types.DigestRecord{Path: "file", Hash: "abc123"},
		},
		{
			name:     "tab separator",
			line:     "abc123\tfile",
			expected: types.DigestRecord{Path: "file", Hash: "abc123"},
		},
		{
			name:     "path with embedded spaces",
			line:     "abc123  my docs/annual report.txt",
			expected: types.DigestRecord{Path: "my docs/annual report.txt", Hash: "abc123"},
		},
		{
			name:     "trailing whitespace trimmed",
			line:     "abc123  file  \t ",
			expected: types.DigestRecord{Path: "file", Hash: "abc123"},
		},
		{
			name:     "uppercase hash lowercased",
			line:     "ABC123  file",
			expected: types.DigestRecord{Path: "file", Hash: "abc123"},
		},
		{
			name:    "no separator",
			line:    "abc123",
			wantErr: true,
		},
		{
			name:    "only whitespace after hash",
			line:    "abc123   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseSumfileLine(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rec)
		})
	}
}

func TestRead_Sumfile(t *testing.T) {
	input := strings.Join([]string{
		"aaa  one.txt",
		"",
		"   ",
		"bbb  two.txt",
		"malformed-no-path",
		"ccc  sub/three.txt",
	}, "\n")

	records, lineErrs, err := Read(strings.NewReader(input), FormatSumfile)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "one.txt", records[0].Path)
	assert.Equal(t, "two.txt", records[1].Path)
	assert.Equal(t, "sub/three.txt", records[2].Path)

	require.Len(t, lineErrs, 1)
	assert.Equal(t, 5, lineErrs[0].Line, "line numbers count blanks")
}

func TestRead_CSV(t *testing.T) {
	input := "path,hash\none.txt,AAA\ntwo.txt,bbb\n"

	records, lineErrs, err := Read(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, lineErrs)

	require.Len(t, records, 2)
	assert.Equal(t, types.DigestRecord{Path: "one.txt", Hash: "aaa"}, records[0])
	assert.Equal(t, types.DigestRecord{Path: "two.txt", Hash: "bbb"}, records[1])
}

func TestRead_CSVColumnOrder(t *testing.T) {
	// Columns are found by header name, not position.
	input := "hash,path\naaa,one.txt\n"

	records, _, err := Read(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.DigestRecord{Path: "one.txt", Hash: "aaa"}, records[0])
}

func TestRead_CSVMissingColumns(t *testing.T) {
	_, _, err := Read(strings.NewReader("file,digest\na,b\n"), FormatCSV)
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestRead_CSVEmptyFields(t *testing.T) {
	input := "path,hash\n,aaa\ntwo.txt,\nthree.txt,ccc\n"

	records, lineErrs, err := Read(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Len(t, lineErrs, 2)
}

func TestRead_CSVEmptyInput(t *testing.T) {
	records, lineErrs, err := Read(strings.NewReader(""), FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, lineErrs)
}

func TestRead_UnknownFormat(t *testing.T) {
	_, _, err := Read(strings.NewReader(""), Format("yaml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWrite_Sumfile(t *testing.T) {
	records := []types.DigestRecord{
		{Path: "one.txt", Hash: "aaa"},
		{Path: "dir/two bytes.txt", Hash: "bbb"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatSumfile, records))
	assert.Equal(t, "aaa  one.txt\nbbb  dir/two bytes.txt\n", buf.String())
}

func TestWrite_CSVRoundTrip(t *testing.T) {
	records := []types.DigestRecord{
		{Path: "one.txt", Hash: "aaa"},
		{Path: "path,with,commas.txt", Hash: "bbb"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, records))

	parsed, lineErrs, err := Read(&buf, FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, lineErrs)
	assert.Equal(t, records, parsed)
}

func TestWrite_SumfileRoundTrip(t *testing.T) {
	records := []types.DigestRecord{
		{Path: "a.txt", Hash: "0011"},
		{Path: "dir/with space.txt", Hash: "2233"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatSumfile, records))

	parsed, lineErrs, err := Read(&buf, FormatSumfile)
	require.NoError(t, err)
	assert.Empty(t, lineErrs)
	assert.Equal(t, records, parsed)
}
