package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{}

	require.NoError(t, f.Format(&buf, sampleResult()))
	assert.Equal(t, "aaa111  a.txt\nbbb222  dir/b.txt\n", buf.String())
}

func TestTextFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{}

	require.NoError(t, f.Format(&buf, &Result{}))
	assert.Empty(t, buf.String())
}

func TestTextFormatter_RegisteredUnderBothNames(t *testing.T) {
	for _, name := range []string{"text", "sumfile"} {
		formatter, err := Get(name)
		require.NoError(t, err)
		assert.IsType(t, &TextFormatter{}, formatter)
	}
}
