package digest

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_KnownVectors(t *testing.T) {
	tests := []struct {
		algo     Algorithm
		input    string
		expected string
	}{
		{MD5, "hello", "5d41402abc4b2a76b9719d911017c592"},
		{SHA1, "hello", "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{SHA256, "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{SHA512, "hello", "9b71d224bd62f3785d96d46ad3ea3d73319bfbc2890caadae2dff72519673ca72323c3d99ba5c11d7c7acc6e14b8c5da0c4663475c2e5c3adef46f73bcdec043"},
		{BLAKE3, "hello", "ea8f163db38682925e4491c5e58d4bb3506ef8c14eb78a86e908c5624a67200f"},
		{MD5, "", "d41d8cd98f00b204e9800998ecf8427e"},
		{SHA256, "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}

	for _, tt := range tests {
		t.Run(tt.algo.String()+"/"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sum([]byte(tt.input), tt.algo))
		})
	}
}

func TestSumReader_MatchesSum(t *testing.T) {
	// Streamed and buffered paths must be byte-identical for every
	// algorithm, including inputs that span multiple chunks.
	sizes := []int{0, 1, 1024, ChunkSize, ChunkSize + 1, 3*ChunkSize + 17}

	for _, size := range sizes {
		data := make([]byte, size)
		_, err := rand.Read(data)
		require.NoError(t, err)

		for _, algo := range Algorithms() {
			buffered := Sum(data, algo)
			streamed, err := SumReader(bytes.NewReader(data), algo)
			require.NoError(t, err)
			assert.Equal(t, buffered, streamed, "algo %s size %d", algo, size)
		}
	}
}

func TestSum_HexWidth(t *testing.T) {
	data := []byte("width check")
	for _, algo := range Algorithms() {
		sum := Sum(data, algo)
		assert.Len(t, sum, algo.HexLen(), "algo %s", algo)
		assert.Equal(t, strings.ToLower(sum), sum, "digest must be lowercase hex")
	}
}

func TestHexLen(t *testing.T) {
	assert.Equal(t, 32, MD5.HexLen())
	assert.Equal(t, 40, SHA1.HexLen())
	assert.Equal(t, 64, SHA256.HexLen())
	assert.Equal(t, 128, SHA512.HexLen())
	assert.Equal(t, 64, BLAKE3.HexLen())
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input    string
		expected Algorithm
		wantErr  bool
	}{
		{"md5", MD5, false},
		{"MD5", MD5, false},
		{"sha1", SHA1, false},
		{"SHA-1", SHA1, false},
		{"sha256", SHA256, false},
		{"sha-256", SHA256, false},
		{" sha512 ", SHA512, false},
		{"blake3", BLAKE3, false},
		{"BLAKE-3", BLAKE3, false},
		{"sha3", 0, true},
		{"", 0, true},
		{"crc32", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			algo, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, algo)
		})
	}
}

func TestWeak(t *testing.T) {
	assert.True(t, MD5.Weak())
	assert.True(t, SHA1.Weak())
	assert.False(t, SHA256.Weak())
	assert.False(t, SHA512.Weak())
	assert.False(t, BLAKE3.Weak())
}

func TestCheck_WeakGate(t *testing.T) {
	// Weak algorithms require the explicit opt-in.
	assert.ErrorIs(t, Check(MD5, false), ErrWeakAlgorithm)
	assert.ErrorIs(t, Check(SHA1, false), ErrWeakAlgorithm)
	assert.NoError(t, Check(MD5, true))
	assert.NoError(t, Check(SHA1, true))

	// Strong algorithms pass either way.
	assert.NoError(t, Check(SHA256, false))
	assert.NoError(t, Check(BLAKE3, false))
}

func TestEqual(t *testing.T) {
	a := Sum([]byte("payload"), SHA256)

	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, Sum([]byte("payload2"), SHA256)))
	assert.False(t, Equal(a, a[:len(a)-1]), "length mismatch must not match")
	assert.False(t, Equal("", a))
	assert.True(t, Equal("", ""))

	// A single flipped nibble anywhere must fail.
	flipped := []byte(a)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	assert.False(t, Equal(a, string(flipped)))
}

func TestValidHex(t *testing.T) {
	assert.True(t, ValidHex("0123456789abcdef"))
	assert.True(t, ValidHex("ABCDEF"))
	assert.False(t, ValidHex(""))
	assert.False(t, ValidHex("xyz"))
	assert.False(t, ValidHex("deadbeef "))
	assert.False(t, ValidHex("dead-beef"))
}

func TestCheckHex(t *testing.T) {
	good := Sum([]byte("x"), SHA256)
	assert.NoError(t, CheckHex(SHA256, good))

	assert.Error(t, CheckHex(SHA256, good[:63]), "short digest")
	assert.Error(t, CheckHex(SHA256, good+"0"), "long digest")
	assert.Error(t, CheckHex(SHA256, strings.Repeat("z", 64)), "non-hex digest")
	assert.Error(t, CheckHex(MD5, good), "width of the wrong algorithm")
}

func TestNew_MatchesSum(t *testing.T) {
	data := []byte("incremental")
	for _, algo := range Algorithms() {
		h := New(algo)
		_, err := h.Write(data)
		require.NoError(t, err)
		assert.Len(t, h.Sum(nil), algo.HexLen()/2)
	}
}
