// Package reader turns files into digests. It prefers a zero-copy
// memory mapping of the file and falls back to buffered sequential
// reads when mapping is not possible (empty files, special files,
// platform restrictions). Both paths feed identical bytes into the
// digest engine.
package reader

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"

	"github.com/opencoff/go-mmap"

	"github.com/jamesainslie/hashcc/pkg/hashcc/digest"
)

// HashFile computes the digest of the file at path with the given
// algorithm. It returns the lowercase hex digest and the number of
// bytes hashed. The file handle is released on every exit path.
func HashFile(path string, a digest.Algorithm) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", 0, err
	}

	// Mapping only makes sense for regular files with nonzero size;
	// everything else goes straight to the streaming path.
	if info.Mode().IsRegular() && info.Size() > 0 {
		h := digest.New(a)
		sz, merr := mmap.Reader(f, func(b []byte) error {
			_, werr := h.Write(b)
			return werr
		})
		if merr == nil {
			return hex.EncodeToString(h.Sum(nil)), sz, nil
		}
		// Mapping failed. Rewind and stream; the fallback hashes the
		// same bytes, it is not an approximation.
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", 0, err
		}
	}

	sum, err := digest.SumReader(bufio.NewReaderSize(f, digest.ChunkSize), a)
	if err != nil {
		return "", 0, err
	}
	return sum, info.Size(), nil
}
