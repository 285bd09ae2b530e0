// Package verify re-hashes the files named in a manifest and compares
// them against their expected digests. Every record is processed even
// when earlier ones fail; outcomes are tallied into a Summary and the
// run is clean only if nothing but matches were seen.
//
// Paths are checked before any file is opened: absolute paths are
// rejected unless explicitly allowed, and when a base directory is
// supplied, resolved paths that escape it after canonicalization are
// rejected without ever being read.
package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/hashcc/pkg/hashcc/digest"
	"github.com/jamesainslie/hashcc/pkg/hashcc/logging"
	"github.com/jamesainslie/hashcc/pkg/hashcc/manifest"
	"github.com/jamesainslie/hashcc/pkg/hashcc/reader"
	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
)

// logger is the package-level logger for verification.
var logger = logging.Get("verify")

// OutcomeKind classifies the result of verifying one record.
type OutcomeKind int

// Verification outcomes.
const (
	// Matched means the file hashed to the expected digest.
	Matched OutcomeKind = iota

	// Mismatched means the file exists but its digest differs.
	Mismatched

	// Missing means the resolved path does not exist.
	Missing

	// InvalidPath means the record's path violated policy: absolute
	// without opt-in, or escaping the base directory.
	InvalidPath

	// Error means the record could not be parsed, the base directory
	// is broken, or hashing failed with an I/O error.
	Error
)

// String returns a short label for the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case Matched:
		return "ok"
	case Mismatched:
		return "failed"
	case Missing:
		return "missing"
	case InvalidPath:
		return "invalid-path"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is a per-record diagnostic.
type Outcome struct {
	// Path is the record's path, resolved when resolution succeeded.
	Path string

	// Kind classifies the result.
	Kind OutcomeKind

	// Detail carries the error text for Error and InvalidPath outcomes.
	Detail string
}

// Summary aggregates outcomes over a whole manifest.
type Summary struct {
	OK          int
	Failed      int
	Missing     int
	InvalidPath int
	Errors      int

	// Diagnostics holds one entry per processed record, in input order.
	Diagnostics []Outcome
}

// Clean reports whether the run had no outcome other than matches.
// Callers signal failure (nonzero exit) when the summary is not clean.
func (s *Summary) Clean() bool {
	return s.Failed == 0 && s.Missing == 0 && s.InvalidPath == 0 && s.Errors == 0
}

// Options configures a verification run. Everything is passed
// explicitly; the verifier holds no process-wide state.
type Options struct {
	// Algorithm is the digest algorithm the manifest was written with.
	Algorithm digest.Algorithm

	// Format selects the manifest encoding.
	Format manifest.Format

	// BaseDir, when set, anchors relative record paths and confines
	// all resolved paths to itself.
	BaseDir string

	// AllowAbsolute permits absolute paths in records.
	AllowAbsolute bool

	// AllowWeak unlocks MD5 and SHA-1.
	AllowWeak bool
}

// File verifies the manifest at path. An unreadable manifest and a
// rejected weak algorithm are fatal; everything per-record is not.
func File(path string, opts Options) (*Summary, error) {
	if err := digest.Check(opts.Algorithm, opts.AllowWeak); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	records, lineErrs, err := manifest.Read(f, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	return Records(records, lineErrs, opts)
}

// Records runs the verification state machine over already-parsed
// records. Parse failures from the manifest layer are folded into the
// error count so they are reported, not lost.
func Records(records []types.DigestRecord, lineErrs []manifest.LineError, opts Options) (*Summary, error) {
	if err := digest.Check(opts.Algorithm, opts.AllowWeak); err != nil {
		return nil, err
	}

	sum := &Summary{}
	for _, le := range lineErrs {
		sum.Errors++
		sum.Diagnostics = append(sum.Diagnostics, Outcome{
			Path:   fmt.Sprintf("line %d", le.Line),
			Kind:   Error,
			Detail: le.Message,
		})
	}

	for _, rec := range records {
		sum.add(verifyRecord(rec, opts))
	}
	return sum, nil
}

// add tallies one outcome into the summary.
func (s *Summary) add(o Outcome) {
	switch o.Kind {
	case Matched:
		s.OK++
	case Mismatched:
		s.Failed++
	case Missing:
		s.Missing++
	case InvalidPath:
		s.InvalidPath++
	case Error:
		s.Errors++
	}
	s.Diagnostics = append(s.Diagnostics, o)
}

// verifyRecord runs the per-record state machine.
func verifyRecord(rec types.DigestRecord, opts Options) Outcome {
	raw := rec.Path

	if filepath.IsAbs(raw) && !opts.AllowAbsolute {
		logger.Warn("absolute path not allowed", "path", raw)
		return Outcome{Path: raw, Kind: InvalidPath, Detail: "absolute path not allowed"}
	}

	resolved := raw
	if opts.BaseDir != "" && !filepath.IsAbs(raw) {
		resolved = filepath.Join(opts.BaseDir, raw)
	}

	if opts.BaseDir != "" {
		outcome, reject := checkEscape(opts.BaseDir, resolved)
		if reject {
			return outcome
		}
	}

	if _, err := os.Stat(resolved); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("missing file", "path", resolved)
			return Outcome{Path: resolved, Kind: Missing}
		}
		return Outcome{Path: resolved, Kind: Error, Detail: err.Error()}
	}

	actual, _, err := reader.HashFile(resolved, opts.Algorithm)
	if err != nil {
		logger.Warn("hash failed", "path", resolved, "error", err)
		return Outcome{Path: resolved, Kind: Error, Detail: err.Error()}
	}

	if digest.Equal(actual, rec.Hash) {
		return Outcome{Path: resolved, Kind: Matched}
	}
	logger.Debug("digest mismatch", "path", resolved)
	return Outcome{Path: resolved, Kind: Mismatched}
}

// checkEscape rejects resolved paths that fall outside the canonical
// base directory. A base that cannot be canonicalized is a hard error
// for the record: the check must not be silently skipped. A resolved
// path that cannot be canonicalized (typically nonexistent) falls
// through to the existence check.
func checkEscape(baseDir, resolved string) (Outcome, bool) {
	baseCan, err := canonicalize(baseDir)
	if err != nil {
		logger.Error("cannot canonicalize base dir", "dir", baseDir, "error", err)
		return Outcome{Path: resolved, Kind: Error, Detail: fmt.Sprintf("cannot canonicalize base dir %s: %v", baseDir, err)}, true
	}

	resCan, err := canonicalize(resolved)
	if err != nil {
		return Outcome{}, false
	}

	if !within(baseCan, resCan) {
		logger.Warn("path escapes base dir", "path", resolved, "base", baseDir)
		return Outcome{Path: resolved, Kind: InvalidPath, Detail: "path escapes base dir"}, true
	}
	return Outcome{}, false
}

// canonicalize returns the absolute path with all symlinks resolved.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// within reports whether path lies inside dir (or is dir itself),
// comparing whole path components.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
