// Package types provides core data types for the hashcc hashing tool.
// It includes the digest record produced for every hashed file, the
// per-path error record used as the failure side channel, and run
// statistics shared between the hashing pipeline and output layers.
package types

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// DigestRecord pairs a file path with its computed digest.
// The hash is always lowercase hexadecimal at the fixed width of the
// algorithm that produced it. Records are immutable once created.
type DigestRecord struct {
	// Path is the file path as enumerated, absolute or root-relative.
	Path string `json:"path"`

	// Hash is the lowercase hex digest of the file contents.
	Hash string `json:"hash"`
}

// HashError records a per-path failure without aborting the run.
// Walk and hash failures are collected into these instead of being
// returned, so one unreadable file never loses the rest of the batch.
type HashError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error"`
}

// RunStats contains statistics about a hashing run.
type RunStats struct {
	// DirsWalked is the total number of directories traversed.
	DirsWalked int64 `json:"dirs_walked"`

	// FilesHashed is the number of files successfully hashed.
	FilesHashed int64 `json:"files_hashed"`

	// FilesExcluded is the number of files skipped by exclusion patterns.
	FilesExcluded int64 `json:"files_excluded"`

	// BytesHashed is the total bytes fed through the digest engine.
	BytesHashed int64 `json:"bytes_hashed"`

	// Elapsed is the total time taken to complete the run.
	Elapsed time.Duration `json:"elapsed"`
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units, consistent with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
