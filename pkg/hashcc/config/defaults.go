// Package config provides configuration management for the hashcc CLI.
package config

// Default configuration values for hashcc.
const (
	// DefaultAlgorithm is the digest algorithm used when none is selected.
	DefaultAlgorithm = "sha256"

	// DefaultFormat is the default output format.
	DefaultFormat = "text"

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/hashcc"

	// DefaultWorkers is the hashing worker count; 0 means tune from
	// detected system resources.
	DefaultWorkers = 0
)

// DefaultExclusions contains glob patterns excluded from hashing by default.
var DefaultExclusions = []string{}
