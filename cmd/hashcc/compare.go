package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/hashcc/pkg/hashcc/digest"
	"github.com/jamesainslie/hashcc/pkg/hashcc/reader"
)

var compareCmd = &cobra.Command{
	Use:     "compare <expected-hex> <path>",
	Aliases: []string{"cmp"},
	Short:   "Compare a file against an expected digest",
	Long: `Compare hashes the file at path and checks it against the expected
hex digest using a constant-time comparison. Exits 0 on a match, 1 on
a mismatch, and 2 when the expected digest is malformed or the
algorithm is refused.

Examples:
  hashcc compare 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824 hello.txt
  hashcc compare -a md5 --allow-weak d41d8cd98f00b204e9800998ecf8427e empty.bin`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// runCompare is the compare command handler.
func runCompare(_ *cobra.Command, args []string) error {
	expected, path := strings.ToLower(args[0]), args[1]

	algo, err := resolveAlgorithm()
	if err != nil {
		return err
	}

	if err := digest.CheckHex(algo, expected); err != nil {
		return exitWithCode(exitUsage, "invalid expected digest: %v", err)
	}

	actual, size, err := reader.HashFile(path, algo)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}
	printVerbose("Hashed %s (%d bytes) with %s", path, size, algo)

	if digest.Equal(actual, expected) {
		printInfo("%s: OK", path)
		return nil
	}

	printInfo("%s: FAILED", path)
	printInfo("  expected: %s", expected)
	printInfo("  actual:   %s", actual)
	return exitSilent(exitFailure)
}
