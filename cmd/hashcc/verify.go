package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashcc/pkg/hashcc/digest"
	"github.com/jamesainslie/hashcc/pkg/hashcc/manifest"
	"github.com/jamesainslie/hashcc/pkg/hashcc/verify"
)

var verifyCmd = &cobra.Command{
	Use:     "verify <manifest>",
	Aliases: []string{"ver", "check"},
	Short:   "Verify files against a digest manifest",
	Long: `Verify re-hashes every file named in the manifest and compares it to
the recorded digest. Every record is processed even when earlier ones
fail. The exit code is 0 only when every record matched.

Relative record paths resolve against --base-dir when set, and any
resolved path that escapes the base directory is rejected without
being read. Absolute paths are rejected unless --allow-absolute is
given.

Examples:
  hashcc verify SHA256SUMS
  hashcc verify -C /srv/release SHA256SUMS
  hashcc verify -a blake3 --manifest-format csv digests.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringP("base-dir", "C", "", "resolve relative paths against this directory and confine records to it")
	verifyCmd.Flags().Bool("allow-absolute", false, "permit absolute paths in manifest records")
	verifyCmd.Flags().String("manifest-format", "sumfile", "manifest format: sumfile, csv")

	rootCmd.AddCommand(verifyCmd)
}

// runVerify is the verify command handler.
func runVerify(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	algoName := viper.GetString("algorithm")
	algo, err := digest.ParseAlgorithm(algoName)
	if err != nil {
		return exitWithCode(exitUsage, "unknown algorithm %q: available algorithms are %v", algoName, digest.Names())
	}

	formatName, _ := cmd.Flags().GetString("manifest-format")
	format, err := manifest.ParseFormat(formatName)
	if err != nil {
		return exitWithCode(exitUsage, "%v", err)
	}

	baseDir, _ := cmd.Flags().GetString("base-dir")
	allowAbsolute, _ := cmd.Flags().GetBool("allow-absolute")

	opts := verify.Options{
		Algorithm:     algo,
		Format:        format,
		BaseDir:       baseDir,
		AllowAbsolute: allowAbsolute,
		AllowWeak:     viper.GetBool("allow_weak"),
	}

	summary, err := verify.File(manifestPath, opts)
	if err != nil {
		if errors.Is(err, digest.ErrWeakAlgorithm) {
			return exitWithCode(exitUsage, "%v", err)
		}
		return fmt.Errorf("verification failed: %w", err)
	}

	reportOutcomes(summary)

	printInfo("ok=%d failed=%d missing=%d invalid-path=%d errors=%d",
		summary.OK, summary.Failed, summary.Missing, summary.InvalidPath, summary.Errors)

	if !summary.Clean() {
		return exitSilent(exitFailure)
	}
	return nil
}

// reportOutcomes prints one line per record. With --quiet only
// non-matching records are shown, like md5sum's --quiet.
func reportOutcomes(summary *verify.Summary) {
	for _, outcome := range summary.Diagnostics {
		if outcome.Kind == verify.Matched {
			if !getQuiet() {
				fmt.Printf("%s: %s\n", outcome.Path, outcome.Kind)
			}
			continue
		}
		if outcome.Detail != "" {
			fmt.Printf("%s: %s (%s)\n", outcome.Path, outcome.Kind, outcome.Detail)
			continue
		}
		fmt.Printf("%s: %s\n", outcome.Path, outcome.Kind)
	}
}
