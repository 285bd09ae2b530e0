package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashcc/pkg/hashcc/config"
	"github.com/jamesainslie/hashcc/pkg/hashcc/digest"
	"github.com/jamesainslie/hashcc/pkg/hashcc/exclude"
	"github.com/jamesainslie/hashcc/pkg/hashcc/hasher"
	"github.com/jamesainslie/hashcc/pkg/hashcc/output"
	"github.com/jamesainslie/hashcc/pkg/hashcc/tuner"
	"github.com/jamesainslie/hashcc/pkg/hashcc/types"
	"github.com/jamesainslie/hashcc/pkg/hashcc/walker"
)

var generateCmd = &cobra.Command{
	Use:     "generate [path]",
	Aliases: []string{"gen"},
	Short:   "Hash a file, a directory tree, or stdin",
	Long: `Generate computes digests for the given path. A directory is walked
in parallel and every regular file is hashed; output is sorted by path
so runs are reproducible. A single file yields one record. With no
path, or with "-", stdin is hashed and a single bare hex digest is
printed.

Examples:
  hashcc generate .
  hashcc generate -a blake3 -e '*.tmp' -e '.git/**' ~/data
  hashcc generate . -f csv -o digests.csv
  tar cf - src | hashcc generate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("format", "f", "", "output format: text, sumfile, json, csv, pretty")
	generateCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	generateCmd.Flags().StringSliceP("exclude", "e", nil, "glob patterns to exclude (can be repeated)")
	generateCmd.Flags().IntP("workers", "w", 0, "override worker count (0=auto)")
	generateCmd.Flags().Bool("follow-symlinks", false, "follow symlinked directories during the walk")

	_ = viper.BindPFlag("format", generateCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("exclude", generateCmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("workers", generateCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("follow_symlinks", generateCmd.Flags().Lookup("follow-symlinks"))

	rootCmd.AddCommand(generateCmd)
}

// runGenerate is the generate command handler.
func runGenerate(cmd *cobra.Command, args []string) error {
	algo, err := resolveAlgorithm()
	if err != nil {
		return err
	}

	target := "-"
	if len(args) > 0 {
		target = args[0]
	}

	// Stdin mode: hash the stream, print a single bare hex digest.
	if target == "-" {
		sum, err := digest.SumReader(bufio.NewReaderSize(os.Stdin, digest.ChunkSize), algo)
		if err != nil {
			return fmt.Errorf("hashing stdin: %w", err)
		}
		return writeOutput(cmd, sum+"\n")
	}

	expandedPath, err := config.ExpandPath(target)
	if err != nil {
		return fmt.Errorf("failed to expand path: %w", err)
	}
	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", absPath)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}

	exclusions, err := exclude.Compile(viper.GetStringSlice("exclude"))
	if err != nil {
		return exitWithCode(exitUsage, "%v", err)
	}

	formatter, outFormat, err := resolveFormatter()
	if err != nil {
		return err
	}

	workers := resolveWorkers()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		printVerbose("Interrupted, stopping")
		cancel()
	}()

	startTime := time.Now()

	w := walker.New(walker.Options{
		Exclude:        exclusions,
		FollowSymlinks: viper.GetBool("follow_symlinks"),
	})
	walkRes, err := w.Walk(ctx, absPath)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitSilent(exitFailure)
		}
		return fmt.Errorf("walk failed: %w", err)
	}

	printVerbose("Walked %d dirs, %d files to hash, %d excluded",
		walkRes.DirsWalked, len(walkRes.Items), walkRes.FilesExcluded)

	hashRes, err := hasher.Run(ctx, walkRes.Items, algo, workers)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitSilent(exitFailure)
		}
		return fmt.Errorf("hashing failed: %w", err)
	}

	warnings := append(walkRes.Errors, hashRes.Errors...)

	result := &output.Result{
		Records: hashRes.Records,
		Stats: types.RunStats{
			DirsWalked:    walkRes.DirsWalked,
			FilesHashed:   int64(len(hashRes.Records)),
			FilesExcluded: walkRes.FilesExcluded,
			BytesHashed:   hashRes.BytesHashed,
			Elapsed:       time.Since(startTime),
		},
		Source:    absPath,
		Algorithm: algo.String(),
		Warnings:  warnings,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if err := writeOutput(cmd, buf.String()); err != nil {
		return err
	}

	// Plain formats carry no warning section, so surface failures on
	// stderr to keep stdout parseable.
	if outFormat != "pretty" {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", warning.Path, warning.Error)
		}
	}

	return nil
}

// resolveAlgorithm parses and gates the configured algorithm.
func resolveAlgorithm() (digest.Algorithm, error) {
	name := viper.GetString("algorithm")
	algo, err := digest.ParseAlgorithm(name)
	if err != nil {
		return 0, exitWithCode(exitUsage, "unknown algorithm %q: available algorithms are %v", name, digest.Names())
	}
	if err := digest.Check(algo, viper.GetBool("allow_weak")); err != nil {
		return 0, exitWithCode(exitUsage, "%v (use --allow-weak to override)", err)
	}
	return algo, nil
}

// resolveFormatter looks up the configured output formatter.
func resolveFormatter() (output.Formatter, string, error) {
	outFormat := viper.GetString("format")
	if outFormat == "" {
		outFormat = config.DefaultFormat
	}
	formatter, err := output.Get(outFormat)
	if err != nil {
		return nil, "", exitWithCode(exitUsage, "unknown output format %q: available formats are %v", outFormat, output.Available())
	}
	return formatter, outFormat, nil
}

// resolveWorkers derives the worker count from detected resources and
// the --workers override.
func resolveWorkers() int {
	override := viper.GetInt("workers")

	resources, err := tuner.Detect()
	if err != nil {
		printVerbose("Failed to detect system resources, using defaults: %v", err)
		resources = tuner.SystemResources{
			CPUCores:     4,
			TotalRAM:     8 * types.GiB,
			AvailableRAM: 4 * types.GiB,
		}
	}

	workers := tuner.WorkersWithOverride(resources, override)
	printVerbose("System: %d CPUs, %s RAM, %s available; %d workers",
		resources.CPUCores,
		types.FormatSize(resources.TotalRAM),
		types.FormatSize(resources.AvailableRAM),
		workers)
	return workers
}

// writeOutput writes s to the --output file when set, else stdout.
func writeOutput(cmd *cobra.Command, s string) error {
	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		fmt.Print(s)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(s), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	printVerbose("Wrote %s", outPath)
	return nil
}
