package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashcc/pkg/hashcc/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "hashcc",
		Short: "Hash files and directory trees, compare and verify digests",
		Long: `Hashcc computes cryptographic digests of files and directory trees,
compares a file against an expected digest, and verifies manifests of
previously recorded digests.

Examples:
  hashcc generate .                        # Hash current tree with sha256
  hashcc generate -a blake3 ~/data         # Hash with blake3
  hashcc generate . -o SHA256SUMS          # Write a sumfile manifest
  cat file | hashcc generate -             # Hash stdin, print bare hex
  hashcc compare <hex> file.iso            # Compare file against a digest
  hashcc verify SHA256SUMS                 # Verify a manifest
  hashcc config show                       # Show configuration`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initializeLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/hashcc/config.yaml)")
	rootCmd.PersistentFlags().StringP("algo", "a", "", "digest algorithm: md5, sha1, sha256, sha512, blake3")
	rootCmd.PersistentFlags().Bool("allow-weak", false, "permit weak algorithms (md5, sha1)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output on stderr")

	// Bind flags to viper
	_ = viper.BindPFlag("algorithm", rootCmd.PersistentFlags().Lookup("algo"))
	_ = viper.BindPFlag("allow_weak", rootCmd.PersistentFlags().Lookup("allow-weak"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "hashcc"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "hashcc"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("HASHCC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("algorithm", config.DefaultAlgorithm)
	viper.SetDefault("format", config.DefaultFormat)
	viper.SetDefault("exclude", config.DefaultExclusions)
	viper.SetDefault("workers", config.DefaultWorkers)
	viper.SetDefault("allow_weak", false)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
