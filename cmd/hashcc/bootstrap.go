package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/hashcc/pkg/hashcc/config"
	"github.com/jamesainslie/hashcc/pkg/hashcc/logging"
)

// defaultRotationMaxSize is used when the configured max_size is empty
// or unparseable.
const defaultRotationMaxSize = 10 * 1024 * 1024

// initializeLogging is the PersistentPreRunE hook. It ensures the XDG
// directories exist and initializes file logging from the loaded
// configuration. With --verbose, debug logs also go to stderr.
func initializeLogging(_ *cobra.Command, _ []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}
	if err := config.EnsureStateDir(); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	return nil
}

// parseRotationConfig converts the config representation of rotation
// settings into the logging package's representation.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize := int64(defaultRotationMaxSize)
	if rc.MaxSize != "" {
		if parsed, err := humanize.ParseBytes(rc.MaxSize); err == nil {
			maxSize = int64(parsed)
		}
	}

	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
	}
}
