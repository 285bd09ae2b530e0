package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jamesainslie/hashcc/pkg/hashcc/logging"
)

// TestInit tests the Init function with various configurations.
// Note: This test cannot run in parallel with other tests that use global state.
func TestInit(t *testing.T) {
	validDir := t.TempDir()
	debugDir := t.TempDir()
	componentsDir := t.TempDir()
	invalidDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name: "valid config with defaults",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(validDir, "test.log"),
			},
			wantErr: false,
		},
		{
			name: "valid config with debug level",
			cfg: logging.Config{
				Level: "debug",
				Path:  filepath.Join(debugDir, "debug.log"),
			},
			wantErr: false,
		},
		{
			name: "valid config with component overrides",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(componentsDir, "components.log"),
				Components: map[string]string{
					"walker": "debug",
					"verify": "warn",
				},
			},
			wantErr: false,
		},
		{
			name: "invalid log level",
			cfg: logging.Config{
				Level: "invalid",
				Path:  filepath.Join(invalidDir, "invalid.log"),
			},
			wantErr: true,
		},
		{
			name: "invalid component level",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(invalidDir, "comp.log"),
				Components: map[string]string{
					"walker": "loud",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Note: No t.Parallel() - these tests modify global state

			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err == nil {
				if closeErr := logging.Close(); closeErr != nil {
					t.Errorf("Close() error = %v", closeErr)
				}
			}
		})
	}
}

func TestGetBeforeInit(t *testing.T) {
	// Loggers obtained before Init must be usable (and silent).
	logger := logging.Get("early")
	if logger == nil {
		t.Fatal("Get() returned nil before Init")
	}
	logger.Info("dropped message")
}

func TestLoggerWritesToFile(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "write.log")

	cfg := logging.Config{
		Level: "debug",
		Path:  logPath,
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("test")
	logger.Info("test message", "key", "value")
	logger.Debug("debug message")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "test message") {
		t.Errorf("log file does not contain expected message, got: %s", content)
	}
}

func TestLogLevels(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "levels.log")

	cfg := logging.Config{
		Level: "warn",
		Path:  logPath,
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("test")
	logger.Debug("debug should not appear")
	logger.Info("info should not appear")
	logger.Warn("warn should appear")
	logger.Error("error should appear")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	logContent := string(content)

	if strings.Contains(logContent, "debug should not appear") {
		t.Error("debug message should not appear when level is warn")
	}
	if strings.Contains(logContent, "info should not appear") {
		t.Error("info message should not appear when level is warn")
	}
	if !strings.Contains(logContent, "warn should appear") {
		t.Error("warn message should appear when level is warn")
	}
	if !strings.Contains(logContent, "error should appear") {
		t.Error("error message should appear when level is warn")
	}
}

func TestComponentLevelOverride(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "component.log")

	cfg := logging.Config{
		Level: "error",
		Path:  logPath,
		Components: map[string]string{
			"verbose": "debug",
		},
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	normalLogger := logging.Get("normal")
	verboseLogger := logging.Get("verbose")

	normalLogger.Info("normal info should not appear")
	verboseLogger.Info("verbose info should appear")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	logContent := string(content)

	if strings.Contains(logContent, "normal info should not appear") {
		t.Error("normal info message should not appear when default level is error")
	}
	if !strings.Contains(logContent, "verbose info should appear") {
		t.Error("verbose info message should appear when component level is debug")
	}
}

func TestConcurrentWrites(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "concurrent.log")

	cfg := logging.Config{
		Level: "debug",
		Path:  logPath,
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	const numGoroutines = 10
	const numMessages = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			logger := logging.Get("concurrent")
			for j := 0; j < numMessages; j++ {
				logger.Info("message", "goroutine", id, "index", j)
			}
		}(i)
	}

	wg.Wait()

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	// Count lines (each message should be on its own line)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	expectedMessages := numGoroutines * numMessages
	if len(lines) != expectedMessages {
		t.Errorf("expected %d log lines, got %d", expectedMessages, len(lines))
	}
}

func TestWith(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "with.log")

	if err := logging.Init(logging.Config{Level: "info", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("ctx").With("run", "abc123")
	logger.Info("contextual message")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "abc123") {
		t.Errorf("log file does not contain bound field, got: %s", content)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	path := logging.DefaultLogPath()
	if path == "" {
		t.Error("DefaultLogPath() returned empty string")
	}
	if !strings.Contains(path, "hashcc") {
		t.Errorf("DefaultLogPath() should contain 'hashcc', got: %s", path)
	}
	if !strings.HasSuffix(path, "hashcc.log") {
		t.Errorf("DefaultLogPath() should end with 'hashcc.log', got: %s", path)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		want    logging.Level
		wantErr bool
	}{
		{"debug level", "debug", logging.LevelDebug, false},
		{"info level", "info", logging.LevelInfo, false},
		{"warn level", "warn", logging.LevelWarn, false},
		{"warning alias", "warning", logging.LevelWarn, false},
		{"error level", "error", logging.LevelError, false},
		{"DEBUG uppercase", "DEBUG", logging.LevelDebug, false},
		{"Info mixed case", "Info", logging.LevelInfo, false},
		{"invalid level", "invalid", logging.LevelInfo, true},
		{"empty level", "", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := logging.ParseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level logging.Level
		want  string
	}{
		{logging.LevelDebug, "debug"},
		{logging.LevelInfo, "info"},
		{logging.LevelWarn, "warn"},
		{logging.LevelError, "error"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
