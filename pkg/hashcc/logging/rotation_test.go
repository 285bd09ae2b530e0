package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriter_BasicWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	w, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}

	msg := []byte("hello log\n")
	n, err := w.Write(msg)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(msg) {
		t.Errorf("Write() wrote %d bytes, want %d", n, len(msg))
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if string(content) != "hello log\n" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestRotatingWriter_CreatesParentDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deep", "app.log")
	w, err := NewRotatingWriter(path, RotationConfig{})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent directory was not created: %v", err)
	}
}

func TestRotatingWriter_RotatesAtMaxSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 64})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 4; i++ {
		if _, err := w.Write(line); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}

	rotated := 0
	for _, entry := range entries {
		if entry.Name() != "app.log" && strings.HasPrefix(entry.Name(), "app.") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Error("expected at least one rotated file")
	}

	// The live file must be under the limit after rotation.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat live file: %v", err)
	}
	if info.Size() > 64 {
		t.Errorf("live file size %d exceeds MaxSize", info.Size())
	}
}

func TestRotatingWriter_AppendsToExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("previous\n"), 0o644); err != nil {
		t.Fatalf("seeding log file: %v", err)
	}

	w, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	if _, err := w.Write([]byte("current\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if string(content) != "previous\ncurrent\n" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestRotatingWriter_ZeroMaxSizeUsesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	w, err := NewRotatingWriter(path, RotationConfig{})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer w.Close()

	if w.cfg.MaxSize != DefaultRotationConfig().MaxSize {
		t.Errorf("MaxSize = %d, want default %d", w.cfg.MaxSize, DefaultRotationConfig().MaxSize)
	}
}

func TestRotatingWriter_CloseIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	w, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
