package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathDefaultDir(t *testing.T) {
	tempDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("get workdir failed: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalDir); err != nil {
			t.Fatalf("restore workdir failed: %v", err)
		}
	})

	logFilePath, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve log file path failed: %v", err)
	}

	resolvedTempDir, err := filepath.EvalSymlinks(tempDir)
	if err != nil {
		t.Fatalf("resolve temp dir failed: %v", err)
	}
	resolvedLogFilePath, err := filepath.EvalSymlinks(logFilePath)
	if err != nil {
		t.Fatalf("resolve log file path symlinks failed: %v", err)
	}

	expected := filepath.Join(resolvedTempDir, defaultLogDirName, defaultLogFilename)
	if resolvedLogFilePath != expected {
		t.Fatalf("expected %s, got %s", expected, resolvedLogFilePath)
	}
	if _, err := os.Stat(resolvedLogFilePath); err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
}

func TestResolveLogFilePathCustomOptions(t *testing.T) {
	tempDir := t.TempDir()

	logFilePath, err := resolveLogFilePath(Options{
		Dir:      filepath.Join(tempDir, "custom"),
		Filename: "app.log",
	})
	if err != nil {
		t.Fatalf("resolve log file path failed: %v", err)
	}
	if filepath.Base(logFilePath) != "app.log" {
		t.Fatalf("expected app.log, got %s", logFilePath)
	}
	if _, err := os.Stat(logFilePath); err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
}

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tempDir := t.TempDir()

	log := New("release", Options{
		Dir:      tempDir,
		Filename: "release.log",
	})
	if log == nil {
		t.Fatalf("expected logger instance")
	}
	log.Sugar().Infow("release_log_check", "key", "value")
	if err := log.Sync(); err != nil {
		t.Logf("sync returned: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, "release.log"))
	if err != nil {
		t.Fatalf("read log file failed: %v", err)
	}
	if !strings.Contains(string(content), "release_log_check") {
		t.Fatalf("log message missing from file: %s", string(content))
	}
}

func TestNormalizePositiveInt(t *testing.T) {
	if got := normalizePositiveInt(0, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := normalizePositiveInt(-1, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := normalizePositiveInt(3, 7); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
