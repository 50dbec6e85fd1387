package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"annotate/internal/config"
)

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "annotate.log")
	logger, err := New(config.LoggingConfig{Level: "debug", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("selection changed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"selection changed"`) {
		t.Errorf("expected JSON entry, got %q", data)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotate.log")
	logger, err := New(config.LoggingConfig{Level: "warn", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("unexpected log content %q", data)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}
