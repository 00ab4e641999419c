package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chosenoffset.com/plaza/internal/config"
)

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	cfg := config.Default().Log
	cfg.File = path
	cfg.Console = false
	cfg.Format = "json"

	logger, cleanup, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("joined")
	logger.Debug("hidden at info level")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"joined"`) {
		t.Errorf("Expected json entry for 'joined', got %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("Expected debug entry to be filtered")
	}
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	cfg := config.LogConfig{Level: "bogus"}
	logger, cleanup, err := New(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer cleanup()
	logger.Info("discarded")
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Error("Expected a logger for nil input")
	}
}
