package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/kitchen-stock/internal/config"
)

func TestInitWritesRotatingFile(t *testing.T) {
	previous := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(previous) })

	path := filepath.Join(t.TempDir(), "kitchen.log")
	logger, err := Init(config.LoggerConfig{Mode: "production", FileEnable: true, Filename: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zap.L().Info("serving committed", zap.Int("meal_id", 1))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log file to contain the entry")
	}
}

func TestInitReplacesGlobal(t *testing.T) {
	previous := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(previous) })

	logger, err := Init(config.LoggerConfig{Mode: "development"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zap.L() != logger {
		t.Fatal("expected global logger to be replaced")
	}
}
