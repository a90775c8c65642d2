package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := New(path, true)
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}
	logger.Debug("like confirmed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"like confirmed"`) {
		t.Fatalf("expected debug entry in log: %s", data)
	}
}

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(path, false)
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log contents: %s", data)
	}
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New("", false)
	if err != nil || logger == nil {
		t.Fatalf("expected nop logger, got %v %v", logger, err)
	}
	logger.Info("discarded")
}
