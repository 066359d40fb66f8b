package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/config"
)

func TestNoSinkIsNop(t *testing.T) {
	l, err := New(config.LogConfig{Level: "debug"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zap.ErrorLevel) {
		t.Error("Expected a no-op logger without sinks")
	}
}

func TestExtraSinkJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("step changed", zap.Int("step", 2))
	_ = l.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "step changed" || entry["logger"] != "sv" || entry["step"] != float64(2) {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LogConfig{Level: "warn", Format: "console"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestBadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, nil); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sv.log")
	l, err := New(config.LogConfig{Level: "info", File: path, MaxSize: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("Expected message in file, got %q", data)
	}
}
