package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "sv version "+version) {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestInitConfigWritesLoadableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sv.yaml")
	if _, err := execute(t, "init-config", path); err != nil {
		t.Fatalf("init-config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	def := config.Default()
	if cfg.Sheet.Direction != def.Sheet.Direction || len(cfg.Sheet.StickyPoints) != len(def.Sheet.StickyPoints) {
		t.Errorf("Expected defaults round-tripped, got %+v", cfg.Sheet)
	}
	if cfg.Gesture.FlickDebounce != def.Gesture.FlickDebounce {
		t.Errorf("Expected debounce %v, got %v", def.Gesture.FlickDebounce, cfg.Gesture.FlickDebounce)
	}
}

func TestInitConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sv.yaml")
	if _, err := execute(t, "init-config", path); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "init-config", path); err == nil {
		t.Error("Expected second init-config to fail without --force")
	}
	if _, err := execute(t, "init-config", "--force", path); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}
}

func TestRootRejectsBadDirection(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")
	_, err := execute(t, "--config", missing)
	if err == nil {
		t.Fatal("Expected missing explicit config to fail")
	}

	path := filepath.Join(t.TempDir(), "sv.yaml")
	if _, err := execute(t, "init-config", path); err != nil {
		t.Fatal(err)
	}
	_, err = execute(t, "--config", path, "--direction", "sideways")
	if !errors.Is(err, config.ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}

func TestRootNeedsTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sv.yaml")
	if _, err := execute(t, "init-config", path); err != nil {
		t.Fatal(err)
	}
	// go test never runs with a terminal on stdout.
	_, err := execute(t, "--config", path, "--points", "0.3,0.6")
	if !errors.Is(err, errNotTerminal) {
		t.Errorf("Expected errNotTerminal, got %v", err)
	}
}

func TestFormatPoints(t *testing.T) {
	if got := formatPoints([]float64{0.2, 0.5, 1}); got != "0.2, 0.5, 1" {
		t.Errorf("Unexpected %q", got)
	}
}
