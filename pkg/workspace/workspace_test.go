package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWorkspace_NewAt(t *testing.T) {
	w := NewAt("/test/zx", "/test/config/zx/config.yaml")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"RootPath", w.RootPath, "/test/zx"},
		{"SessionsPath", w.SessionsPath, "/test/zx/sessions"},
		{"ExportsPath", w.ExportsPath, "/test/zx/exports"},
		{"CachePath", w.CachePath, "/test/zx/cache"},
		{"ConfigPath", w.ConfigPath, "/test/config/zx/config.yaml"},
		{"HistoryPath", w.HistoryPath(), "/test/zx/exports/history.json"},
		{"DefaultSessionPath", w.DefaultSessionPath(), "/test/zx/sessions/current"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestWorkspace_Paths(t *testing.T) {
	w := NewAt("/ws", "")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"session", w.GetSessionPath("ct-head"), "/ws/sessions/ct-head"},
		{"current", w.DefaultSessionPath(), "/ws/sessions/current"},
		{"history", w.HistoryPath(), "/ws/exports/history.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestNew_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if w.RootPath != filepath.Join("/xdg/data", "zx") {
		t.Errorf("RootPath = %q", w.RootPath)
	}
	if w.ConfigPath != filepath.Join("/xdg/config", "zx", "config.yaml") {
		t.Errorf("ConfigPath = %q", w.ConfigPath)
	}
}

func TestWorkspace_InitializeAndClean(t *testing.T) {
	w := NewAt(filepath.Join(t.TempDir(), "zx"), "")

	if w.Exists() {
		t.Fatal("workspace should not exist before Initialize")
	}
	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !w.Exists() {
		t.Fatal("workspace should exist after Initialize")
	}

	for _, dir := range []string{w.SessionsPath, w.ExportsPath, w.CachePath} {
		if !strings.HasPrefix(dir, w.RootPath) {
			t.Errorf("%q is outside the workspace root", dir)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%q was not created", dir)
		}
	}

	if err := os.WriteFile(filepath.Join(w.CachePath, "stale.zip"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.CleanCache(); err != nil {
		t.Fatalf("CleanCache() error = %v", err)
	}
	entries, _ := os.ReadDir(w.CachePath)
	if len(entries) != 0 {
		t.Errorf("cache still holds %d entries", len(entries))
	}
}
