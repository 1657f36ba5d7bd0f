package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string, m Manifest) {
	t.Helper()

	pluginDir := filepath.Join(dir, m.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}

	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	writeManifest(t, tmpDir, Manifest{
		Name:        "keyboard",
		Version:     "1.0.0",
		Description: "Simulated key presses",
		Executable:  "keyboard",
		Actions:     []string{"press"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	p, err := manager.Get("keyboard")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if p.Executable != filepath.Join(tmpDir, "keyboard", "keyboard") {
		t.Errorf("unexpected executable path: %s", p.Executable)
	}
}

func TestManager_DiscoverMissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))

	// A missing plugin directory is not an error
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir failed: %v", err)
	}

	if got := len(manager.List()); got != 0 {
		t.Errorf("expected no plugins, got %d", got)
	}
}

func TestManager_DiscoverSkipsInvalidManifest(t *testing.T) {
	tmpDir := t.TempDir()

	badDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	writeManifest(t, tmpDir, Manifest{
		Name:       "good",
		Version:    "1.0.0",
		Executable: "good",
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(manager.List()); got != 1 {
		t.Errorf("expected invalid manifest to be skipped, got %d plugins", got)
	}
}

func TestManager_GetMissing(t *testing.T) {
	manager := NewManager(t.TempDir())

	if _, err := manager.Get("nope"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}
