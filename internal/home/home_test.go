package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-maestro")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-maestro" {
			t.Errorf("expected path /tmp/test-maestro, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-maestro")

	t.Run("ScriptsPath", func(t *testing.T) {
		expected := "/tmp/test-maestro/scripts"
		if dir.ScriptsPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ScriptsPath())
		}
	})

	t.Run("ScriptPath", func(t *testing.T) {
		expected := "/tmp/test-maestro/scripts/sess-1.js"
		if dir.ScriptPath("sess-1") != expected {
			t.Errorf("expected %s, got %s", expected, dir.ScriptPath("sess-1"))
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-maestro/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	// Use a temp directory
	tmpDir := t.TempDir()
	maestroDir := filepath.Join(tmpDir, "maestro-test")

	dir, err := New(maestroDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	// Create it
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	// Now it should exist
	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	// Scripts directory should also exist
	if _, err := os.Stat(dir.ScriptsPath()); os.IsNotExist(err) {
		t.Error("scripts directory should exist after EnsureExists")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	// Config doesn't exist
	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	// Create a config file
	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Now it should exist
	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}

func TestDir_SaveScript(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(filepath.Join(tmpDir, "maestro-test"))

	path, err := dir.SaveScript("sess-1", "(function () {})();")
	if err != nil {
		t.Fatalf("SaveScript failed: %v", err)
	}
	if path != dir.ScriptPath("sess-1") {
		t.Errorf("expected %s, got %s", dir.ScriptPath("sess-1"), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved script: %v", err)
	}
	if string(data) != "(function () {})();" {
		t.Errorf("saved script content mismatch: %q", string(data))
	}
}
