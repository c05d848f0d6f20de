package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkDir(t *testing.T) {
	dir, err := WorkDir()
	if err != nil {
		t.Fatalf("WorkDir: %v", err)
	}
	if filepath.Base(dir) != ".idabuild" {
		t.Errorf("WorkDir = %q, want a .idabuild directory", dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("work directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("WorkDir created a file instead of a directory")
	}

	again, err := WorkDir()
	if err != nil {
		t.Fatalf("second WorkDir call: %v", err)
	}
	if again != dir {
		t.Errorf("WorkDir not stable: %q then %q", dir, again)
	}
}

func TestPluginsDir(t *testing.T) {
	dir, err := PluginsDir("linux")
	if err != nil {
		t.Fatalf("PluginsDir: %v", err)
	}
	if filepath.Base(dir) != "plugins" {
		t.Errorf("PluginsDir = %q", dir)
	}
}

func TestPluginsDirWindows(t *testing.T) {
	t.Setenv("APPDATA", filepath.Join(t.TempDir(), "AppData"))
	dir, err := PluginsDir("windows")
	if err != nil {
		t.Fatalf("PluginsDir: %v", err)
	}
	for _, part := range []string{"Hex-Rays", "plugins"} {
		if !filepathContains(dir, part) {
			t.Errorf("PluginsDir = %q missing %q", dir, part)
		}
	}
}

func filepathContains(path, part string) bool {
	for dir := path; ; {
		if filepath.Base(dir) == part {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
