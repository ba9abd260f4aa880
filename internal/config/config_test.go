package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cfg := DefaultConfig()
	cfg.Xmx = "4G"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Xmx != "4G" {
		t.Errorf("Xmx = %q, want 4G", loaded.Xmx)
	}
	if loaded.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", loaded.BaseURL)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		DataDir:      filepath.Join(dir, "data"),
		InstancesDir: filepath.Join(dir, "data", "instances"),
		MetaDir:      filepath.Join(dir, "data", "meta"),
		LibrariesDir: filepath.Join(dir, "data", "libraries"),
		AssetsDir:    filepath.Join(dir, "data", "assets"),
	}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, d := range []string{cfg.DataDir, cfg.InstancesDir, cfg.MetaDir, cfg.LibrariesDir, cfg.AssetsDir} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", d)
		}
	}
}
