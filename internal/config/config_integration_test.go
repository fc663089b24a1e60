package config

import (
	"path/filepath"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "tanko", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Point the library root somewhere real (t.Setenv auto-restores)
	libRoot := filepath.Join(tmp, "manga")
	t.Setenv("TANKO_LIBRARY_ROOT", libRoot)

	// 3. Load with full validation
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution worked
	if cfg.Library.Root != libRoot {
		t.Errorf("expected root substituted to %q, got %q", libRoot, cfg.Library.Root)
	}

	// 5. Verify defaults applied
	if cfg.Library.Database != filepath.Join(libRoot, "tanko.db") {
		t.Errorf("expected database under root, got %q", cfg.Library.Database)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Log.Level)
	}
}
