package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindCaretTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, "caret.toml")
	if err := os.WriteFile(cfgPath, []byte("[output]\ncolor = \"off\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, ok, err := findCaretToml(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected caret.toml to be found from a nested directory")
	}
	if found != cfgPath {
		t.Errorf("expected %q, got %q", cfgPath, found)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[output]
color = "on"
path_mode = "basename"
prog_name = "cc"

[include]
dirs = ["inc", "vendor/inc"]
`
	if err := os.WriteFile(filepath.Join(dir, "caret.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("expected a config path")
	}
	if cfg.Output.Color != "on" || cfg.Output.PathMode != "basename" || cfg.Output.ProgName != "cc" {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	if len(cfg.Include.Dirs) != 2 || cfg.Include.Dirs[0] != "inc" {
		t.Errorf("unexpected include dirs %v", cfg.Include.Dirs)
	}
}

func TestLoadConfigMissingIsNotAnError(t *testing.T) {
	cfg, path, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("expected no config path, got %q", path)
	}
	if cfg.Output.Color != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}
