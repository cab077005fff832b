package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_InlineBlueprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	content := `
blueprint: "0abcdef"
bot_count: 50
save_ticks: 3600
save_name: nightly
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Blueprint != "0abcdef" || cfg.BotCount != 50 || cfg.SaveTicks != 3600 || cfg.SaveName != "nightly" {
		t.Fatalf("cfg: %+v", cfg)
	}
}

func TestLoadConfig_BlueprintFile(t *testing.T) {
	dir := t.TempDir()
	bpPath := filepath.Join(dir, "layout.bp")
	if err := os.WriteFile(bpPath, []byte("0payload\n"), 0o644); err != nil {
		t.Fatalf("write bp: %v", err)
	}
	path := filepath.Join(dir, "scenario.yaml")
	content := "blueprint_file: " + bpPath + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Blueprint != "0payload" {
		t.Fatalf("blueprint %q, want trimmed file contents", cfg.Blueprint)
	}
	if cfg.SaveName != "bp-session" {
		t.Fatalf("save_name default: %q", cfg.SaveName)
	}
	if cfg.SaveTicks != 0 || cfg.BotCount != 0 {
		t.Fatalf("zero values must be preserved: %+v", cfg)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("blueprint: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
