package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Topics) == 0 {
		t.Error("expected topics to be populated")
	}

	if cfg.Dedup.GeneralThreshold != 0.6 {
		t.Errorf("expected general threshold 0.6, got %v", cfg.Dedup.GeneralThreshold)
	}
	if cfg.Dedup.PersonnelThreshold != 0.4 {
		t.Errorf("expected personnel threshold 0.4, got %v", cfg.Dedup.PersonnelThreshold)
	}

	if len(cfg.Portals) != 2 {
		t.Fatalf("expected 2 default portals, got %d", len(cfg.Portals))
	}
	if cfg.Portals[0].Name != "naver" {
		t.Errorf("expected first portal 'naver', got %q", cfg.Portals[0].Name)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
topics:
  - name: 테스트사
fetch:
  max_items: 25
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Fetch.MaxItems != 25 {
		t.Errorf("expected max_items 25, got %d", cfg.Fetch.MaxItems)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Fetch.TimeoutSeconds != 10 {
		t.Errorf("expected default timeout 10, got %d", cfg.Fetch.TimeoutSeconds)
	}
	if cfg.Validator.MinChars != 50 {
		t.Errorf("expected default min_chars 50, got %d", cfg.Validator.MinChars)
	}

	// A topic without kind or aliases gets the company kind and its own
	// name as the single alias.
	topic := cfg.Topics[0]
	if topic.Kind != KindCompany {
		t.Errorf("expected default kind %q, got %q", KindCompany, topic.Kind)
	}
	if len(topic.Aliases) != 1 || topic.Aliases[0] != "테스트사" {
		t.Errorf("expected name as default alias, got %v", topic.Aliases)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Topics) == 0 {
		t.Error("expected topics to be populated from file")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Storage.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
