package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file, got exists=true for %s", resolved)
	}
	if cfg.Research.WaveSize != defaultWaveSize {
		t.Fatalf("expected default wave size %d, got %d", defaultWaveSize, cfg.Research.WaveSize)
	}
	if cfg.Thresholds.MinCompleteness != defaultMinCompleteness {
		t.Fatalf("expected default completeness threshold, got %v", cfg.Thresholds.MinCompleteness)
	}
}

func TestLoadOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("TRACKDIG_TEST_SECRET", "hunter2")
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[research]
wave_size = 2
collector_timeout_seconds = 5
wave_budget_seconds = 10

[sources.spotify]
enabled = true
client_id = "abc"
client_secret = "${TRACKDIG_TEST_SECRET}"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Research.WaveSize != 2 {
		t.Fatalf("expected wave size override 2, got %d", cfg.Research.WaveSize)
	}
	if got := cfg.Sources["spotify"].ClientSecret; got != "hunter2" {
		t.Fatalf("expected env-expanded secret, got %q", got)
	}
}

func TestValidateRejectsUnknownSource(t *testing.T) {
	cfg := Default()
	cfg.Sources["napster"] = Source{Enabled: true}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "not a recognized source") {
		t.Fatalf("expected unknown source error, got %v", err)
	}
}

func TestValidateRejectsBadQualityName(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.MinAudioQuality = "superb"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unrecognized quality name")
	}
}

func TestEnabledSourcesDeterministicOrder(t *testing.T) {
	cfg := Default()
	got := cfg.EnabledSources()
	want := []string{"spotify", "musicbrainz", "discogs", "beatport", "bandcamp"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sources, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}
