package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	t.Setenv("FAULTSIM_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Capacity != 10 || cfg.Quantum != 3 || cfg.Frames != 5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(ConfigPath()); err != nil {
		t.Errorf("defaults not written: %v", err)
	}
}

func TestLoadCorruptFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Quantum != Default().Quantum {
		t.Errorf("Quantum = %d", cfg.Quantum)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"quantum": 4, "live": false}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Quantum != 4 || cfg.Live {
		t.Errorf("overrides lost: %+v", cfg)
	}
	if cfg.Frames != 5 || len(cfg.Reference) != 10 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"zero quantum":     `{"quantum": 0}`,
		"zero frames":      `{"frames": 0}`,
		"negative page":    `{"reference": [1, -1]}`,
		"too many dummies": `{"capacity": 3, "synthetic_count": 4}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.ActiveWebhook = "ops"
	cfg.Webhooks["ops"] = "http://example.invalid/hook"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.WebhookURL() != "http://example.invalid/hook" {
		t.Errorf("WebhookURL = %q", got.WebhookURL())
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := Default()
	cfg.IntervalMS = 250
	if cfg.Interval().Milliseconds() != 250 {
		t.Errorf("Interval = %v", cfg.Interval())
	}

	s := cfg.RecoverySettings()
	s.Reference[0] = 42
	if cfg.Reference[0] == 42 {
		t.Error("RecoverySettings shares the reference slice")
	}

	a := cfg.Analyzer()
	if a.Pool != 10 || a.Window != 5 || a.NeedScale != 100 {
		t.Errorf("Analyzer = %+v", a)
	}
	if Default().WebhookURL() != "" {
		t.Error("default config has a webhook")
	}
}
