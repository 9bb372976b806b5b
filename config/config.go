package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"faultsim/deadlock"
	"faultsim/model"
	"faultsim/paging"
	"faultsim/recovery"
	"faultsim/sched"
)

var ErrInvalidConfig = errors.New("invalid config")

// Dir is $FAULTSIM_HOME when set, else ~/.faultsim.
func Dir() string {
	if d := os.Getenv("FAULTSIM_HOME"); d != "" {
		return d
	}
	return filepath.Join(os.Getenv("HOME"), ".faultsim")
}

func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

func LogPath() string {
	return filepath.Join(Dir(), "faultsim.log")
}

func LoadConfig() (*SimConfig, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads path. A missing or unparsable file is replaced with the
// defaults; a file that parses but fails validation is an error.
func LoadFrom(path string) (*SimConfig, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		cfg := Default()
		_ = SaveTo(path, cfg)
		return cfg, nil
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		_ = SaveTo(path, cfg)
		return cfg, nil
	}
	if cfg.Webhooks == nil {
		cfg.Webhooks = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *SimConfig) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg *SimConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Default() *SimConfig {
	return &SimConfig{
		Capacity:        model.DefaultCapacity,
		SyntheticCount:  5,
		Live:            true,
		Quantum:         sched.DefaultQuantum,
		Frames:          paging.DefaultFrames,
		Reference:       paging.DefaultReference(),
		SafetyPool:      deadlock.DefaultPool,
		SafetyWindow:    deadlock.DefaultWindow,
		NeedScale:       deadlock.DefaultNeedScale,
		CPUOverload:     recovery.DefaultCPUOverload,
		ThrashingMemory: recovery.DefaultThrashingMemory,
		IntervalMS:      2000,
		LogLevel:        "info",
		Webhooks:        map[string]string{},
	}
}

func (c *SimConfig) Validate() error {
	switch {
	case c.Capacity < 1:
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, c.Capacity)
	case c.SyntheticCount < 0 || c.SyntheticCount > c.Capacity:
		return fmt.Errorf("%w: synthetic_count %d outside 0..%d", ErrInvalidConfig, c.SyntheticCount, c.Capacity)
	case c.Quantum < 1:
		return fmt.Errorf("%w: quantum %d", ErrInvalidConfig, c.Quantum)
	case c.Frames < 1:
		return fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames)
	case len(c.Reference) == 0:
		return fmt.Errorf("%w: empty reference string", ErrInvalidConfig)
	case c.NeedScale < 1:
		return fmt.Errorf("%w: need_scale %d", ErrInvalidConfig, c.NeedScale)
	case c.SafetyWindow < 0:
		return fmt.Errorf("%w: safety_window %d", ErrInvalidConfig, c.SafetyWindow)
	case c.IntervalMS < 1:
		return fmt.Errorf("%w: interval_ms %d", ErrInvalidConfig, c.IntervalMS)
	}
	for i, p := range c.Reference {
		if p < 0 {
			return fmt.Errorf("%w: reference[%d] = %d", ErrInvalidConfig, i, p)
		}
	}
	return nil
}

func (c *SimConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

func (c *SimConfig) Analyzer() deadlock.Analyzer {
	return deadlock.Analyzer{
		Pool:      c.SafetyPool,
		Window:    c.SafetyWindow,
		NeedScale: c.NeedScale,
	}
}

func (c *SimConfig) RecoverySettings() recovery.Settings {
	ref := make([]int, len(c.Reference))
	copy(ref, c.Reference)
	return recovery.Settings{
		CPUOverload:     c.CPUOverload,
		ThrashingMemory: c.ThrashingMemory,
		Quantum:         c.Quantum,
		Reference:       ref,
		Frames:          c.Frames,
	}
}

// WebhookURL is the URL of the active webhook, empty when none is set.
func (c *SimConfig) WebhookURL() string {
	return c.Webhooks[c.ActiveWebhook]
}
