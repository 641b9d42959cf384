package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FrameRate != 24 {
		t.Errorf("expected frame rate 24, got %d", cfg.FrameRate)
	}
	if cfg.VideoQuality != 10 {
		t.Errorf("expected quality 10, got %d", cfg.VideoQuality)
	}
	if cfg.MaxIterations != 256 {
		t.Errorf("expected 256 iterations, got %d", cfg.MaxIterations)
	}
	if cfg.Cuts.Decay != 0.05 {
		t.Errorf("expected decay 0.05, got %v", cfg.Cuts.Decay)
	}
}

func TestResolve_DerivedValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = "40p"
	cfg.Duration = 2.0

	r, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if r.Width != 71 || r.Height != 40 {
		t.Errorf("expected 71x40, got %dx%d", r.Width, r.Height)
	}
	if r.NumFrames != 48 {
		t.Errorf("expected 48 frames, got %d", r.NumFrames)
	}
	if r.Dt != 1.0/48 {
		t.Errorf("expected dt 1/48, got %v", r.Dt)
	}
}

func TestResolve_FloorsFrameCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 8, 8
	cfg.Duration = 1.99
	cfg.FrameRate = 10

	r, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if r.NumFrames != 19 {
		t.Errorf("expected 19 frames, got %d", r.NumFrames)
	}
}

func TestResolve_ExplicitOverridesPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = "720p"
	cfg.Width = 1000
	cfg.Duration = 1

	r, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if r.Width != 1000 || r.Height != 720 {
		t.Errorf("expected 1000x720, got %dx%d", r.Width, r.Height)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"missing resolution", func(c *Config) { c.Duration = 1 }, ErrResolution},
		{"only width", func(c *Config) { c.Width = 10; c.Duration = 1 }, ErrResolution},
		{"unknown resolution", func(c *Config) { c.Resolution = "8k"; c.Duration = 1 }, ErrResolution},
		{"missing duration", func(c *Config) { c.Resolution = "40p" }, ErrDuration},
		{"too short", func(c *Config) { c.Resolution = "40p"; c.Duration = 0.01 }, ErrFrameCount},
		{"zero rate", func(c *Config) { c.Resolution = "40p"; c.Duration = 1; c.FrameRate = 0 }, ErrParameter},
		{"bad quality", func(c *Config) { c.Resolution = "40p"; c.Duration = 1; c.VideoQuality = 11 }, ErrParameter},
		{"zero iterations", func(c *Config) { c.Resolution = "40p"; c.Duration = 1; c.MaxIterations = 0 }, ErrParameter},
		{"zero decay", func(c *Config) { c.Resolution = "40p"; c.Duration = 1; c.Cuts.Decay = 0 }, ErrParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if _, err := cfg.Resolve(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestResolve_UnknownStrategies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = "40p"
	cfg.Duration = 1
	cfg.Schedule = "spiral"
	if _, err := cfg.Resolve(); err == nil {
		t.Error("expected error for unknown schedule")
	}

	cfg.Schedule = "zoom-pivot"
	cfg.Palette = "sepia"
	if _, err := cfg.Resolve(); err == nil {
		t.Error("expected error for unknown palette")
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	cfg := DefaultConfig()
	cfg.Resolution = "80p"
	cfg.Duration = 3.5
	cfg.Seed = 1234
	cfg.Palette = "two-tone"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch:\n%s", diff)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("resolution: 40p\nduration: 2\ncuts:\n  amplitude: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FrameRate != DefaultFrameRate {
		t.Errorf("expected default frame rate, got %d", cfg.FrameRate)
	}
	if cfg.Cuts.Amplitude != 5 || cfg.Cuts.Decay != 0.05 {
		t.Errorf("unexpected cuts config %+v", cfg.Cuts)
	}
}

func TestLoadOnto_PresetBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("duration: 3\npalette: two-tone\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := GetPreset("dive")
	if err := LoadOnto(path, cfg); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Duration != 3 || cfg.Palette != "two-tone" {
		t.Errorf("file keys not applied: %+v", cfg)
	}
	if cfg.Resolution != "360p" || cfg.Schedule != "zoom-pivot" {
		t.Errorf("preset keys lost: %+v", cfg)
	}
	if Presets["dive"].Duration != 20 {
		t.Error("LoadOnto modified the shared preset")
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("duration: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if _, err := cfg.Resolve(); err != nil {
			t.Errorf("preset %s does not resolve: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}

	p := GetPreset("dive")
	p.Duration = 99
	if Presets["dive"].Duration == 99 {
		t.Error("GetPreset returned a shared pointer")
	}
}

func TestListResolutions(t *testing.T) {
	names := ListResolutions()
	if len(names) != 10 {
		t.Fatalf("expected 10 resolutions, got %d", len(names))
	}
	if names[0] != "2160p" || names[len(names)-1] != "40p" {
		t.Errorf("unexpected order: %v", names)
	}
}

func TestUncutSweepPreset(t *testing.T) {
	cfg := GetPreset("uncut-sweep")
	if cfg == nil {
		t.Fatal("uncut-sweep preset missing")
	}
	if cfg.Schedule != "exponent-sweep" || cfg.Cuts.Amplitude != 0 {
		t.Errorf("expected exponent sweep without cuts, got %+v", cfg)
	}
	if GetPreset("classic") != nil {
		t.Error("no preset should claim the classical quadratic map")
	}
}
