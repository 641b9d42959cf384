package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/san-kum/fractalvid/internal/cuts"
	"github.com/san-kum/fractalvid/internal/palette"
	"github.com/san-kum/fractalvid/internal/trajectory"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameRate     = 24
	DefaultQuality       = 10
	DefaultMaxIterations = 256
)

var (
	ErrResolution = errors.New("config: invalid or missing resolution")
	ErrDuration   = errors.New("config: missing video duration")
	ErrFrameCount = errors.New("config: duration and frame rate yield no frames")
	ErrParameter  = errors.New("config: parameter out of range")
)

type Config struct {
	Resolution    string     `yaml:"resolution"`
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	FrameRate     int        `yaml:"frame_rate"`
	VideoQuality  int        `yaml:"video_quality"`
	Duration      float64    `yaml:"duration"`
	MaxIterations int        `yaml:"max_iterations"`
	Schedule      string     `yaml:"schedule"`
	Palette       string     `yaml:"palette"`
	Seed          int64      `yaml:"seed"`
	Cuts          CutsConfig `yaml:"cuts"`
	Workers       int        `yaml:"workers"`
	Output        string     `yaml:"output"`
}

type CutsConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Decay     float64 `yaml:"decay"`
}

// Resolved is a validated Config with its derived frame count and step.
type Resolved struct {
	Config
	NumFrames int
	Dt        float64
}

func DefaultConfig() *Config {
	return &Config{
		FrameRate:     DefaultFrameRate,
		VideoQuality:  DefaultQuality,
		MaxIterations: DefaultMaxIterations,
		Schedule:      trajectory.ZoomPivotName,
		Palette:       palette.GrayscaleName,
		Cuts: CutsConfig{
			Amplitude: cuts.DefaultAmplitude,
			Decay:     cuts.DefaultDecay,
		},
		Workers: runtime.NumCPU(),
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadOnto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOnto overlays the keys present in the file at path onto cfg.
func LoadOnto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Dimensions returns the frame size, taking each missing dimension from the
// named resolution.
func (c *Config) Dimensions() (int, int, error) {
	w, h := c.Width, c.Height
	if c.Resolution != "" {
		res, ok := Resolutions[c.Resolution]
		if !ok {
			return 0, 0, fmt.Errorf("%w: unknown resolution %q (available: %v)", ErrResolution, c.Resolution, ListResolutions())
		}
		if w == 0 {
			w = res.Width
		}
		if h == 0 {
			h = res.Height
		}
	}
	if w < 1 || h < 1 {
		return 0, 0, ErrResolution
	}
	return w, h, nil
}

// Resolve validates c and derives NumFrames = floor(Duration*FrameRate) and
// Dt = 1/NumFrames.
func (c *Config) Resolve() (*Resolved, error) {
	w, h, err := c.Dimensions()
	if err != nil {
		return nil, err
	}
	if c.Duration <= 0 {
		return nil, ErrDuration
	}
	if c.FrameRate < 1 {
		return nil, fmt.Errorf("%w: frame rate %d", ErrParameter, c.FrameRate)
	}
	if c.VideoQuality < 0 || c.VideoQuality > 10 {
		return nil, fmt.Errorf("%w: video quality %d outside [0, 10]", ErrParameter, c.VideoQuality)
	}
	if c.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations %d", ErrParameter, c.MaxIterations)
	}
	if c.Cuts.Decay <= 0 {
		return nil, fmt.Errorf("%w: cut decay %v must be positive", ErrParameter, c.Cuts.Decay)
	}
	if _, err := trajectory.Get(c.Schedule); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := palette.Get(c.Palette); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	n := int(c.Duration * float64(c.FrameRate))
	if n < 1 {
		return nil, fmt.Errorf("%w: %.3fs at %d fps", ErrFrameCount, c.Duration, c.FrameRate)
	}

	r := &Resolved{Config: *c, NumFrames: n, Dt: 1 / float64(n)}
	r.Width, r.Height = w, h
	if r.Workers < 1 {
		r.Workers = runtime.NumCPU()
	}
	return r, nil
}
