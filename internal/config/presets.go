package config

import "sort"

type Resolution struct {
	Width, Height int
}

var Resolutions = map[string]Resolution{
	"2160p": {3840, 2160},
	"1440p": {2560, 1440},
	"1080p": {1920, 1080},
	"720p":  {1280, 720},
	"480p":  {854, 480},
	"360p":  {640, 360},
	"240p":  {426, 240},
	"160p":  {284, 160},
	"80p":   {142, 80},
	"40p":   {71, 40},
}

// ListResolutions returns preset names from largest to smallest.
func ListResolutions() []string {
	names := make([]string, 0, len(Resolutions))
	for name := range Resolutions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return Resolutions[names[i]].Height > Resolutions[names[j]].Height
	})
	return names
}

var Presets = map[string]*Config{
	"dive": {
		Resolution: "360p", FrameRate: 24, VideoQuality: 10, Duration: 20,
		MaxIterations: 256, Schedule: "zoom-pivot", Palette: "grayscale",
		Cuts: CutsConfig{Amplitude: 100, Decay: 0.05},
	},
	"sweep": {
		Resolution: "360p", FrameRate: 24, VideoQuality: 10, Duration: 10,
		MaxIterations: 128, Schedule: "exponent-sweep", Palette: "two-tone",
		Cuts: CutsConfig{Amplitude: 100, Decay: 0.05},
	},
	"uncut-sweep": {
		Resolution: "240p", FrameRate: 24, VideoQuality: 10, Duration: 5,
		MaxIterations: 256, Schedule: "exponent-sweep", Palette: "grayscale",
		Cuts: CutsConfig{Amplitude: 0, Decay: 0.05},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
