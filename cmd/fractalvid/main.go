package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/fractalvid/internal/config"
	"github.com/san-kum/fractalvid/internal/palette"
	"github.com/san-kum/fractalvid/internal/trajectory"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	// Render configuration
	configFile   string
	preset       string
	resolution   string
	width        int
	height       int
	frameRate    int
	videoQuality int
	duration     float64
	maxIter      int
	schedule     string
	paletteName  string
	seed         int64
	amplitude    float64
	decay        float64
	workers      int
	ffmpegPath   string
	live         bool
	// Preview
	previewFrame int
	previewCols  int
	threshold    float64
	svgPath      string
)

// main registers the fractalvid commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "fractalvid",
		Short:         "escape-time fractal video renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fractalvid", "run store directory")

	renderCmd := &cobra.Command{
		Use:   "render [outfile]",
		Short: "render a fractal video",
		Long: "render a fractal video. The encoder is chosen by extension:\n" +
			"  .mp4 .mkv .mov .webm .avi  ffmpeg (must be on PATH)\n" +
			"  .gif                       animated GIF\n" +
			"  dir/ or no extension       numbered PNG frames",
		Args: cobra.ExactArgs(1),
		RunE: renderVideo,
	}
	addConfigFlags(renderCmd)
	renderCmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "ffmpeg binary (default: search PATH)")
	renderCmd.Flags().BoolVar(&live, "live", false, "show live progress view")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "print a braille preview of one frame",
		Args:  cobra.NoArgs,
		RunE:  previewFrameCmd,
	}
	addConfigFlags(previewCmd)
	previewCmd.Flags().IntVar(&previewFrame, "frame", 0, "frame index")
	previewCmd.Flags().IntVar(&previewCols, "cols", 72, "preview width in characters")
	previewCmd.Flags().Float64Var(&threshold, "threshold", -1, "lit dot threshold (default: max iterations)")
	previewCmd.Flags().StringVar(&svgPath, "svg", "", "also write the preview as SVG")

	writeConfigCmd := &cobra.Command{
		Use:   "write-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addConfigFlags(writeConfigCmd)

	resolutionsCmd := &cobra.Command{
		Use:   "resolutions",
		Short: "list resolution presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListResolutions() {
				r := config.Resolutions[name]
				fmt.Printf("  %-6s %dx%d\n", name, r.Width, r.Height)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list render presets, schedules and palettes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-8s %s, %s, %s, %.0fs\n", name, p.Resolution, p.Schedule, p.Palette, p.Duration)
			}
			fmt.Printf("schedules: %s\n", strings.Join(trajectory.List(), ", "))
			fmt.Printf("palettes: %s\n", strings.Join(palette.List(), ", "))
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-frame statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the camera path as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-frame data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "flicker analysis of mean escape value",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark serial and parallel field computation",
		Args:  cobra.NoArgs,
		RunE:  benchField,
	}
	benchCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIterations, "maximum iterations")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: NumCPU)")

	rootCmd.AddCommand(renderCmd, previewCmd, writeConfigCmd, resolutionsCmd, presetsCmd,
		listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd, analyzeCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&resolution, "resolution", "", "resolution preset (see resolutions)")
	f.IntVar(&width, "width", 0, "frame width, overrides the resolution preset")
	f.IntVar(&height, "height", 0, "frame height, overrides the resolution preset")
	f.IntVar(&frameRate, "framerate", defaults.FrameRate, "frames per second")
	f.IntVar(&videoQuality, "video-quality", defaults.VideoQuality, "video quality 0-10")
	f.Float64Var(&duration, "video-duration", 0, "video duration in seconds")
	f.IntVar(&maxIter, "max-iter", defaults.MaxIterations, "maximum iterations")
	f.StringVar(&schedule, "schedule", defaults.Schedule, "camera schedule")
	f.StringVar(&paletteName, "palette", defaults.Palette, "color palette")
	f.Int64Var(&seed, "seed", 0, "random seed (0: from clock)")
	f.Float64Var(&amplitude, "amplitude", defaults.Cuts.Amplitude, "initial cut amplitude")
	f.Float64Var(&decay, "decay", defaults.Cuts.Decay, "cut decay over the full sequence")
	f.IntVar(&workers, "workers", defaults.Workers, "parallel workers")
}

// buildConfig layers the preset, the config file and explicitly set flags,
// in that order, over the defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		if p.Workers == 0 {
			p.Workers = cfg.Workers
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadOnto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("resolution") {
		cfg.Resolution = resolution
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("framerate") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("video-quality") {
		cfg.VideoQuality = videoQuality
	}
	if flags.Changed("video-duration") {
		cfg.Duration = duration
	}
	if flags.Changed("max-iter") {
		cfg.MaxIterations = maxIter
	}
	if flags.Changed("schedule") {
		cfg.Schedule = schedule
	}
	if flags.Changed("palette") {
		cfg.Palette = paletteName
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("amplitude") {
		cfg.Cuts.Amplitude = amplitude
	}
	if flags.Changed("decay") {
		cfg.Cuts.Decay = decay
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	return cfg, nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
