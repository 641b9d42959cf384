package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fractalvid/internal/analysis"
	"github.com/san-kum/fractalvid/internal/export"
	"github.com/san-kum/fractalvid/internal/render"
	"github.com/san-kum/fractalvid/internal/storage"
	"github.com/san-kum/fractalvid/internal/trajectory"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tFRAMES\tSCHEDULE\tPALETTE\tOUTPUT")

	for _, run := range runs {
		frames := fmt.Sprintf("%d", run.Rendered)
		if !run.Complete {
			frames = fmt.Sprintf("%d/%d", run.Rendered, run.NumFrames)
		}
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			frames,
			run.Schedule,
			run.Palette,
			run.Output,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func loadRun(runID string) (*storage.RunMetadata, []render.FrameStats, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}

	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no frames recorded for %s", runID)
	}
	return meta, frames, nil
}

// finiteOnly replaces non-finite samples with the previous finite one so the
// series can be plotted.
func finiteOnly(data []float64) []float64 {
	out := make([]float64, len(data))
	last := 0.0
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = last
		}
		out[i] = v
		last = v
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("schedule: %s\n", meta.Schedule)
	fmt.Printf("frames: %d\n\n", len(frames))

	series := []struct {
		caption string
		value   func(render.FrameStats) float64
	}{
		{"mean escape", func(f render.FrameStats) float64 { return f.Mean }},
		{"max escape", func(f render.FrameStats) float64 { return f.Max }},
		{"exponent", func(f render.FrameStats) float64 { return f.Pose.Exponent }},
		{"zoom", func(f render.FrameStats) float64 { return f.Pose.Zoom }},
		{"frame time (ms)", func(f render.FrameStats) float64 { return float64(f.Elapsed) / float64(time.Millisecond) }},
	}

	for _, s := range series {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = s.value(f)
		}

		graph := asciigraph.Plot(finiteOnly(data),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgPath != "" {
		poses := make([]trajectory.CameraState, len(frames))
		for i, f := range frames {
			poses[i] = f.Pose
		}
		if err := writeSVG(svgPath, func(f *os.File) error {
			return export.WritePathSVG(f, poses, 800, 600, "#00ffff")
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	filename := meta.ID + ".json"
	if err := storage.ExportJSONFile(filename, *meta, frames); err != nil {
		return err
	}

	fmt.Printf("exported to %s\n", filename)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	filename := meta.ID + ".csv"
	if err := storage.ExportCSVFile(filename, frames); err != nil {
		return err
	}

	fmt.Printf("exported %d frames to %s\n", len(frames), filename)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	means := make([]float64, len(frames))
	for i, f := range frames {
		means[i] = f.Mean
	}

	fmt.Printf("flicker analysis: %s\n", meta.ID)
	fmt.Printf("schedule: %s, %d frames at %d fps\n\n", meta.Schedule, len(frames), meta.FrameRate)

	st := analysis.Describe(means)
	fmt.Printf("mean escape: min %.3f  max %.3f  mean %.3f  stddev %.3f\n\n", st.Min, st.Max, st.Mean, st.StdDev)

	ps := analysis.PowerSpectrum(means)
	if len(ps) > 1 {
		graph := asciigraph.Plot(ps,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (mean escape)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq := analysis.DominantFrequency(means, float64(meta.FrameRate))
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}
