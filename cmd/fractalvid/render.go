package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/fractalvid/internal/encode"
	"github.com/san-kum/fractalvid/internal/export"
	"github.com/san-kum/fractalvid/internal/render"
	"github.com/san-kum/fractalvid/internal/storage"
	"github.com/san-kum/fractalvid/internal/viz"
	"github.com/spf13/cobra"
)

func renderVideo(cmd *cobra.Command, args []string) error {
	out := args[0]

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Output = out

	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}

	d, err := render.FromConfig(resolved)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := encode.Options{
		FrameRate:  resolved.FrameRate,
		Quality:    resolved.VideoQuality,
		FFmpegPath: ffmpegPath,
	}
	run := func(ctx context.Context) (*render.Result, error) {
		return d.Render(ctx, out, opts)
	}

	fmt.Printf("rendering %d frames at %dx%d (%s, %s, seed %d)...\n",
		resolved.NumFrames, resolved.Width, resolved.Height,
		resolved.Schedule, resolved.Palette, d.Seed())

	var result *render.Result
	if live {
		result, err = viz.RunWithProgress(ctx, out, d, run)
	} else {
		d.AddObserver(textProgress())
		result, err = run(ctx)
		fmt.Println()
	}

	if result != nil && len(result.Frames) > 0 {
		runID, saveErr := st.Save(storage.NewMetadata(resolved, out, result), result.Frames)
		if saveErr != nil {
			fmt.Fprintf(os.Stderr, "failed to save run: %v\n", saveErr)
		} else {
			fmt.Printf("run id: %s\n", runID)
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) && result != nil {
			fmt.Printf("cancelled after %d of %d frames; partial output kept at %s\n",
				len(result.Frames), resolved.NumFrames, out)
		}
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("output: %s\n", out)
	fmt.Printf("cut multiplier: %.6f\n", result.CutMultiplier)
	return nil
}

// textProgress prints a single updating status line.
func textProgress() render.Observer {
	start := time.Now()
	return render.ObserverFunc(func(stats render.FrameStats, numFrames int) {
		done := stats.Index + 1
		eta := time.Duration(0)
		if done < numFrames {
			eta = time.Since(start) / time.Duration(done) * time.Duration(numFrames-done)
		}
		fmt.Printf("\rframe %d/%d  zoom %.3f  exponent %.3f  %s/frame  eta %s   ",
			done, numFrames, stats.Pose.Zoom, stats.Pose.Exponent,
			viz.FormatDuration(stats.Elapsed), eta.Round(time.Second))
	})
}

func previewFrameCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Resolution == "" && cfg.Width == 0 && cfg.Height == 0 {
		cfg.Resolution = "160p"
	}
	if cfg.Duration == 0 {
		cfg.Duration = 1
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}
	if previewFrame < 0 || previewFrame >= resolved.NumFrames {
		return fmt.Errorf("frame %d outside [0, %d)", previewFrame, resolved.NumFrames)
	}

	d, err := render.FromConfig(resolved)
	if err != nil {
		return err
	}

	d.Skip(previewFrame)
	_, stats, err := d.Step()
	if err != nil {
		return err
	}

	level := threshold
	if level < 0 {
		level = float64(resolved.MaxIterations)
	}

	cols := previewCols
	if cols < 1 {
		cols = 1
	}
	rows := cols * resolved.Height / (2 * resolved.Width)
	if rows < 1 {
		rows = 1
	}

	canvas := viz.FieldPreview(d.Field(), resolved.Width, resolved.Height, cols, rows, level)
	fmt.Print(viz.Panel.Render(canvas.String()))
	fmt.Println()

	p := stats.Pose
	fmt.Println(viz.Metric("frame", fmt.Sprintf("%d/%d", stats.Index, resolved.NumFrames)))
	fmt.Println(viz.Metric("center", fmt.Sprintf("%.5f, %.5f", p.CenterX, p.CenterY)))
	fmt.Println(viz.Metric("zoom", fmt.Sprintf("%.4f", p.Zoom)))
	fmt.Println(viz.Metric("exponent", fmt.Sprintf("%.4f", p.Exponent)))
	fmt.Println(viz.Metric("interior", fmt.Sprintf("%d", stats.Interior)))
	fmt.Println(viz.Metric("seed", fmt.Sprintf("%d", d.Seed())))

	if svgPath != "" {
		if err := writeSVG(svgPath, func(f *os.File) error {
			return export.WriteCanvasSVG(f, canvas, 4, "#00ff88")
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func writeSVG(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := write(f); err != nil {
		return err
	}
	return f.Close()
}
