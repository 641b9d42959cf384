package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/san-kum/fractalvid/internal/config"
	"github.com/san-kum/fractalvid/internal/cuts"
	"github.com/san-kum/fractalvid/internal/field"
	"github.com/san-kum/fractalvid/internal/trajectory"
	"github.com/spf13/cobra"
)

func benchField(cmd *cobra.Command, args []string) error {
	n := workers
	if n < 1 {
		n = runtime.NumCPU()
	}

	rng := rand.New(rand.NewSource(42))
	pose := trajectory.NewZoomPivot().Pose(0, 1)
	cutSchedule := cuts.New(maxIter, cuts.DefaultAmplitude, rng)

	fmt.Printf("benchmarking field computation (%d iterations, %d workers)\n\n", maxIter, n)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOLUTION\tPIXELS\tSERIAL\tPARALLEL\tPIXELS/SEC\tSPEEDUP")

	for _, name := range []string{"80p", "160p", "240p", "360p"} {
		res := config.Resolutions[name]
		p := field.Params{
			Width:         res.Width,
			Height:        res.Height,
			CenterX:       pose.CenterX,
			CenterY:       pose.CenterY,
			Zoom:          pose.Zoom,
			Exponent:      pose.Exponent,
			MaxIterations: maxIter,
			Cuts:          cutSchedule.Values(),
		}
		out := make([]float64, p.Pixels())

		start := time.Now()
		if err := field.Compute(out, p); err != nil {
			return err
		}
		serial := time.Since(start)

		start = time.Now()
		if err := field.ComputeParallel(out, p, n); err != nil {
			return err
		}
		parallel := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%.0f\t%.2fx\n",
			name,
			p.Pixels(),
			serial.Round(time.Microsecond),
			parallel.Round(time.Microsecond),
			float64(p.Pixels())/parallel.Seconds(),
			serial.Seconds()/parallel.Seconds(),
		)
	}

	return w.Flush()
}
