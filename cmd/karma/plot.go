package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/engine"
	"github.com/dm/karma-go/internal/format"
	"github.com/dm/karma-go/internal/karma"
	"github.com/dm/karma-go/internal/model"
)

func newPlotCmd(c *cli) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Sweep every target once and print the chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.plot(cmd.Context(), cmd.OutOrStdout(), width, height)
		},
	}
	cmd.Flags().IntVar(&width, "width", 100, "Chart width in columns")
	cmd.Flags().IntVar(&height, "height", 20, "Chart height in rows")
	return cmd
}

// plot runs a full sweep without the interactive UI and writes the finished
// chart to w.
func (c *cli) plot(ctx context.Context, w io.Writer, width, height int) error {
	host := &chart.Host{}
	go chart.Load(ctx, host, chart.Theme{})

	eng := engine.New(engine.Options{
		Gate:    engine.NewGate(host, c.cfg.GateDelay, c.cfg.GateAttempts, c.logger),
		Surface: &chart.Surface{Width: width, Height: height},
		Logger:  c.logger,
	})

	run := model.RunIdentity{LapCount: c.cfg.LapCount, PlayerCount: c.cfg.PlayerCount}
	lo, hi := karma.TargetRange(c.cars, run.LapCount)
	if err := eng.Init(ctx, float64(lo), float64(hi), run); err != nil {
		return fmt.Errorf("init chart: %w", err)
	}

	targets := karma.SliderTargets(lo, hi)
	sweep := engine.NewSweep(run, targets, c.cfg.Workers, c.calculator(), engine.NewCache(), c.logger)
	results := make(chan engine.Result, c.cfg.Workers)
	var sweepErr error
	go func() {
		sweepErr = sweep.Run(ctx, results)
		close(results)
	}()

	var measured, failed int
	for r := range results {
		if r.Err != nil {
			eng.Mark(float64(r.Target), r.Run)
			failed++
			continue
		}
		eng.Upsert(float64(r.Target), r.Measurement.Similarity*100, r.Run)
		measured++
	}
	if sweepErr != nil {
		return fmt.Errorf("sweep: %w", sweepErr)
	}

	_, err := fmt.Fprintf(w, "%s\nlaps %d · players %d · %s of %s targets measured · %s failed\n",
		eng.View(), run.LapCount, run.PlayerCount,
		format.FormatCount(measured), format.FormatCount(len(targets)), format.FormatCount(failed))
	return err
}
