package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dm/karma-go/internal/format"
	"github.com/dm/karma-go/internal/karma"
	"github.com/dm/karma-go/internal/model"
)

func newMeasureCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "measure TARGET",
		Short: "Draw sets for one target total and print their similarity",
		Long: `Draw sets for one target total and print their similarity.

TARGET accepts milliseconds (125000), M:SS.mmm (2:05.000), M:SS (2:05),
Mm Ss (2m 5s) or seconds (125s).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := format.ParseTime(args[0])
			if err != nil {
				return err
			}
			run := model.RunIdentity{LapCount: c.cfg.LapCount, PlayerCount: c.cfg.PlayerCount}
			m, err := c.calculator().Measure(cmd.Context(), target, run)
			if err != nil {
				return fmt.Errorf("measure %s: %w", format.FormatLapTime(target), err)
			}
			return writeMeasurement(cmd.OutOrStdout(), c.cars, m)
		},
	}
}

// writeMeasurement prints the similarity of m and one line per set.
func writeMeasurement(w io.Writer, cars []karma.Car, m model.Measurement) error {
	var b strings.Builder
	fmt.Fprintf(&b, "target %s · laps %d · players %d · similarity %s\n",
		format.FormatLapTime(m.Target), m.Run.LapCount, m.Run.PlayerCount,
		format.FormatPercent(m.Similarity*100))
	for i, subset := range m.Subsets {
		total := karma.Total(cars, subset)
		ids := make([]string, len(subset))
		for j, idx := range subset {
			ids[j] = cars[idx].ID
		}
		fmt.Fprintf(&b, "%3d  %s  %8s  %s\n", i+1,
			format.FormatLapTime(total),
			format.FormatSignedPercent(karma.Deviation(total, m.Target)),
			strings.Join(ids, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
