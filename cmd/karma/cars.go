package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dm/karma-go/internal/format"
	"github.com/dm/karma-go/internal/karma"
)

func newCarsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "cars",
		Short: "List the cars and the target range of a set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeCars(cmd.OutOrStdout(), c.cars, c.cfg.LapCount)
		},
	}
}

// writeCars prints the car list followed by the range of totals a set of
// laps cars can reach.
func writeCars(w io.Writer, cars []karma.Car, laps int) error {
	t := ltable.New().
		Headers("#", "Car", "Lap time").
		BorderStyle(lipgloss.NewStyle().Faint(true)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)
	for i, car := range cars {
		t = t.Row(format.FormatCount(i+1), car.ID, format.FormatLapTime(car.LapTime))
	}

	lo, hi := karma.TargetRange(cars, laps)
	_, err := fmt.Fprintf(w, "%s\n\n%s cars · sets of %d reach %s to %s\n",
		t.String(), format.FormatCount(len(cars)), laps,
		format.FormatLapTime(lo), format.FormatLapTime(hi))
	return err
}
