package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/config"
	"github.com/dm/karma-go/internal/karma"
	"github.com/dm/karma-go/internal/metrics"
	"github.com/dm/karma-go/internal/tui"
)

// cli holds what the commands share once the persistent pre-run has loaded
// configuration, logging and the car list.
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	errOut  io.Writer

	cfg     config.Config
	cars    []karma.Car
	logger  *slog.Logger
	logFile *os.File
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"laps":      "lap_count",
	"players":   "player_count",
	"timeout":   "timeout",
	"tolerance": "tolerance",
	"workers":   "workers",
	"cars":      "cars_file",
	"log-file":  "log_file",
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), errOut: errOut}
	d := config.Default()

	cmd := &cobra.Command{
		Use:     "karma",
		Short:   "Plot how alike the car sets drawn for each target lap time are",
		Long:    "karma sweeps the reachable range of target lap times, draws sets of cars for each target and plots the mean similarity of those sets as it goes.",
		Version: version,
		Args:    cobra.NoArgs,

		PersistentPreRunE: c.preRun,
		PersistentPostRun: c.postRun,
		RunE:              c.runUI,
		SilenceUsage:      true,
		SilenceErrors:     true, // main prints the error
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.karma.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	flags.Int("laps", d.LapCount, "Cars per set")
	flags.Int("players", d.PlayerCount, "Sets drawn per target")
	flags.Duration("timeout", d.Timeout, "Time limit for one measurement")
	flags.Float64("tolerance", d.Tolerance, "Allowed deviation of a set from the target, in percent")
	flags.Int("workers", d.Workers, "Concurrent measurements during a sweep")
	flags.String("cars", d.CarsFile, "Car list CSV (default is the built-in list)")
	flags.String("log-file", d.LogFile, "Log file used while the interactive UI owns the terminal")
	for flag, key := range flagKeys {
		if err := c.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	cmd.Flags().String("metrics-addr", d.MetricsAddr, "Serve Prometheus metrics on this address, e.g. :9090")
	if err := c.v.BindPFlag("metrics_addr", cmd.Flags().Lookup("metrics-addr")); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		newCarsCmd(c),
		newMeasureCmd(c),
		newPlotCmd(c),
	)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

// preRun loads configuration, sets up logging and reads the car list. The
// interactive UI logs to the log file, or nowhere when none is set; other
// commands log to stderr.
func (c *cli) preRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	w := c.errOut
	if !cmd.HasParent() {
		w = io.Discard
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			c.logFile = f
			w = f
		}
	}
	c.logger = slog.New(log.NewWithOptions(w, newLoggerOpts(c.verbose)))
	slog.SetDefault(c.logger)

	cars, err := karma.LoadCars(cfg.CarsFile, c.logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(len(cars)); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.cars = cars
	return nil
}

func (c *cli) postRun(_ *cobra.Command, _ []string) {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			fmt.Fprintf(c.errOut, "warning: close log file: %v\n", err)
		}
		c.logFile = nil
	}
}

func newLoggerOpts(verbose bool) log.Options {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "karma",
		Level:           log.InfoLevel,
	}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return opts
}

func (c *cli) calculator() *karma.Calculator {
	return &karma.Calculator{
		Cars:      c.cars,
		Timeout:   c.cfg.Timeout,
		Tolerance: c.cfg.Tolerance,
		Logger:    c.logger,
	}
}

// runUI starts the interactive UI, plus the metrics exporter when an address
// is configured. Both stop when either does.
func (c *cli) runUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	host := &chart.Host{}
	go chart.Load(ctx, host, tui.ChartTheme)

	opts := tui.Options{
		Cars:     c.cars,
		Measurer: c.calculator(),
		Source:   host,
		Config:   c.cfg,
		Logger:   c.logger,
	}

	g, gctx := errgroup.WithContext(ctx)
	if c.cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		opts.Recorder, opts.Observer = m, m
		srv := metrics.NewServer(c.cfg.MetricsAddr, m, reg, c.logger)
		g.Go(func() error { return srv.Run(gctx) })
	}

	app := tui.NewApp(opts)
	g.Go(func() error {
		defer cancel()
		defer app.Close()
		p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(gctx))
		if _, err := p.Run(); err != nil && gctx.Err() == nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})

	err := g.Wait()
	c.logger.Info("karma stopped", "error", err)
	return err
}
