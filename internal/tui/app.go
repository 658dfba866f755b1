package tui

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/config"
	"github.com/dm/karma-go/internal/engine"
	"github.com/dm/karma-go/internal/karma"
	"github.com/dm/karma-go/internal/model"
)

type chartState int

const (
	chartWaiting chartState = iota
	chartReady
	chartUnavailable
)

func (s chartState) String() string {
	switch s {
	case chartReady:
		return "ready"
	case chartUnavailable:
		return "unavailable"
	default:
		return "waiting"
	}
}

// Layout: chromeRows are the banner, range control, readout and footer.
const (
	chromeRows   = 4
	resultRows   = 7
	minChartRows = 6
	jumpStep     = 10
)

// Observer receives sweep timings and chart state changes. The metrics
// package implements it.
type Observer interface {
	ObserveMeasurement(d time.Duration, failed bool)
	SetChartState(state string, ready bool)
}

type nopObserver struct{}

func (nopObserver) ObserveMeasurement(time.Duration, bool) {}
func (nopObserver) SetChartState(string, bool)             {}

// Options configures an App.
type Options struct {
	Cars     []karma.Car
	Measurer engine.Measurer
	Source   engine.Source
	Config   config.Config
	Recorder engine.Recorder
	Observer Observer
	Logger   *slog.Logger
}

// App is the root Bubble Tea model for karma.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    config.Config
	cars   []karma.Car
	calc   engine.Measurer
	logger *slog.Logger
	obs    Observer

	engine  *engine.Engine
	surface *chart.Surface
	resize  *resizeHub
	frames  *frameQueue
	slider  *rangeControl
	cache   *engine.Cache
	pager   pager

	// Run state
	run         model.RunIdentity
	pending     engine.Pending
	lo, hi      int
	targets     []int
	chart       chartState
	sweepID     string
	stopSweep   context.CancelFunc
	sweeping    bool
	failed      map[int]bool
	history     *model.SparklineHistory
	lastErr     error
	selection   *model.Measurement
	selErr      error
	calculating bool

	// Layout
	width, height int

	// UI state
	showHelp bool
}

// NewApp creates an App. Options.Cars, Measurer and Source are required.
func NewApp(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	app := &App{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     opts.Config,
		cars:    opts.Cars,
		calc:    opts.Measurer,
		logger:  logger,
		obs:     obs,
		surface: &chart.Surface{},
		resize:  newResizeHub(),
		frames:  &frameQueue{interval: opts.Config.FrameInterval},
		slider:  newRangeControl(),
		cache:   engine.NewCache(),
		pager:   newPager(),
		run: model.RunIdentity{
			LapCount:    opts.Config.LapCount,
			PlayerCount: opts.Config.PlayerCount,
		},
		history: model.NewSparklineHistory(0),
	}
	app.engine = engine.New(engine.Options{
		Gate:     engine.NewGate(opts.Source, opts.Config.GateDelay, opts.Config.GateAttempts, logger),
		Surface:  app.surface,
		Layout:   engine.NewLayoutSynchronizer(app.resize, app.frames, app.slider, opts.Config.WidthBuffer),
		Theme:    ChartTheme,
		Recorder: opts.Recorder,
		Logger:   logger,
	})
	return app
}

// Init implements tea.Model. Starts the first run.
func (app *App) Init() tea.Cmd {
	return app.restart()
}

// restart supersedes the current run: the chart is torn down, the previous
// sweep cancelled and a new sweep started for app.run.
func (app *App) restart() tea.Cmd {
	if app.stopSweep != nil {
		app.stopSweep()
	}
	app.lo, app.hi = karma.TargetRange(app.cars, app.run.LapCount)
	app.targets = karma.SliderTargets(app.lo, app.hi)
	app.failed = make(map[int]bool)
	app.history.Clear()
	app.lastErr = nil
	app.calculating = false
	app.chart = chartWaiting
	app.obs.SetChartState(app.chart.String(), false)

	app.pending = app.engine.Begin(float64(app.lo), float64(app.hi), app.run)
	app.showCached()

	ctx, stop := context.WithCancel(app.ctx)
	app.stopSweep = stop
	sweep := engine.NewSweep(app.run, spreadOrder(app.targets), app.cfg.Workers, app.calc, app.cache, app.logger)
	app.sweepID = sweep.ID
	app.sweeping = true
	results := make(chan engine.Result, app.cfg.Workers)

	app.logger.Info("run started",
		"lap_count", app.run.LapCount,
		"player_count", app.run.PlayerCount,
		"target_min", app.lo,
		"target_max", app.hi,
		"sweep", sweep.ID)

	return tea.Batch(
		awaitChartCmd(app.ctx, app.engine, app.pending),
		sweepCmd(ctx, sweep, results),
		listenCmd(results, sweep.ID),
	)
}

// spreadOrder reorders targets so a sweep fills the plot coarse to fine.
func spreadOrder(targets []int) []int {
	out := make([]int, 0, len(targets))
	for _, i := range karma.SpreadIndices(len(targets)) {
		out = append(out, targets[i])
	}
	return out
}

// Update implements tea.Model. It is the single goroutine that touches the
// engine.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height
		app.surface.Width = msg.Width
		app.surface.Height = app.chartRows()
		app.resize.fire()

	case FrameMsg:
		app.frames.run()

	case GateResultMsg:
		cmd = app.completeChart(msg)

	case ResultMsg:
		app.applyResult(msg.Result)
		return app, tea.Batch(listenCmd(msg.src, msg.Result.SweepID), app.frames.cmd())

	case SweepDoneMsg:
		if msg.SweepID == app.sweepID {
			app.sweeping = false
		}

	case SelectionMsg:
		app.applySelection(msg)

	case tea.KeyMsg:
		cmd = app.handleKey(msg)
	}

	return app, tea.Batch(cmd, app.frames.cmd())
}

func (app *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		app.shutdown()
		return tea.Quit
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
	case key.Matches(msg, keys.Restart):
		return app.restart()
	case key.Matches(msg, keys.Left):
		return app.moveSlider(-1)
	case key.Matches(msg, keys.Right):
		return app.moveSlider(1)
	case key.Matches(msg, keys.JumpLeft):
		return app.moveSlider(-jumpStep)
	case key.Matches(msg, keys.JumpRight):
		return app.moveSlider(jumpStep)
	case key.Matches(msg, keys.Select):
		return app.calculateSelected()
	case key.Matches(msg, keys.MoreLaps):
		return app.setRun(app.run.LapCount+1, app.run.PlayerCount)
	case key.Matches(msg, keys.FewerLaps):
		return app.setRun(app.run.LapCount-1, app.run.PlayerCount)
	case key.Matches(msg, keys.MorePlayers):
		return app.setRun(app.run.LapCount, app.run.PlayerCount+1)
	case key.Matches(msg, keys.FewerPlayers):
		return app.setRun(app.run.LapCount, app.run.PlayerCount-1)
	case app.selection != nil:
		app.pager.Update(msg, len(app.selection.Subsets))
	}
	return nil
}

// Close stops the running sweep and any pending chart wait.
func (app *App) Close() { app.shutdown() }

func (app *App) shutdown() {
	if app.stopSweep != nil {
		app.stopSweep()
	}
	app.cancel()
}

// setRun switches to a new run when the parameters are in range.
func (app *App) setRun(laps, players int) tea.Cmd {
	if laps < 1 || laps > len(app.cars) || players < 0 || players > config.MaxPlayerCount {
		return nil
	}
	app.run = model.RunIdentity{LapCount: laps, PlayerCount: players}
	return app.restart()
}

func (app *App) completeChart(msg GateResultMsg) tea.Cmd {
	if msg.Err != nil {
		if !app.engine.Fail(msg.Pending, msg.Err) || errors.Is(msg.Err, context.Canceled) {
			return nil
		}
		app.chart = chartUnavailable
		app.lastErr = msg.Err
		app.obs.SetChartState(app.chart.String(), false)
		return nil
	}
	if err := app.engine.Complete(msg.Pending, msg.Lib); err != nil {
		if !errors.Is(err, engine.ErrSuperseded) {
			app.chart = chartUnavailable
			app.lastErr = err
			app.logger.Error("chart construction failed", "error", err)
			app.obs.SetChartState(app.chart.String(), false)
		}
		return nil
	}
	app.chart = chartReady
	app.obs.SetChartState(app.chart.String(), true)
	app.replay()
	return nil
}

// replay plots what is already known about the active run: cached
// measurements in ascending target order, then failures.
func (app *App) replay() {
	for _, m := range app.cache.Entries(app.run) {
		app.engine.Upsert(float64(m.Target), m.Similarity*100, m.Run)
	}
	for _, target := range slices.Sorted(maps.Keys(app.failed)) {
		app.engine.Mark(float64(target), app.run)
	}
}

func (app *App) applyResult(r engine.Result) {
	app.obs.ObserveMeasurement(r.Elapsed, r.Err != nil)
	if r.Run == app.run {
		app.history.Push(model.SparklinePoint{
			Timestamp:  time.Now(),
			Target:     r.Target,
			Elapsed:    r.Elapsed,
			Similarity: r.Measurement.Similarity,
			Failed:     r.Err != nil,
		})
	}
	if r.Err != nil {
		if r.Run == app.run {
			app.failed[r.Target] = true
		}
		app.engine.Mark(float64(r.Target), r.Run)
		return
	}
	app.engine.Upsert(float64(r.Target), r.Measurement.Similarity*100, r.Run)
}

func (app *App) selectedTarget() int {
	return karma.TargetAt(app.lo, app.hi, app.slider.index)
}

func (app *App) moveSlider(delta int) tea.Cmd {
	if app.slider.move(delta) {
		app.showCached()
	}
	return nil
}

// showCached shows the cached measurement of the selected target, if any.
func (app *App) showCached() {
	app.selErr = nil
	app.selection = nil
	app.pager.reset()
	if m, ok := app.cache.Get(app.selectedTarget(), app.run); ok {
		app.selection = &m
	}
}

// calculateSelected measures the selected target unless it is cached.
func (app *App) calculateSelected() tea.Cmd {
	if app.calculating {
		return nil
	}
	target := app.selectedTarget()
	if _, ok := app.cache.Get(target, app.run); ok {
		app.showCached()
		return nil
	}
	app.calculating = true
	app.selErr = nil
	return selectCmd(app.ctx, app.calc, target, app.run)
}

func (app *App) applySelection(msg SelectionMsg) {
	if msg.Run != app.run {
		return
	}
	app.calculating = false
	if msg.Err != nil {
		app.failed[msg.Target] = true
		app.engine.Mark(float64(msg.Target), msg.Run)
		if msg.Target == app.selectedTarget() {
			app.selection, app.selErr = nil, msg.Err
		}
		return
	}
	app.cache.Put(msg.Measurement)
	app.engine.Upsert(float64(msg.Target), msg.Measurement.Similarity*100, msg.Run)
	if msg.Target == app.selectedTarget() {
		m := msg.Measurement
		app.selection, app.selErr = &m, nil
		app.pager.reset()
	}
}

func (app *App) chartRows() int {
	return max(minChartRows, app.height-chromeRows-resultRows)
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	parts := []string{renderBanner(app)}

	if v := app.engine.View(); v != "" {
		parts = append(parts, v)
	} else {
		parts = append(parts, renderChartPlaceholder(app))
	}
	if s := app.slider.View(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, renderReadout(app))
	if r := renderResults(app); r != "" {
		parts = append(parts, r)
	}
	parts = append(parts, renderFooter(app))

	return strings.Join(parts, "\n")
}

// awaitChartCmd waits for the chart library off the event loop.
func awaitChartCmd(ctx context.Context, eng *engine.Engine, p engine.Pending) tea.Cmd {
	return func() tea.Msg {
		lib, err := eng.AwaitLibrary(ctx)
		return GateResultMsg{Pending: p, Lib: lib, Err: err}
	}
}

// sweepCmd runs sweep and closes results when it ends.
func sweepCmd(ctx context.Context, sweep *engine.Sweep, results chan engine.Result) tea.Cmd {
	return func() tea.Msg {
		_ = sweep.Run(ctx, results)
		close(results)
		return nil
	}
}

// listenCmd waits for the next result of a sweep.
func listenCmd(results <-chan engine.Result, sweepID string) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return SweepDoneMsg{SweepID: sweepID}
		}
		return ResultMsg{Result: r, src: results}
	}
}

// selectCmd measures one target for the results panel.
func selectCmd(ctx context.Context, m engine.Measurer, target int, run model.RunIdentity) tea.Cmd {
	return func() tea.Msg {
		res, err := m.Measure(ctx, target, run)
		return SelectionMsg{Target: target, Run: run, Measurement: res, Err: err}
	}
}
