package controls

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Button is the simplest control: one parameterless constructor.
type Button struct {
	Control
}

// NewButton constructs a Button.
func NewButton() *Button {
	return &Button{Control: newControl("Button")}
}

// DataGrid is a tabular control. Its richer constructor takes a logger and
// a settings file path; the parameterless one uses defaults.
type DataGrid struct {
	Control
	logger       *slog.Logger
	settingsPath string
	columns      int
}

// NewDataGrid constructs a DataGrid with default settings.
func NewDataGrid() *DataGrid {
	return newDataGrid(slog.New(slog.NewTextHandler(io.Discard, nil)), "")
}

// NewDataGridWithSettings constructs a DataGrid that logs through logger
// and persists its layout to settingsPath.
func NewDataGridWithSettings(logger *slog.Logger, settingsPath string) (*DataGrid, error) {
	if logger == nil {
		return nil, errors.New("controls: DataGrid requires a logger")
	}
	return newDataGrid(logger, settingsPath), nil
}

func newDataGrid(logger *slog.Logger, settingsPath string) *DataGrid {
	g := &DataGrid{
		Control:      newControl("DataGrid"),
		logger:       logger,
		settingsPath: settingsPath,
		columns:      8,
	}
	g.width, g.height = 640, 480
	return g
}

// Columns returns the configured column count.
func (g *DataGrid) Columns() int { return g.columns }

// ThemeStudioViewModel drives theme selection for the studio controls. The
// resolver recognizes it as a nested view-model by naming convention.
type ThemeStudioViewModel struct {
	ActiveTheme string
	Dirty       bool
}

// NewThemeStudioViewModel constructs the view-model with the default theme
// selected.
func NewThemeStudioViewModel() *ThemeStudioViewModel {
	return &ThemeStudioViewModel{ActiveTheme: DefaultTheme}
}

// Select marks a theme active.
func (vm *ThemeStudioViewModel) Select(theme string) {
	vm.ActiveTheme = theme
	vm.Dirty = true
}

// RibbonBar binds to a ThemeStudioViewModel; constructing it without one
// is not supported by the library.
type RibbonBar struct {
	Control
	vm *ThemeStudioViewModel
}

// NewRibbonBar constructs a RibbonBar over a view-model.
func NewRibbonBar(vm *ThemeStudioViewModel, logger *slog.Logger) (*RibbonBar, error) {
	if vm == nil {
		return nil, errors.New("controls: RibbonBar requires a view-model")
	}
	if logger == nil {
		return nil, errors.New("controls: RibbonBar requires a logger")
	}
	bar := &RibbonBar{Control: newControl("RibbonBar"), vm: vm}
	bar.dock = "top"
	bar.height = 120
	return bar, nil
}

// Model returns the bound view-model.
func (b *RibbonBar) Model() *ThemeStudioViewModel { return b.vm }

// ChartRenderer abstracts the series rasterizer a ChartControl draws
// through. The harness registers a no-op stub for it.
type ChartRenderer interface {
	RenderSeries(name string, points int) error
}

// NoopChartRenderer is the registered stub: it accepts every series and
// draws nothing.
type NoopChartRenderer struct{}

// RenderSeries implements ChartRenderer.
func (NoopChartRenderer) RenderSeries(string, int) error { return nil }

// ChartControl plots series through a renderer.
type ChartControl struct {
	Control
	renderer ChartRenderer
}

// NewChartControl constructs a ChartControl. The renderer is exercised at
// construction, so a nil renderer fails immediately instead of at first
// paint.
func NewChartControl(renderer ChartRenderer) (*ChartControl, error) {
	if renderer == nil {
		return nil, errors.New("controls: ChartControl requires a renderer")
	}
	if err := renderer.RenderSeries("warmup", 0); err != nil {
		return nil, fmt.Errorf("controls: chart renderer rejected warmup: %w", err)
	}
	chart := &ChartControl{Control: newControl("ChartControl"), renderer: renderer}
	chart.width, chart.height = 800, 450
	return chart, nil
}

// TooltipProvider supplies hover text. Controls guard it against nil, so
// the registry marks it nil-tolerant.
type TooltipProvider interface {
	TooltipFor(element string) string
}

// DockManager hosts dockable panels. Its tooltip provider is optional.
type DockManager struct {
	Control
	tooltips TooltipProvider
}

// NewDockManager constructs a DockManager. A nil tooltip provider is
// valid; tooltips are simply empty.
func NewDockManager(tooltips TooltipProvider) *DockManager {
	m := &DockManager{Control: newControl("DockManager"), tooltips: tooltips}
	m.dock = "fill"
	return m
}

// Tooltip returns hover text for an element, empty without a provider.
func (m *DockManager) Tooltip(element string) string {
	if m.tooltips == nil {
		return ""
	}
	return m.tooltips.TooltipFor(element)
}

// FlakyGauge models a control whose preferred constructor fails at
// runtime: the parameterless path cannot attach its telemetry channel, the
// logger-backed path can.
type FlakyGauge struct {
	Control
	logger *slog.Logger
}

// NewFlakyGauge always fails; it exists so resolution exercises the
// next-candidate fallback.
func NewFlakyGauge() (*FlakyGauge, error) {
	return nil, errors.New("controls: gauge telemetry channel unavailable without a logger")
}

// NewFlakyGaugeWithLogger constructs the gauge with telemetry routed to
// logger.
func NewFlakyGaugeWithLogger(logger *slog.Logger) (*FlakyGauge, error) {
	if logger == nil {
		return nil, errors.New("controls: FlakyGauge requires a logger")
	}
	g := &FlakyGauge{Control: newControl("FlakyGauge"), logger: logger}
	g.width, g.height = 160, 160
	return g, nil
}

// SpreadsheetControl recalculates on a background goroutine from the
// moment it is constructed; Dispose must stop that worker, which is
// exactly the kind of teardown that fails noisily in the real library.
type SpreadsheetControl struct {
	Control
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewSpreadsheetControl constructs the control and starts its recalc
// worker.
func NewSpreadsheetControl() *SpreadsheetControl {
	s := &SpreadsheetControl{
		Control: newControl("SpreadsheetControl"),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.width, s.height = 1024, 768
	go s.recalcLoop()
	return s
}

func (s *SpreadsheetControl) recalcLoop() {
	defer close(s.done)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// Recalc tick; headless, so there is nothing to redraw.
		}
	}
}

// Dispose stops the recalc worker before releasing the base control.
// Concurrent or repeated calls stop the worker exactly once; all but the
// first report ErrDisposed.
func (s *SpreadsheetControl) Dispose() error {
	first := false
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
		first = true
	})
	if !first {
		return ErrDisposed
	}
	return s.Control.Dispose()
}

// PivotEngine is a concrete dependency the harness never registers, so
// PivotView is deliberately unconstructible through resolution.
type PivotEngine struct {
	cube map[string][]float64
}

// PivotView is the one library type whose only constructor demands an
// unregistered concrete type.
type PivotView struct {
	Control
	engine *PivotEngine
}

// NewPivotView constructs a PivotView over an existing engine.
func NewPivotView(engine *PivotEngine) (*PivotView, error) {
	if engine == nil {
		return nil, errors.New("controls: PivotView requires an engine")
	}
	return &PivotView{Control: newControl("PivotView"), engine: engine}, nil
}
