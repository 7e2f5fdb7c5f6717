package controls

import (
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/registry"
)

// Module registers the shipped control library into a harness registry.
type Module struct{}

// Register implements registry.Module.
func (Module) Register(r *registry.Registry) {
	r.RegisterTarget("Button",
		&registry.Constructor{Fn: NewButton},
	)
	r.RegisterTarget("DataGrid",
		&registry.Constructor{Fn: NewDataGrid},
		&registry.Constructor{Fn: NewDataGridWithSettings, ParamNames: []string{"logger", "settingsPath"}},
	)
	r.RegisterTarget("ThemeStudioViewModel",
		&registry.Constructor{Fn: NewThemeStudioViewModel},
	)
	r.RegisterTarget("RibbonBar",
		&registry.Constructor{Fn: NewRibbonBar, ParamNames: []string{"viewModel", "logger"}},
	)
	r.RegisterTarget("ChartControl",
		&registry.Constructor{Fn: NewChartControl, ParamNames: []string{"renderer"}},
	)
	r.RegisterTarget("DockManager",
		&registry.Constructor{Fn: NewDockManager, ParamNames: []string{"tooltips"}},
	)
	r.RegisterTarget("FlakyGauge",
		&registry.Constructor{Fn: NewFlakyGauge},
		&registry.Constructor{Fn: NewFlakyGaugeWithLogger, ParamNames: []string{"logger"}},
	)
	r.RegisterTarget("SpreadsheetControl",
		&registry.Constructor{Fn: NewSpreadsheetControl},
	)
	r.RegisterTarget("PivotView",
		&registry.Constructor{Fn: NewPivotView, ParamNames: []string{"engine"}},
	)

	r.RegisterStub((*ChartRenderer)(nil), func() any { return NoopChartRenderer{} })
	r.RegisterNilTolerant((*TooltipProvider)(nil))

	// Shared snippet preamble: the palette roles every theme defines.
	r.RegisterTemplate("palette-roles", `roles = ["accent", "back", "fore", "border"]`)
}
