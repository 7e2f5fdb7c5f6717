package app

import (
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/controls"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/registry"
)

// coreModules is the default control library registered when the caller
// passes no modules of its own.
var coreModules = []registry.Module{
	controls.Module{},
}
