package controls

import (
	"context"
	"fmt"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/model"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
)

// StyleLoader implements the batch load phase for library controls: it
// applies the expected theme and property values to a freshly constructed
// instance. The category checks then verify what actually took effect.
type StyleLoader struct{}

// Load applies expected configuration to the constructed target.
func (StyleLoader) Load(ctx context.Context, target *resolve.Constructed, expected model.Expected) error {
	logger := ctxlog.FromContext(ctx)

	styleable, ok := target.Value.(Styleable)
	if !ok {
		return fmt.Errorf("controls: target %q (%T) is not styleable", target.Target, target.Value)
	}

	if expected.Theme != "" {
		if err := styleable.ApplyTheme(expected.Theme); err != nil {
			return fmt.Errorf("applying theme: %w", err)
		}
		logger.Debug("Theme applied.", "target", target.Target, "theme", expected.Theme)
	}

	for name, value := range expected.Props {
		if isColorExpectation(name) {
			// Color expectations are assertions against the palette the
			// theme installed, not settable properties.
			continue
		}
		if err := styleable.SetProp(name, value); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}
	return nil
}

// isColorExpectation reports whether a property name addresses a palette
// role ("color.accent" etc.) rather than a layout property.
func isColorExpectation(name string) bool {
	return len(name) > 6 && name[:6] == "color."
}
