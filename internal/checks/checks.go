// Package checks holds the built-in category checks the batch runner
// executes against constructed controls: theme identity, palette colors,
// and layout properties. Checks are pure inspections; they configure
// nothing.
package checks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/batch"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/controls"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/model"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
)

// Default returns the standard category set.
func Default() batch.CheckSet {
	return batch.CheckSet{
		"theme":  Theme,
		"colors": Colors,
		"layout": Layout,
	}
}

// styled extracts the inspection surface, recording a violation when the
// target is not a library control at all.
func styled(target *resolve.Constructed, category string) (controls.Styled, *model.Violation) {
	s, ok := target.Value.(controls.Styled)
	if !ok {
		return nil, &model.Violation{
			Category: category,
			Message:  fmt.Sprintf("target %q (%T) exposes no style surface", target.Target, target.Value),
		}
	}
	return s, nil
}

// Theme verifies the control carries the expected theme name.
func Theme(_ context.Context, target *resolve.Constructed, expected model.Expected) []model.Violation {
	if expected.Theme == "" {
		return nil
	}
	s, v := styled(target, "theme")
	if v != nil {
		return []model.Violation{*v}
	}
	if got := s.ThemeName(); got != expected.Theme {
		return []model.Violation{{
			Category: "theme",
			Property: "theme",
			Want:     expected.Theme,
			Got:      got,
			Message:  fmt.Sprintf("theme is %q, want %q", got, expected.Theme),
		}}
	}
	return nil
}

// Colors verifies palette roles against "color.<role>" expectations, and,
// when a theme is expected, against that theme's shipped palette.
func Colors(_ context.Context, target *resolve.Constructed, expected model.Expected) []model.Violation {
	s, v := styled(target, "colors")
	if v != nil {
		return []model.Violation{*v}
	}
	palette := s.Palette()
	var violations []model.Violation

	for name, want := range expected.Props {
		role, ok := strings.CutPrefix(name, "color.")
		if !ok {
			continue
		}
		got, present := palette[role]
		if !present {
			violations = append(violations, model.Violation{
				Category: "colors",
				Property: name,
				Want:     want,
				Message:  fmt.Sprintf("palette has no role %q", role),
			})
			continue
		}
		if !strings.EqualFold(got, want) {
			violations = append(violations, model.Violation{
				Category: "colors",
				Property: name,
				Want:     want,
				Got:      got,
				Message:  fmt.Sprintf("palette role %q is %s, want %s", role, got, want),
			})
		}
	}

	if expected.Theme != "" {
		if shipped, ok := controls.PaletteFor(expected.Theme); ok {
			for role, want := range shipped {
				if got := palette[role]; !strings.EqualFold(got, want) {
					violations = append(violations, model.Violation{
						Category: "colors",
						Property: "palette." + role,
						Want:     want,
						Got:      got,
						Message:  fmt.Sprintf("role %q does not match theme %q", role, expected.Theme),
					})
				}
			}
		}
	}
	return violations
}

// Layout verifies width/height/dock/visible expectations.
func Layout(_ context.Context, target *resolve.Constructed, expected model.Expected) []model.Violation {
	s, v := styled(target, "layout")
	if v != nil {
		return []model.Violation{*v}
	}
	width, height, dock := s.Layout()
	actual := map[string]string{
		"width":   strconv.Itoa(width),
		"height":  strconv.Itoa(height),
		"dock":    dock,
		"visible": strconv.FormatBool(s.Visible()),
	}

	var violations []model.Violation
	for name, want := range expected.Props {
		got, ok := actual[name]
		if !ok {
			continue
		}
		if got != want {
			violations = append(violations, model.Violation{
				Category: "layout",
				Property: name,
				Want:     want,
				Got:      got,
				Message:  fmt.Sprintf("%s is %s, want %s", name, got, want),
			})
		}
	}
	return violations
}
