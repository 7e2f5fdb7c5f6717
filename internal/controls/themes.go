package controls

import (
	"sort"
	"strconv"
)

// UnknownThemeError is returned when a theme name has no registered
// palette. The load phase surfaces it either as a fatal unit failure or an
// advisory violation, depending on batch policy.
type UnknownThemeError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownThemeError) Error() string {
	return "controls: unknown theme " + strconv.Quote(e.Name)
}

// themePalettes maps the shipped theme names to their color roles.
var themePalettes = map[string]map[string]string{
	"Office2019Colorful": {
		"accent": "#217346",
		"back":   "#FFFFFF",
		"fore":   "#262626",
		"border": "#D4D4D4",
	},
	"Office2019Black": {
		"accent": "#217346",
		"back":   "#252525",
		"fore":   "#F0F0F0",
		"border": "#3C3C3C",
	},
	"FluentLight": {
		"accent": "#0078D4",
		"back":   "#FAFAFA",
		"fore":   "#1B1B1B",
		"border": "#E0E0E0",
	},
	"FluentDark": {
		"accent": "#0078D4",
		"back":   "#1F1F1F",
		"fore":   "#F3F3F3",
		"border": "#404040",
	},
	"HighContrastBlack": {
		"accent": "#FFFF00",
		"back":   "#000000",
		"fore":   "#FFFFFF",
		"border": "#FFFFFF",
	},
}

// DefaultTheme is applied to every control at construction.
const DefaultTheme = "Office2019Colorful"

// ThemeNames returns the shipped theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themePalettes))
	for name := range themePalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PaletteFor returns a copy of the named theme's palette.
func PaletteFor(theme string) (map[string]string, bool) {
	src, ok := themePalettes[theme]
	if !ok {
		return nil, false
	}
	palette := make(map[string]string, len(src))
	for role, color := range src {
		palette[role] = color
	}
	return palette, true
}
