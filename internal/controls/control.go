package controls

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrDisposed is returned when a control is touched after teardown.
var ErrDisposed = errors.New("controls: control already disposed")

// maxDimension clamps layout sizes, matching the library's virtual screen
// bounds.
const maxDimension = 4096

// Styled is the read surface the category checks inspect.
type Styled interface {
	ThemeName() string
	Palette() map[string]string
	Layout() (width, height int, dock string)
	Visible() bool
}

// Styleable is the write surface the load phase configures.
type Styleable interface {
	ApplyTheme(name string) error
	SetProp(name, value string) error
}

// Control is the base embedded by every concrete control type. It owns
// theme, palette and layout state and implements disposal, property
// inspection and bitmap capture for the whole library.
type Control struct {
	kind     string
	theme    string
	palette  map[string]string
	width    int
	height   int
	dock     string
	visible  bool
	disposed atomic.Bool
}

func newControl(kind string) Control {
	palette, _ := PaletteFor(DefaultTheme)
	return Control{
		kind:    kind,
		theme:   DefaultTheme,
		palette: palette,
		width:   300,
		height:  200,
		dock:    "none",
		visible: true,
	}
}

// Kind returns the control's type name.
func (c *Control) Kind() string { return c.kind }

// ThemeName implements Styled.
func (c *Control) ThemeName() string { return c.theme }

// Palette implements Styled.
func (c *Control) Palette() map[string]string { return c.palette }

// Layout implements Styled.
func (c *Control) Layout() (int, int, string) { return c.width, c.height, c.dock }

// Visible implements Styled.
func (c *Control) Visible() bool { return c.visible }

// ApplyTheme switches the control to a named theme, replacing its palette.
func (c *Control) ApplyTheme(name string) error {
	if c.disposed.Load() {
		return ErrDisposed
	}
	palette, ok := PaletteFor(name)
	if !ok {
		return &UnknownThemeError{Name: name}
	}
	c.theme = name
	c.palette = palette
	return nil
}

// SetProp applies one named configuration property. Sizes clamp to the
// virtual screen bounds rather than erroring, like the real library.
func (c *Control) SetProp(name, value string) error {
	if c.disposed.Load() {
		return ErrDisposed
	}
	switch name {
	case "width", "height":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("controls: property %s: %w", name, err)
		}
		if n < 0 {
			n = 0
		}
		if n > maxDimension {
			n = maxDimension
		}
		if name == "width" {
			c.width = n
		} else {
			c.height = n
		}
	case "dock":
		switch value {
		case "none", "left", "right", "top", "bottom", "fill":
			c.dock = value
		default:
			return fmt.Errorf("controls: invalid dock value %q", value)
		}
	case "visible":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("controls: property visible: %w", err)
		}
		c.visible = b
	default:
		return fmt.Errorf("controls: unknown property %q", name)
	}
	return nil
}

// Dispose implements the library's teardown contract. It is idempotent;
// the second call reports ErrDisposed, which the teardown coordinator
// suppresses.
func (c *Control) Dispose() error {
	if !c.disposed.CompareAndSwap(false, true) {
		return ErrDisposed
	}
	return nil
}

// Disposed reports whether teardown already ran.
func (c *Control) Disposed() bool { return c.disposed.Load() }

// Properties exposes the control to snippets as the "target" variable.
func (c *Control) Properties() map[string]cty.Value {
	paletteVals := make(map[string]cty.Value, len(c.palette))
	for role, col := range c.palette {
		paletteVals[role] = cty.StringVal(col)
	}
	width, _ := gocty.ToCtyValue(c.width, cty.Number)
	height, _ := gocty.ToCtyValue(c.height, cty.Number)
	return map[string]cty.Value{
		"kind":    cty.StringVal(c.kind),
		"theme":   cty.StringVal(c.theme),
		"width":   width,
		"height":  height,
		"dock":    cty.StringVal(c.dock),
		"visible": cty.BoolVal(c.visible),
		"palette": cty.ObjectVal(paletteVals),
	}
}

// Snapshot renders the control as a flat bitmap: background fill with an
// accent border, sized to the control's layout.
func (c *Control) Snapshot() (image.Image, error) {
	if c.disposed.Load() {
		return nil, ErrDisposed
	}
	w, h := c.width, c.height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("controls: cannot snapshot %dx%d control", w, h)
	}
	back, err := parseHexColor(c.palette["back"])
	if err != nil {
		return nil, err
	}
	accent, err := parseHexColor(c.palette["accent"])
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				img.Set(x, y, accent)
			} else {
				img.Set(x, y, back)
			}
		}
	}
	return img, nil
}

// parseHexColor parses #RRGGBB.
func parseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("controls: malformed color %q", s)
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("controls: malformed color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 0xFF,
	}, nil
}
