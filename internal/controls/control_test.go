package controls

import (
	"image"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNewControlDefaults(t *testing.T) {
	b := NewButton()
	require.Equal(t, DefaultTheme, b.ThemeName())
	require.True(t, b.Visible())

	w, h, dock := b.Layout()
	require.Equal(t, 300, w)
	require.Equal(t, 200, h)
	require.Equal(t, "none", dock)
}

func TestApplyThemeSwapsPalette(t *testing.T) {
	b := NewButton()
	require.NoError(t, b.ApplyTheme("FluentDark"))
	require.Equal(t, "FluentDark", b.ThemeName())
	require.Equal(t, "#0078D4", b.Palette()["accent"])

	var ute *UnknownThemeError
	err := b.ApplyTheme("Metro2010")
	require.ErrorAs(t, err, &ute)
	require.Equal(t, "Metro2010", ute.Name)
	require.Equal(t, "FluentDark", b.ThemeName(), "failed theme switch must not change state")
}

func TestSetPropValidation(t *testing.T) {
	b := NewButton()

	require.NoError(t, b.SetProp("width", "500"))
	require.NoError(t, b.SetProp("dock", "fill"))
	require.NoError(t, b.SetProp("visible", "false"))

	w, _, dock := b.Layout()
	require.Equal(t, 500, w)
	require.Equal(t, "fill", dock)
	require.False(t, b.Visible())

	require.Error(t, b.SetProp("width", "abc"))
	require.Error(t, b.SetProp("dock", "sideways"))
	require.Error(t, b.SetProp("opacity", "0.5"))
}

func TestSetPropClampsDimensions(t *testing.T) {
	b := NewButton()

	require.NoError(t, b.SetProp("width", "99999"))
	require.NoError(t, b.SetProp("height", "-5"))
	w, h, _ := b.Layout()
	require.Equal(t, 4096, w)
	require.Equal(t, 0, h)
}

func TestDisposeIsIdempotent(t *testing.T) {
	b := NewButton()
	require.NoError(t, b.Dispose())
	require.ErrorIs(t, b.Dispose(), ErrDisposed)
	require.ErrorIs(t, b.ApplyTheme("FluentLight"), ErrDisposed)
	require.ErrorIs(t, b.SetProp("width", "10"), ErrDisposed)
}

func TestPropertiesExposeStateToSnippets(t *testing.T) {
	b := NewButton()
	require.NoError(t, b.ApplyTheme("HighContrastBlack"))

	props := b.Properties()
	require.Equal(t, cty.StringVal("Button"), props["kind"])
	require.Equal(t, cty.StringVal("HighContrastBlack"), props["theme"])
	require.Equal(t, cty.True, props["visible"])

	palette := props["palette"]
	require.Equal(t, cty.StringVal("#FFFF00"), palette.GetAttr("accent"))
}

func TestSnapshotRendersPaletteColors(t *testing.T) {
	b := NewButton()
	require.NoError(t, b.SetProp("width", "10"))
	require.NoError(t, b.SetProp("height", "8"))

	img, err := b.Snapshot()
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 10, 8), img.Bounds())

	// Border pixels carry the accent, interior pixels the background.
	accent, _ := parseHexColor(b.Palette()["accent"])
	back, _ := parseHexColor(b.Palette()["back"])
	require.Equal(t, accent, img.At(0, 0))
	require.Equal(t, back, img.At(5, 4))
}

func TestSnapshotAfterDisposeFails(t *testing.T) {
	b := NewButton()
	require.NoError(t, b.Dispose())
	_, err := b.Snapshot()
	require.ErrorIs(t, err, ErrDisposed)
}

func TestSpreadsheetDisposeStopsRecalcWorker(t *testing.T) {
	s := NewSpreadsheetControl()
	require.NoError(t, s.Dispose())
	select {
	case <-s.done:
	default:
		t.Fatal("recalc worker still running after dispose")
	}
	require.ErrorIs(t, s.Dispose(), ErrDisposed)
}

func TestSpreadsheetConcurrentDispose(t *testing.T) {
	s := NewSpreadsheetControl()

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Dispose()
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, ErrDisposed)
		}
	}
	require.Equal(t, 1, ok, "exactly one caller wins the dispose")
}

func TestDockManagerToleratesNilTooltips(t *testing.T) {
	m := NewDockManager(nil)
	require.Equal(t, "", m.Tooltip("anything"))
}

func TestFlakyGaugeConstructorPair(t *testing.T) {
	_, err := NewFlakyGauge()
	require.Error(t, err)

	g, err := NewFlakyGaugeWithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Equal(t, "FlakyGauge", g.Kind())
}

func TestThemeNamesSortedAndCopied(t *testing.T) {
	names := ThemeNames()
	require.Contains(t, names, "FluentLight")

	p1, ok := PaletteFor("FluentLight")
	require.True(t, ok)
	p1["accent"] = "tampered"
	p2, _ := PaletteFor("FluentLight")
	require.NotEqual(t, "tampered", p2["accent"], "PaletteFor must hand out copies")
}
