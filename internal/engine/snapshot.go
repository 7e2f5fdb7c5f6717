package engine

import (
	"context"
	"image"
	"image/png"
	"os"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
)

// Snapshotter is implemented by controls that can render themselves into a
// bitmap without a display.
type Snapshotter interface {
	Snapshot() (image.Image, error)
}

// captureSnapshot writes a bitmap of the target to path. Capture is
// best-effort by contract: every failure, including a panicking renderer,
// is logged at debug and otherwise ignored. It runs inside the affine
// worker so the render touches the control from its home thread.
func (e *Engine) captureSnapshot(ctx context.Context, target *resolve.Constructed, path string) {
	logger := ctxlog.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("Snapshot capture panicked, ignoring.", "path", path, "panic", r)
		}
	}()

	if target == nil {
		return
	}
	snap, ok := target.Value.(Snapshotter)
	if !ok {
		logger.Debug("Snapshot requested but target cannot render, ignoring.", "path", path)
		return
	}

	img, err := snap.Snapshot()
	if err != nil {
		logger.Debug("Snapshot render failed, ignoring.", "path", path, "error", err)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		logger.Debug("Snapshot file could not be created, ignoring.", "path", path, "error", err)
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		logger.Debug("Snapshot encode failed, ignoring.", "path", path, "error", err)
		return
	}
	logger.Debug("Snapshot written.", "path", path)
}
