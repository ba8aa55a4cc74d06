// Package render draws the frame's portal windows: it relocates the eye
// for each portal kind, hands the window's columns to the world traversal
// or the surface accumulator, and recycles windows when they are done.
package render

import (
	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/view"
	"github.com/cfoust/portals/pkg/window"
)

// Context describes one traversal. It is passed by value; nothing in it
// outlives the call it was passed to.
type Context struct {
	View view.Viewpoint

	// Window is nil for the main view.
	Window *window.Window
	// Kind selects the segment clipping used for the window.
	Kind window.Kind

	MinX, MaxX  int
	Top, Bottom []float32

	// Overlay collects surfaces to composite once the window is drawn.
	Overlay *portal.Overlay
	// Windows is where traversal claims windows for the portals it sees.
	Windows *window.Compositor

	Depth int
}

// World walks the level's structure from its root node and draws what is
// visible from ctx.View inside the current clip region.
type World interface {
	Traverse(ctx Context)
}

type Clipper interface {
	// SetupClipRegion establishes per-column occlusion bounds. It returns
	// false when the region is degenerate.
	SetupClipRegion(minX, maxX int, top, bottom []float32) bool
}

type Surfaces interface {
	FindOrAccumulate(params portal.SurfaceParams) portal.Surface
	// ClaimRange returns a surface that may span [minX, maxX], which can be
	// a new one if s already covers part of that range.
	ClaimRange(s portal.Surface, minX, maxX int) portal.Surface
}

type Overlays interface {
	// PushOverlay composites overlay content; overlay is nil when the
	// window's chain already pushed.
	PushOverlay(worldSpace bool, overlay *portal.Overlay)
}

// Canvas receives diagnostic paint.
type Canvas interface {
	FillColumn(x, top, bottom int, colour byte)
}
