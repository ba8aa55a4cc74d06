package render

import (
	"math"

	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/trace"
	"github.com/cfoust/portals/pkg/view"
	"github.com/cfoust/portals/pkg/window"

	"github.com/rs/zerolog/log"
)

func (r *Renderer) dispatch(w *window.Window) {
	switch kind := w.Portal.Kind; {
	case kind == portal.KindPlane:
		r.renderPlane(w)
	case kind == portal.KindHorizon:
		r.renderHorizon(w)
	case kind == portal.KindSkybox:
		r.renderSkybox(w)
	case kind.Relocates():
		r.renderAnchored(w)
	default:
		log.Panic().Msgf("no renderer for portal kind %d", w.Portal.Kind)
	}
}

// rows converts a window span to whole screen rows.
func rows(top, bottom float32) (int, int) {
	return int(top), int(math.Ceil(float64(bottom)))
}

func (r *Renderer) record(w *window.Window, outcome trace.Outcome) {
	if r.tracer == nil {
		return
	}

	err := r.tracer.Record(trace.Event{
		Frame:   r.frame,
		Portal:  w.Portal.ID,
		Kind:    w.Portal.Kind.String(),
		Window:  w.Kind.String(),
		MinX:    w.MinX,
		MaxX:    w.MaxX,
		Taint:   w.Portal.Taint(),
		Head:    w.IsHead(),
		Depth:   r.depth,
		Outcome: outcome,
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("disabling frame trace")
		r.tracer = nil
	}
}

func (r *Renderer) pushOverlay(w *window.Window, worldSpace bool) {
	if w.IsHead() {
		r.overlays.PushOverlay(worldSpace, w.Portal.Overlay())
	} else if worldSpace {
		r.overlays.PushOverlay(worldSpace, nil)
	}
}

func (r *Renderer) renderPlane(w *window.Window) {
	r.current = w
	if w.Empty() {
		r.record(w, trace.OutcomeEmpty)
		return
	}

	params := portal.SurfaceRefs(w.Portal.Plane()).Resolve()
	params.Height += r.eye.Current().Position.Z

	surface := r.surfaces.FindOrAccumulate(params)
	surface = r.surfaces.ClaimRange(surface, w.MinX, w.MaxX)
	for x := w.MinX; x <= w.MaxX; x++ {
		if top, bottom, ok := w.Span(x); ok {
			y1, y2 := rows(top, bottom)
			surface.MarkColumn(x, y1, y2)
		}
	}

	r.pushOverlay(w, false)
	r.record(w, trace.OutcomeRendered)

	if child := w.Child(); child != nil {
		r.renderPlane(child)
	}
}

// renderHorizon splits each column at the centre row: the ceiling
// surface fills what lies above it, the floor surface what lies below.
func (r *Renderer) renderHorizon(w *window.Window) {
	r.current = w
	if w.Empty() {
		r.record(w, trace.OutcomeEmpty)
		return
	}

	horizon := w.Portal.Horizon()
	ceiling := r.surfaces.FindOrAccumulate(horizon.Ceiling.Resolve())
	floor := r.surfaces.FindOrAccumulate(horizon.Floor.Resolve())
	ceiling = r.surfaces.ClaimRange(ceiling, w.MinX, w.MaxX)
	floor = r.surfaces.ClaimRange(floor, w.MinX, w.MaxX)

	centre := r.windows.Height() / 2
	for x := w.MinX; x <= w.MaxX; x++ {
		top, bottom, ok := w.Span(x)
		if !ok {
			continue
		}

		y1, y2 := rows(top, bottom)
		switch {
		case y1 < centre && y2 > centre:
			ceiling.MarkColumn(x, y1, centre)
			floor.MarkColumn(x, centre, y2)
		case y2 <= centre:
			ceiling.MarkColumn(x, y1, y2)
		default:
			floor.MarkColumn(x, y1, y2)
		}
	}
	r.record(w, trace.OutcomeRendered)

	// Overlay content was gathered from where the window was first seen.
	r.eye.With(r.eye.Current().Relocated(w.Snapshot.Position), func() {
		r.pushOverlay(w, false)
		if child := w.Child(); child != nil {
			r.renderHorizon(child)
		}
	})
}

// refuse applies the taint guard. A refused window is optionally painted,
// counts as another draw, and is not descended into.
func (r *Renderer) refuse(w *window.Window) bool {
	p := w.Portal
	if !p.Kind.Recursive() || !p.Tainted(r.taintLimit) {
		return false
	}

	if r.showTainted && r.canvas != nil {
		r.paintTainted(w)
	}
	p.MarkRendered()

	if r.refusals.Allow() {
		r.log.Warn().
			Int("portal", p.ID).
			Int("line", int(p.Line())).
			Int("taint", p.Taint()).
			Msg("refused to draw portal")
	}
	r.record(w, trace.OutcomeRefused)
	return true
}

func (r *Renderer) paintTainted(w *window.Window) {
	for x := w.MinX; x <= w.MaxX; x++ {
		if top, bottom, ok := w.Span(x); ok {
			y1, y2 := rows(top, bottom)
			r.canvas.FillColumn(x, y1, y2, r.taintColour)
		}
	}
	r.taintColour += 16
}

// relocate draws the world through w from eye, with w's columns as the
// clip region. It reports false if the region could not be set up.
func (r *Renderer) relocate(w *window.Window, eye view.Viewpoint) bool {
	r.windows.Verify(w)

	if !r.clipper.SetupClipRegion(w.MinX, w.MaxX, w.Top, w.Bottom) {
		r.record(w, trace.OutcomeClipped)
		return false
	}

	// Counted before traversal so re-entrant windows see it.
	w.Portal.MarkRendered()

	r.eye.With(eye, func() {
		r.depth++
		defer func() { r.depth-- }()

		r.world.Traverse(Context{
			View:    eye,
			Window:  w,
			Kind:    w.Kind,
			MinX:    w.MinX,
			MaxX:    w.MaxX,
			Top:     w.Top,
			Bottom:  w.Bottom,
			Overlay: w.Portal.Overlay(),
			Windows: r.windows,
			Depth:   r.depth,
		})
		r.pushOverlay(w, true)
	})
	r.record(w, trace.OutcomeRendered)
	return true
}

// renderSkybox looks from the skybox camera, turned by the camera's angle
// relative to the current view.
func (r *Renderer) renderSkybox(w *window.Window) {
	r.current = w
	if w.Empty() {
		r.record(w, trace.OutcomeEmpty)
		return
	}
	if r.refuse(w) {
		return
	}

	camera := w.Portal.Camera()
	eye := r.eye.Current().
		Relocated(camera.Position()).
		Rotated(camera.Angle())
	if !r.relocate(w, eye) {
		return
	}

	if child := w.Child(); child != nil {
		r.renderSkybox(child)
	}
}

// renderAnchored translates the viewpoint w was first seen from, not the
// live one, so chained portals compose.
func (r *Renderer) renderAnchored(w *window.Window) {
	r.current = w
	if w.Empty() {
		r.record(w, trace.OutcomeEmpty)
		return
	}
	if r.refuse(w) {
		return
	}

	eye := r.eye.Current().Relocated(w.Snapshot.Position.Add(w.Portal.Delta()))
	if !r.relocate(w, eye) {
		return
	}

	if child := w.Child(); child != nil {
		r.renderAnchored(child)
	}
}
