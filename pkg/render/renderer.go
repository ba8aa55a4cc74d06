package render

import (
	"sync/atomic"

	"github.com/cfoust/portals/pkg/geom"
	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/trace"
	"github.com/cfoust/portals/pkg/view"
	"github.com/cfoust/portals/pkg/window"

	"github.com/petermattis/goid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"
)

const (
	// DefaultTaintLimit is how many times a recursive portal may be drawn
	// in one frame before further windows onto it are refused.
	DefaultTaintLimit = 6

	DefaultRefusalLogRate  = rate.Limit(2)
	DefaultRefusalLogBurst = 8
)

type Options struct {
	Width  int
	Height int

	// Eye defaults to a context at the origin.
	Eye *view.Context

	World    World
	Clipper  Clipper
	Surfaces Surfaces
	Overlays Overlays
	// Canvas is only needed to show refused windows.
	Canvas Canvas
	Tracer trace.Tracer

	TaintLimit      int
	ShowTainted     bool
	RefusalLogRate  rate.Limit
	RefusalLogBurst int
}

// Renderer owns the frame's window queue and draws it once per frame.
// Calls from other goroutines block until any frame in progress has
// finished. Calls made from inside a frame panic.
type Renderer struct {
	mutex deadlock.Mutex
	// owner is the goroutine holding mutex, or zero.
	owner atomic.Int64

	registry *portal.Registry
	windows  *window.Compositor
	eye      *view.Context

	world    World
	clipper  Clipper
	surfaces Surfaces
	overlays Overlays
	canvas   Canvas
	tracer   trace.Tracer

	taintLimit  int
	showTainted bool
	taintColour byte
	refusals    *rate.Limiter

	current *window.Window
	frame   uint64
	depth   int

	log zerolog.Logger
}

func NewRenderer(registry *portal.Registry, options Options) *Renderer {
	if registry == nil {
		log.Panic().Msg("renderer needs a portal registry")
	}
	if options.World == nil || options.Clipper == nil ||
		options.Surfaces == nil || options.Overlays == nil {
		log.Panic().Msg("renderer is missing a collaborator")
	}

	eye := options.Eye
	if eye == nil {
		eye = view.NewContext(view.NewViewpoint(geom.Vector{}, 0))
	}

	limit := options.TaintLimit
	if limit <= 0 {
		limit = DefaultTaintLimit
	}

	logRate, burst := options.RefusalLogRate, options.RefusalLogBurst
	if logRate <= 0 {
		logRate = DefaultRefusalLogRate
	}
	if burst <= 0 {
		burst = DefaultRefusalLogBurst
	}

	return &Renderer{
		registry:    registry,
		windows:     window.New(options.Width, options.Height, eye),
		eye:         eye,
		world:       options.World,
		clipper:     options.Clipper,
		surfaces:    options.Surfaces,
		overlays:    options.Overlays,
		canvas:      options.Canvas,
		tracer:      options.Tracer,
		taintLimit:  limit,
		showTainted: options.ShowTainted,
		refusals:    rate.NewLimiter(logRate, burst),
		log:         log.With().Str("module", "portals").Logger(),
	}
}

func (r *Renderer) Registry() *portal.Registry { return r.registry }

func (r *Renderer) Windows() *window.Compositor { return r.windows }

func (r *Renderer) Eye() *view.Context { return r.eye }

// CurrentWindow is the window being drawn, or nil outside RenderFrame.
func (r *Renderer) CurrentWindow() *window.Window { return r.current }

func (r *Renderer) FrameCount() uint64 { return r.frame }

func (r *Renderer) TaintLimit() int { return r.taintLimit }

func (r *Renderer) SetTaintLimit(limit int) {
	if limit <= 0 {
		limit = DefaultTaintLimit
	}
	r.taintLimit = limit
}

func (r *Renderer) ShowTainted() bool { return r.showTainted }

func (r *Renderer) SetShowTainted(show bool) { r.showTainted = show }

// enter takes the frame lock. Calls from the goroutine already holding it
// come from inside a frame and panic instead of deadlocking; any other
// goroutine waits.
func (r *Renderer) enter(operation string) {
	id := goid.Get()
	if r.owner.Load() == id {
		log.Panic().Msgf("%s called while a frame is being rendered", operation)
	}
	r.mutex.Lock()
	r.owner.Store(id)
}

func (r *Renderer) exit() {
	r.owner.Store(0)
	r.mutex.Unlock()
}

// BeginLevel switches to the portals of a newly loaded level. Windows from
// the previous level are dropped.
func (r *Renderer) BeginLevel(registry *portal.Registry) {
	if registry == nil {
		log.Panic().Msg("level started without a portal registry")
	}

	r.enter("BeginLevel")
	defer r.exit()

	r.registry = registry
	r.windows.Resize(r.windows.Width(), r.windows.Height())
	r.log.Debug().Int("portals", registry.Len()).Msg("level portals ready")
}

// EndLevel forgets the level's portals and every window referring to them.
func (r *Renderer) EndLevel() {
	r.enter("EndLevel")
	defer r.exit()

	r.registry.Reset()
	r.windows.Resize(r.windows.Width(), r.windows.Height())
}

func (r *Renderer) clearFrame() {
	r.registry.ClearOverlays()
	r.registry.ResetTaint()
}

// ClearFrame resets every portal's overlay and taint. Call it once at the
// start of each frame, before any window is claimed.
func (r *Renderer) ClearFrame() {
	r.enter("ClearFrame")
	defer r.exit()
	r.clearFrame()
}

// ResetTaint clears taint counters without touching overlays.
func (r *Renderer) ResetTaint() {
	r.enter("ResetTaint")
	defer r.exit()
	r.registry.ResetTaint()
}

func (r *Renderer) renderFrame() {
	r.frame++
	for w := r.windows.Next(); w != nil; w = r.windows.Next() {
		r.current = w
		if !w.Empty() {
			r.dispatch(w)
		}
		r.current = nil
		r.windows.Release(w)
	}
}

// RenderFrame draws every queued window in the order it was first claimed.
// Windows claimed while drawing are drawn in the same pass.
func (r *Renderer) RenderFrame() {
	r.enter("RenderFrame")
	defer r.exit()
	r.renderFrame()
}

// Frame clears per-frame state, walks the world from the main view and
// then draws the portal windows that walk produced.
func (r *Renderer) Frame() {
	r.enter("Frame")
	defer r.exit()

	r.clearFrame()
	r.world.Traverse(Context{
		View:    r.eye.Current(),
		MinX:    0,
		MaxX:    r.windows.Width() - 1,
		Windows: r.windows,
	})
	r.renderFrame()
}

// OnResolutionChange drops every pooled window, whose column buffers are
// sized for the old screen, and empties every portal's overlay cache.
func (r *Renderer) OnResolutionChange(width, height int) {
	r.enter("OnResolutionChange")
	defer r.exit()

	r.windows.Resize(width, height)
	r.registry.ClearOverlays()
	r.log.Info().Int("width", width).Int("height", height).Msg("portal windows reallocated")
}
