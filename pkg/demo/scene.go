// Package demo is a synthetic level for driving the portal renderer
// without a map loader or a rasteriser. Every feature covers a fixed
// screen rectangle and is seen by any view whose clip region overlaps it.
package demo

import (
	"math"

	"github.com/cfoust/portals/pkg/config"
	"github.com/cfoust/portals/pkg/geom"
	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/render"
	"github.com/cfoust/portals/pkg/view"
	"github.com/cfoust/portals/pkg/window"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

const (
	LineWest    portal.LineID = 1
	LineEast    portal.LineID = 2
	LineHorizon portal.LineID = 3
)

// WallColour is painted behind everything, offset by traversal depth.
const WallColour byte = 96

type lineTable map[portal.LineID][2]geom.Vector

func (l lineTable) LineEnds(id portal.LineID) (geom.Vector, geom.Vector, bool) {
	ends, ok := l[id]
	return ends[0], ends[1], ok
}

var LINES = lineTable{
	LineWest:    {geom.NewVector(0, 0, 0), geom.NewVector(0, 128, 0)},
	LineEast:    {geom.NewVector(512, 0, 0), geom.NewVector(512, 128, 0)},
	LineHorizon: {geom.NewVector(256, 1024, 0), geom.NewVector(384, 1024, 0)},
}

type camera struct {
	position geom.Vector
	angle    view.Angle
}

func (c *camera) Position() geom.Vector { return c.position }
func (c *camera) Angle() view.Angle     { return c.angle }

// sector is the live state plane and horizon portals point into.
type sector struct {
	texture int
	height  float64
	light   int16
	xoff    float64
	yoff    float64
	base    float64
	angle   float64
}

func (s *sector) refs() portal.SurfaceRefs {
	return portal.SurfaceRefs{
		Texture:   &s.texture,
		Height:    &s.height,
		Light:     &s.light,
		XOffset:   &s.xoff,
		YOffset:   &s.yoff,
		BaseAngle: &s.base,
		Angle:     &s.angle,
	}
}

type feature struct {
	portal *portal.Portal
	kind   window.Kind
	line   portal.LineID

	minX, maxX  int
	top, bottom float32
}

func (f *feature) claim(windows *window.Compositor) *window.Window {
	switch f.kind {
	case window.KindFloor:
		return windows.ClaimFloor(f.portal)
	case window.KindCeiling:
		return windows.ClaimCeiling(f.portal)
	}
	return windows.ClaimLine(f.portal, f.line)
}

type Stats struct {
	Traversals int
	MaxDepth   int
	// Columns is the number of spans handed to the compositor.
	Columns     int
	Clips       int
	Surfaces    int
	Pushes      int
	WorldPushes int
	Fills       int
}

// Scene is a level and every collaborator the renderer needs to draw it.
type Scene struct {
	width  int
	height int

	registry *portal.Registry
	features []feature

	sky     *camera
	floor   sector
	ceiling sector

	pixels   []byte
	surfaces map[portal.SurfaceParams]*surface
	stats    Stats
}

var (
	_ portal.LineSource = (*Scene)(nil)
	_ render.World      = (*Scene)(nil)
	_ render.Clipper    = (*Scene)(nil)
	_ render.Surfaces   = (*Scene)(nil)
	_ render.Overlays   = (*Scene)(nil)
	_ render.Canvas     = (*Scene)(nil)
)

func has(layout, scene config.Scene) bool {
	return layout == scene || layout == config.SceneAll
}

func New(width, height int, layout config.Scene) *Scene {
	if width < 4 || height < 4 {
		log.Panic().Msgf("demo scene cannot fit in %dx%d", width, height)
	}

	s := &Scene{
		width:    width,
		height:   height,
		sky:      &camera{position: geom.NewVector(0, 0, 2048), angle: view.Angle90},
		floor:    sector{texture: 32, height: -64, light: 192},
		ceiling:  sector{texture: 48, height: 192, light: 160},
		pixels:   make([]byte, width*height),
		surfaces: make(map[portal.SurfaceParams]*surface),
	}
	s.registry = portal.NewRegistry(s)

	quarter := width / 4
	var (
		all    = float32(height)
		top    = float32(height / 4)
		bottom = float32(3 * height / 4)
	)

	if has(layout, config.SceneFacing) {
		west := s.registry.GetOrCreateAnchored(LineWest, LineEast)
		east := s.registry.GetOrCreateAnchored(LineEast, LineWest)
		s.features = append(s.features,
			feature{
				portal: west,
				kind:   window.KindLine,
				line:   LineWest,
				minX:   quarter,
				maxX:   2*quarter - 1,
				top:    top,
				bottom: bottom,
			},
			feature{
				portal: east,
				kind:   window.KindLine,
				line:   LineEast,
				minX:   2 * quarter,
				maxX:   3*quarter - 1,
				top:    top,
				bottom: bottom,
			},
		)
	}

	if has(layout, config.SceneSkybox) {
		s.features = append(s.features, feature{
			portal: s.registry.GetOrCreateSkybox(s.sky),
			kind:   window.KindCeiling,
			minX:   0,
			maxX:   width - 1,
			top:    0,
			bottom: top,
		})
	}

	if has(layout, config.ScenePlane) {
		plane := s.registry.GetOrCreatePlane(portal.PlaneParams(s.floor.refs()))
		if opt.IsSome(plane) {
			s.features = append(s.features, feature{
				portal: plane.Value,
				kind:   window.KindFloor,
				minX:   0,
				maxX:   width - 1,
				top:    bottom,
				bottom: all,
			})
		}
	}

	if has(layout, config.SceneHorizon) {
		horizon := s.registry.GetOrCreateHorizon(portal.HorizonParams{
			Floor:   s.floor.refs(),
			Ceiling: s.ceiling.refs(),
		})
		if opt.IsSome(horizon) {
			s.features = append(s.features, feature{
				portal: horizon.Value,
				kind:   window.KindLine,
				line:   LineHorizon,
				minX:   3 * quarter,
				maxX:   width - 1,
				top:    top,
				bottom: bottom,
			})
		}
	}

	log.Debug().
		Str("layout", string(layout)).
		Int("portals", s.registry.Len()).
		Msg("demo scene built")
	return s
}

func (s *Scene) LineEnds(id portal.LineID) (geom.Vector, geom.Vector, bool) {
	return LINES.LineEnds(id)
}

func (s *Scene) Registry() *portal.Registry { return s.registry }

func (s *Scene) Stats() Stats { return s.stats }

// span clips [top, bottom) at column x to the traversal's window.
func span(ctx render.Context, x int, top, bottom float32) (float32, float32, bool) {
	if ctx.Top != nil {
		top = max(top, ctx.Top[x])
		bottom = min(bottom, ctx.Bottom[x])
	}
	return top, bottom, top < bottom
}

func rows(top, bottom float32) (int, int) {
	return int(top), int(math.Ceil(float64(bottom)))
}

func (s *Scene) Traverse(ctx render.Context) {
	s.stats.Traversals++
	s.stats.MaxDepth = max(s.stats.MaxDepth, ctx.Depth)

	for x := ctx.MinX; x <= ctx.MaxX; x++ {
		if top, bottom, ok := span(ctx, x, 0, float32(s.height)); ok {
			y1, y2 := rows(top, bottom)
			s.paint(x, y1, y2, WallColour+byte(ctx.Depth))
		}
	}

	// Nothing can be seen from inside the sky box.
	if ctx.Window != nil && ctx.Window.Portal.Kind == portal.KindSkybox {
		return
	}

	for i := range s.features {
		s.see(ctx, &s.features[i])
	}

	if ctx.Overlay != nil {
		s.overlayFloor(ctx)
	}
}

func (s *Scene) see(ctx render.Context, f *feature) {
	var w *window.Window
	for x := max(f.minX, ctx.MinX); x <= min(f.maxX, ctx.MaxX); x++ {
		top, bottom, ok := span(ctx, x, f.top, f.bottom)
		if !ok {
			continue
		}
		if w == nil {
			w = f.claim(ctx.Windows)
		}
		ctx.Windows.AddColumn(w, x, top, bottom)
		s.stats.Columns++
	}
}

// overlayFloor collects the floor seen at the foot of a portal window, to
// be drawn when the portal's overlay is pushed.
func (s *Scene) overlayFloor(ctx render.Context) {
	params := s.floor.refs().Resolve()
	target := ctx.Overlay.FindOrAdd(params, func() portal.Surface {
		return &overlaySurface{scene: s, colour: byte(params.Texture)}
	})

	for x := ctx.MinX; x <= ctx.MaxX; x++ {
		if top, bottom, ok := span(ctx, x, 0, float32(s.height)); ok {
			y1, y2 := rows(top, bottom)
			target.MarkColumn(x, y1+3*(y2-y1)/4, y2)
		}
	}
}
