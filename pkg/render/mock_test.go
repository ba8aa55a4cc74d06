package render

import (
	"errors"

	"github.com/cfoust/portals/pkg/geom"
	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/trace"
	"github.com/cfoust/portals/pkg/view"
)

var (
	_ World          = &mockWorld{}
	_ Clipper        = &mockClipper{}
	_ Surfaces       = &mockSurfaces{}
	_ Overlays       = &mockOverlays{}
	_ Canvas         = &mockCanvas{}
	_ trace.Tracer   = &mockTracer{}
	_ portal.Surface = &mockSurface{}
	_ portal.Camera  = &mockCamera{}
)

type mockWorld struct {
	contexts []Context
	windows  []int
	visit    func(ctx Context)
	renderer *Renderer
}

func (m *mockWorld) Traverse(ctx Context) {
	m.contexts = append(m.contexts, ctx)
	if ctx.Window != nil && m.renderer != nil {
		current := m.renderer.CurrentWindow()
		if current == ctx.Window {
			m.windows = append(m.windows, ctx.Window.Portal.ID)
		}
	}
	if m.visit != nil {
		m.visit(ctx)
	}
}

type clipCall struct {
	minX, maxX int
}

type mockClipper struct {
	refuse bool
	calls  []clipCall
}

func (m *mockClipper) SetupClipRegion(minX, maxX int, top, bottom []float32) bool {
	m.calls = append(m.calls, clipCall{minX, maxX})
	return !m.refuse
}

type mockSurface struct {
	params  portal.SurfaceParams
	columns map[int][2]int
}

func (m *mockSurface) MarkColumn(x, top, bottom int) {
	m.columns[x] = [2]int{top, bottom}
}

type mockSurfaces struct {
	surfaces []*mockSurface
	claims   []clipCall
}

func (m *mockSurfaces) FindOrAccumulate(params portal.SurfaceParams) portal.Surface {
	for _, s := range m.surfaces {
		if s.params == params {
			return s
		}
	}
	s := &mockSurface{params: params, columns: make(map[int][2]int)}
	m.surfaces = append(m.surfaces, s)
	return s
}

func (m *mockSurfaces) ClaimRange(s portal.Surface, minX, maxX int) portal.Surface {
	m.claims = append(m.claims, clipCall{minX, maxX})
	return s
}

type push struct {
	worldSpace bool
	overlay    *portal.Overlay
	eye        view.Viewpoint
}

type mockOverlays struct {
	eye    *view.Context
	pushes []push
}

func (m *mockOverlays) PushOverlay(worldSpace bool, overlay *portal.Overlay) {
	p := push{worldSpace: worldSpace, overlay: overlay}
	if m.eye != nil {
		p.eye = m.eye.Current()
	}
	m.pushes = append(m.pushes, p)
}

type fill struct {
	x, top, bottom int
	colour         byte
}

type mockCanvas struct {
	fills []fill
}

func (m *mockCanvas) FillColumn(x, top, bottom int, colour byte) {
	m.fills = append(m.fills, fill{x, top, bottom, colour})
}

type mockTracer struct {
	events []trace.Event
	fail   bool
}

func (m *mockTracer) Record(event trace.Event) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.events = append(m.events, event)
	return nil
}

type mockCamera struct {
	position geom.Vector
	angle    view.Angle
}

func (m *mockCamera) Position() geom.Vector { return m.position }
func (m *mockCamera) Angle() view.Angle     { return m.angle }

type lineTable map[portal.LineID][2]geom.Vector

func (l lineTable) LineEnds(id portal.LineID) (geom.Vector, geom.Vector, bool) {
	ends, ok := l[id]
	return ends[0], ends[1], ok
}

var LINES = lineTable{
	1: {geom.NewVector(0, 0, 0), geom.NewVector(0, 64, 0)},
	2: {geom.NewVector(256, 0, 0), geom.NewVector(256, 64, 0)},
}
