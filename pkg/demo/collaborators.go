package demo

import (
	"github.com/cfoust/portals/pkg/portal"

	"github.com/cespare/xxhash/v2"
)

// surface paints the columns it is given straight into the frame.
type surface struct {
	scene  *Scene
	colour byte
	minX   int
	maxX   int
}

func (s *surface) MarkColumn(x, top, bottom int) {
	s.scene.paint(x, top, bottom, s.colour)
}

type column struct {
	x, top, bottom int
}

// overlaySurface holds its columns until the overlay is pushed.
type overlaySurface struct {
	scene   *Scene
	colour  byte
	columns []column
}

func (s *overlaySurface) MarkColumn(x, top, bottom int) {
	s.columns = append(s.columns, column{x, top, bottom})
}

func (s *overlaySurface) flush() {
	for _, c := range s.columns {
		s.scene.paint(c.x, c.top, c.bottom, s.colour)
	}
	s.columns = s.columns[:0]
}

func (s *Scene) SetupClipRegion(minX, maxX int, top, bottom []float32) bool {
	s.stats.Clips++
	for x := max(minX, 0); x <= maxX && x < len(top); x++ {
		if top[x] < bottom[x] {
			return true
		}
	}
	return false
}

func (s *Scene) FindOrAccumulate(params portal.SurfaceParams) portal.Surface {
	if existing, ok := s.surfaces[params]; ok {
		return existing
	}

	created := &surface{
		scene:  s,
		colour: byte(params.Texture),
		minX:   s.width,
		maxX:   -1,
	}
	s.surfaces[params] = created
	s.stats.Surfaces++
	return created
}

func (s *Scene) ClaimRange(target portal.Surface, minX, maxX int) portal.Surface {
	flat, ok := target.(*surface)
	if !ok {
		return target
	}
	flat.minX = min(flat.minX, minX)
	flat.maxX = max(flat.maxX, maxX)
	return flat
}

func (s *Scene) PushOverlay(worldSpace bool, overlay *portal.Overlay) {
	s.stats.Pushes++
	if worldSpace {
		s.stats.WorldPushes++
	}
	if overlay == nil {
		return
	}

	overlay.Each(func(_ portal.SurfaceParams, target portal.Surface) {
		if pending, ok := target.(*overlaySurface); ok {
			pending.flush()
		}
	})
}

func (s *Scene) FillColumn(x, top, bottom int, colour byte) {
	s.stats.Fills++
	s.paint(x, top, bottom, colour)
}

func (s *Scene) paint(x, top, bottom int, colour byte) {
	if x < 0 || x >= s.width {
		return
	}
	for y := max(top, 0); y < min(bottom, s.height); y++ {
		s.pixels[y*s.width+x] = colour
	}
}

// Clear blanks the frame and forgets the previous frame's surfaces.
func (s *Scene) Clear() {
	clear(s.pixels)
	clear(s.surfaces)
}

func (s *Scene) Width() int  { return s.width }
func (s *Scene) Height() int { return s.height }

func (s *Scene) At(x, y int) byte { return s.pixels[y*s.width+x] }

func (s *Scene) Pixels() []byte { return s.pixels }

// Checksum identifies the frame's contents.
func (s *Scene) Checksum() uint64 { return xxhash.Sum64(s.pixels) }
