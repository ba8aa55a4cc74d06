package portal

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

const OverlayChains = 32

// SurfaceParams is the resolved description of a flat visible surface.
type SurfaceParams struct {
	Height  float64
	Texture int
	Light   int16
	XOffset float64
	YOffset float64
	Angle   float64
}

func (p SurfaceParams) hash() uint64 {
	var buf [42]byte
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(p.Height))
	binary.LittleEndian.PutUint64(buf[8:], uint64(p.Texture))
	binary.LittleEndian.PutUint16(buf[16:], uint16(p.Light))
	binary.LittleEndian.PutUint64(buf[18:], math.Float64bits(p.XOffset))
	binary.LittleEndian.PutUint64(buf[26:], math.Float64bits(p.YOffset))
	binary.LittleEndian.PutUint64(buf[34:], math.Float64bits(p.Angle))
	return xxhash.Sum64(buf[:])
}

// Surface collects the screen columns a flat is visible through.
type Surface interface {
	MarkColumn(x, top, bottom int)
}

type overlayEntry struct {
	params  SurfaceParams
	surface Surface
}

// Overlay accumulates surfaces that are composited after a portal's main
// content has been drawn.
type Overlay struct {
	chains [OverlayChains][]overlayEntry
	count  int
}

func NewOverlay() *Overlay {
	return &Overlay{}
}

// FindOrAdd returns the surface already stored for params, or stores the
// one produced by create.
func (o *Overlay) FindOrAdd(params SurfaceParams, create func() Surface) Surface {
	chain := &o.chains[params.hash()%OverlayChains]
	for _, entry := range *chain {
		if entry.params == params {
			return entry.surface
		}
	}

	surface := create()
	*chain = append(*chain, overlayEntry{params, surface})
	o.count++
	return surface
}

func (o *Overlay) Len() int { return o.count }

func (o *Overlay) Each(fn func(SurfaceParams, Surface)) {
	for _, chain := range o.chains {
		for _, entry := range chain {
			fn(entry.params, entry.surface)
		}
	}
}

// Clear empties every chain, keeping their storage.
func (o *Overlay) Clear() {
	for i := range o.chains {
		clear(o.chains[i])
		o.chains[i] = o.chains[i][:0]
	}
	o.count = 0
}
