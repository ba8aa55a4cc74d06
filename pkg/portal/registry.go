package portal

import (
	"github.com/cfoust/portals/pkg/geom"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

// LineSource resolves line identifiers to their endpoints.
type LineSource interface {
	LineEnds(id LineID) (v1, v2 geom.Vector, ok bool)
}

// Registry holds every portal of the current level. A (kind, parameters)
// pair maps to exactly one portal for as long as the level is loaded, so
// taint and overlay state are shared by all windows looking through it.
//
// Lookups are linear; levels carry tens of portals, not thousands.
type Registry struct {
	lines   LineSource
	portals []*Portal
}

func NewRegistry(lines LineSource) *Registry {
	return &Registry{lines: lines}
}

func (r *Registry) create(kind Kind) *Portal {
	p := newPortal(len(r.portals), kind)
	r.portals = append(r.portals, p)
	log.Debug().
		Int("portal", p.ID).
		Str("kind", kind.String()).
		Msg("created portal")
	return p
}

// deltas is the offset from the anchor line's midpoint to the marker's.
// Portals only translate horizontally, so Z stays zero.
func (r *Registry) deltas(marker, anchor LineID) geom.Vector {
	m1, m2, ok := r.lines.LineEnds(marker)
	if !ok {
		log.Panic().Msgf("portal marker line %d does not exist", marker)
	}
	a1, a2, ok := r.lines.LineEnds(anchor)
	if !ok {
		log.Panic().Msgf("portal anchor line %d does not exist", anchor)
	}

	delta := geom.Midpoint(m1, m2).Sub(geom.Midpoint(a1, a2))
	delta.Z = 0
	return delta
}

// GetOrCreatePlane returns None if any of the references is missing.
func (r *Registry) GetOrCreatePlane(params PlaneParams) opt.Option[*Portal] {
	if !SurfaceRefs(params).complete() {
		return opt.None[*Portal]()
	}

	for _, p := range r.portals {
		if p.Kind == KindPlane && p.plane == params {
			return opt.Some(p)
		}
	}

	p := r.create(KindPlane)
	p.plane = params
	return opt.Some(p)
}

// GetOrCreateHorizon returns None if any of the references is missing.
func (r *Registry) GetOrCreateHorizon(params HorizonParams) opt.Option[*Portal] {
	if !params.Floor.complete() || !params.Ceiling.complete() {
		return opt.None[*Portal]()
	}

	for _, p := range r.portals {
		if p.Kind == KindHorizon && p.horizon == params {
			return opt.Some(p)
		}
	}

	p := r.create(KindHorizon)
	p.horizon = params
	return opt.Some(p)
}

func (r *Registry) GetOrCreateSkybox(camera Camera) *Portal {
	if camera == nil {
		log.Panic().Msg("skybox portal requested without a camera")
	}

	for _, p := range r.portals {
		if p.Kind == KindSkybox && p.camera == camera {
			return p
		}
	}

	p := r.create(KindSkybox)
	p.camera = camera
	return p
}

func (r *Registry) getOrCreateAnchor(kind Kind, marker, anchor LineID) *Portal {
	data := AnchorData{
		Marker: marker,
		Anchor: anchor,
		Delta:  r.deltas(marker, anchor),
	}

	for _, p := range r.portals {
		if p.Kind == kind && p.anchor.Delta == data.Delta {
			return p
		}
	}

	p := r.create(kind)
	p.anchor = data
	return p
}

func (r *Registry) GetOrCreateAnchored(marker, anchor LineID) *Portal {
	return r.getOrCreateAnchor(KindAnchored, marker, anchor)
}

func (r *Registry) GetOrCreateTwoWay(marker, anchor LineID) *Portal {
	return r.getOrCreateAnchor(KindTwoWay, marker, anchor)
}

func (r *Registry) GetOrCreateLinked(marker, anchor LineID, planeZ float64, from, to RegionID) *Portal {
	data := LinkData{
		AnchorData: AnchorData{
			Marker: marker,
			Anchor: anchor,
			Delta:  r.deltas(marker, anchor),
		},
		FromRegion: from,
		ToRegion:   to,
		PlaneZ:     planeZ,
	}

	for _, p := range r.portals {
		if p.Kind != KindLinked {
			continue
		}
		if p.link.Delta == data.Delta &&
			p.link.FromRegion == from &&
			p.link.ToRegion == to &&
			p.link.PlaneZ == planeZ {
			return p
		}
	}

	p := r.create(KindLinked)
	p.link = data
	return p
}

// Portals lists the level's portals in creation order.
func (r *Registry) Portals() []*Portal { return r.portals }

func (r *Registry) Len() int { return len(r.portals) }

// Reset forgets every portal. Called when a level is unloaded.
func (r *Registry) Reset() {
	r.portals = nil
}

func (r *Registry) ResetTaint() {
	for _, p := range r.portals {
		p.ResetTaint()
	}
}

func (r *Registry) ClearOverlays() {
	for _, p := range r.portals {
		p.overlay.Clear()
	}
}
