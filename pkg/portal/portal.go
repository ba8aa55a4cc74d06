package portal

import (
	"github.com/cfoust/portals/pkg/geom"
	"github.com/cfoust/portals/pkg/view"
)

type LineID int

type RegionID int

// SurfaceRefs points at live sector state. The portal never copies the
// values, so it always reflects the sector as it is when drawn.
type SurfaceRefs struct {
	Texture   *int
	Height    *float64
	Light     *int16
	XOffset   *float64
	YOffset   *float64
	BaseAngle *float64
	Angle     *float64
}

func (r SurfaceRefs) complete() bool {
	return r.Texture != nil && r.Height != nil && r.Light != nil &&
		r.XOffset != nil && r.YOffset != nil &&
		r.BaseAngle != nil && r.Angle != nil
}

// Resolve reads the referenced values. The flat angle is the sum of the
// base angle and the current angle.
func (r SurfaceRefs) Resolve() SurfaceParams {
	return SurfaceParams{
		Height:  *r.Height,
		Texture: *r.Texture,
		Light:   *r.Light,
		XOffset: *r.XOffset,
		YOffset: *r.YOffset,
		Angle:   *r.BaseAngle + *r.Angle,
	}
}

// PlaneParams describe a sky plane. Height is relative to the eye.
type PlaneParams SurfaceRefs

type HorizonParams struct {
	Floor   SurfaceRefs
	Ceiling SurfaceRefs
}

// Camera is a viewpoint-bearing world entity used by skybox portals.
// Cameras are matched by identity, so implementations must be comparable
// (normally a pointer).
type Camera interface {
	Position() geom.Vector
	Angle() view.Angle
}

type AnchorData struct {
	Marker LineID
	Anchor LineID
	Delta  geom.Vector
}

type LinkData struct {
	AnchorData
	FromRegion RegionID
	ToRegion   RegionID
	PlaneZ     float64
}

type Portal struct {
	ID   int
	Kind Kind

	plane   PlaneParams
	horizon HorizonParams
	camera  Camera
	anchor  AnchorData
	link    LinkData

	taint   int
	overlay *Overlay
}

func newPortal(id int, kind Kind) *Portal {
	return &Portal{
		ID:      id,
		Kind:    kind,
		overlay: NewOverlay(),
	}
}

func (p *Portal) Plane() PlaneParams { return p.plane }

func (p *Portal) Horizon() HorizonParams { return p.horizon }

func (p *Portal) Camera() Camera { return p.camera }

// Anchor returns the translation data of anchored, two-way and linked
// portals.
func (p *Portal) Anchor() AnchorData {
	if p.Kind == KindLinked {
		return p.link.AnchorData
	}
	return p.anchor
}

func (p *Portal) Link() LinkData { return p.link }

// Delta is the eye translation applied when rendering through p.
func (p *Portal) Delta() geom.Vector { return p.Anchor().Delta }

// Line reports the marker line a portal was created from, for diagnostics.
func (p *Portal) Line() LineID { return p.Anchor().Marker }

func (p *Portal) Overlay() *Overlay { return p.overlay }

func (p *Portal) Taint() int { return p.taint }

// Tainted is true once p has been drawn more than limit times this frame.
func (p *Portal) Tainted(limit int) bool { return p.taint > limit }

func (p *Portal) MarkRendered() { p.taint++ }

func (p *Portal) ResetTaint() { p.taint = 0 }
