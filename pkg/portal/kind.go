package portal

type Kind byte

const (
	KindPlane Kind = iota
	KindHorizon
	KindSkybox
	KindAnchored
	KindTwoWay
	KindLinked
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindHorizon:
		return "horizon"
	case KindSkybox:
		return "skybox"
	case KindAnchored:
		return "anchored"
	case KindTwoWay:
		return "twoway"
	case KindLinked:
		return "linked"
	}
	return "unknown"
}

// Recursive reports whether rendering this kind walks the world again and
// can therefore re-enter portals. Only these kinds are subject to taint.
func (k Kind) Recursive() bool {
	switch k {
	case KindSkybox, KindAnchored, KindTwoWay, KindLinked:
		return true
	}
	return false
}

// Relocates reports whether the kind moves the eye by a fixed translation.
func (k Kind) Relocates() bool {
	return k == KindAnchored || k == KindTwoWay || k == KindLinked
}
