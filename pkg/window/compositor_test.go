package window

import (
	"math"
	"testing"

	"github.com/cfoust/portals/pkg/geom"
	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/view"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	WIDTH  = 320
	HEIGHT = 200
)

type lines struct{}

func (lines) LineEnds(id portal.LineID) (geom.Vector, geom.Vector, bool) {
	x := float64(id) * 256
	return geom.NewVector(x, 0, 0), geom.NewVector(x, 64, 0), true
}

func setup(t *testing.T) (*Compositor, *view.Context, *portal.Registry) {
	t.Helper()
	eye := view.NewContext(view.NewViewpoint(geom.NewVector(10, 20, 41), 0))
	return New(WIDTH, HEIGHT, eye), eye, portal.NewRegistry(lines{})
}

func assertSpan(t *testing.T, w *Window, x int, top, bottom float32) {
	t.Helper()
	gotTop, gotBottom, ok := w.Span(x)
	require.True(t, ok, "column %d is empty", x)
	assert.Equal(t, top, gotTop)
	assert.Equal(t, bottom, gotBottom)
}

func TestClaimDeduplicates(t *testing.T) {
	c, _, r := setup(t)
	a := r.GetOrCreateAnchored(1, 2)
	b := r.GetOrCreateAnchored(3, 2)

	floor := c.ClaimFloor(a)
	assert.Same(t, floor, c.ClaimFloor(a))
	assert.NotSame(t, floor, c.ClaimCeiling(a))
	assert.NotSame(t, floor, c.ClaimFloor(b))

	line := c.ClaimLine(a, 7)
	assert.Same(t, line, c.ClaimLine(a, 7))
	assert.NotSame(t, line, c.ClaimLine(a, 8))
	assert.Equal(t, portal.LineID(7), line.Line.Value)

	assert.Equal(t, 5, c.Pending())
	assert.True(t, floor.IsHead())
	assert.True(t, floor.Empty())
}

func TestFirstColumnSnapshotsView(t *testing.T) {
	c, eye, r := setup(t)
	w := c.ClaimFloor(r.GetOrCreateAnchored(1, 2))

	c.AddColumn(w, 100, 10, 20)
	assert.Equal(t, 100, w.MinX)
	assert.Equal(t, 100, w.MaxX)
	assert.Equal(t, eye.Current(), w.Snapshot)

	// Later columns keep the original snapshot.
	eye.Set(view.NewViewpoint(geom.NewVector(999, 0, 0), 0))
	c.AddColumn(w, 105, 10, 20)
	c.AddColumn(w, 90, 10, 20)
	assert.Equal(t, geom.NewVector(10, 20, 41), w.Snapshot.Position)
	assert.Equal(t, 90, w.MinX)
	assert.Equal(t, 105, w.MaxX)

	// Columns between the bounds are still empty.
	_, _, ok := w.Span(95)
	assert.False(t, ok)
	c.AddColumn(w, 95, 30, 40)
	assertSpan(t, w, 95, 30, 40)
	assert.Nil(t, w.Child())
}

func TestDisjointSpanCreatesChild(t *testing.T) {
	c, _, r := setup(t)
	w := c.ClaimFloor(r.GetOrCreateAnchored(1, 2))

	c.AddColumn(w, 50, 10, 20)
	c.AddColumn(w, 50, 40, 50)

	assertSpan(t, w, 50, 10, 20)
	child := w.Child()
	require.NotNil(t, child)
	assertSpan(t, child, 50, 40, 50)
	assert.Same(t, w, child.Head())
	assert.False(t, child.IsHead())
	assert.Same(t, w.Portal, child.Portal)
	assert.Equal(t, w.Kind, child.Kind)

	// A third disjoint span goes down the chain, reusing the child.
	c.AddColumn(w, 50, 100, 110)
	assert.Same(t, child, w.Child())
	require.NotNil(t, child.Child())
	assertSpan(t, child.Child(), 50, 100, 110)
	assert.Same(t, w, child.Child().Head())
	assert.Equal(t, 3, w.ChainLen())

	// Children are not queued on their own.
	assert.Equal(t, 1, c.Pending())
}

func TestOverlappingSpansMerge(t *testing.T) {
	c, _, r := setup(t)
	w := c.ClaimFloor(r.GetOrCreateAnchored(1, 2))

	c.AddColumn(w, 50, 10, 20)
	c.AddColumn(w, 50, 15, 30)
	assertSpan(t, w, 50, 10, 30)

	c.AddColumn(w, 50, 5, 12)
	assertSpan(t, w, 50, 5, 30)

	// Touching spans merge as well.
	c.AddColumn(w, 50, 30, 35)
	assertSpan(t, w, 50, 5, 35)

	c.AddColumn(w, 50, 0, 60)
	assertSpan(t, w, 50, 0, 60)
	assert.Nil(t, w.Child())
}

func TestOffscreenSpans(t *testing.T) {
	c, _, r := setup(t)
	w := c.ClaimFloor(r.GetOrCreateAnchored(1, 2))

	c.AddColumn(w, 10, -30, -1)
	c.AddColumn(w, 10, HEIGHT, HEIGHT+5)
	c.AddColumn(w, 10, 20, 20)
	assert.True(t, w.Empty())

	c.AddColumn(w, 10, -15, 30)
	assertSpan(t, w, 10, 0, 30)
	c.AddColumn(w, 11, 150, HEIGHT+40)
	assertSpan(t, w, 11, 150, HEIGHT)
}

func TestNaNSpansIgnored(t *testing.T) {
	c, eye, r := setup(t)
	w := c.ClaimFloor(r.GetOrCreateAnchored(1, 2))
	nan := float32(math.NaN())

	eye.Set(view.NewViewpoint(geom.NewVector(5, 5, 5), 0))
	c.AddColumn(w, 10, nan, 30)
	c.AddColumn(w, 10, 20, nan)
	c.AddColumn(w, 11, nan, nan)
	assert.True(t, w.Empty())
	assert.Equal(t, WIDTH, w.MinX)
	assert.Equal(t, -1, w.MaxX)

	eye.Set(view.NewViewpoint(geom.NewVector(9, 9, 9), 0))
	c.AddColumn(w, 10, 20, 30)
	assertSpan(t, w, 10, 20, 30)
	assert.Equal(t, geom.NewVector(9, 9, 9), w.Snapshot.Position)
}

func TestColumnsStayInBounds(t *testing.T) {
	c, _, r := setup(t)
	w := c.ClaimFloor(r.GetOrCreateAnchored(1, 2))

	spans := [][2]float32{{-50, 10}, {190, 400}, {20, 30}, {60, 70}, {25, 65}, {-1, 0}, {199, 200}}
	for x := 0; x < WIDTH; x += 7 {
		for _, span := range spans {
			c.AddColumn(w, x, span[0], span[1])
		}
	}

	for win := w; win != nil; win = win.Child() {
		for x := range win.Top {
			if top, bottom, ok := win.Span(x); ok {
				assert.GreaterOrEqual(t, top, float32(0))
				assert.LessOrEqual(t, bottom, float32(HEIGHT))
			}
		}
		assert.NotPanics(t, func() { c.Verify(win) })
	}
}

func TestInvariantViolations(t *testing.T) {
	c, _, r := setup(t)
	w := c.ClaimFloor(r.GetOrCreateAnchored(1, 2))

	assert.Panics(t, func() { c.AddColumn(nil, 0, 0, 10) })
	assert.Panics(t, func() { c.AddColumn(w, -1, 0, 10) })
	assert.Panics(t, func() { c.AddColumn(w, WIDTH, 0, 10) })
	assert.Panics(t, func() { c.Claim(nil, KindFloor, opt.None[portal.LineID]()) })

	w.Top[3], w.Bottom[3] = -20, 10
	assert.Panics(t, func() { c.AddColumn(w, 3, 0, 5) })
	assert.Panics(t, func() { c.Verify(w) })

	c.AddColumn(w, 60, 10, 20)
	c.AddColumn(w, 60, 40, 50)
	assert.Panics(t, func() { c.createChild(w) })
}

func TestDrainAndRelease(t *testing.T) {
	c, _, r := setup(t)
	a := r.GetOrCreateAnchored(1, 2)
	b := r.GetOrCreateTwoWay(1, 2)

	first := c.ClaimFloor(a)
	second := c.ClaimCeiling(b)
	c.AddColumn(first, 5, 10, 20)
	c.AddColumn(first, 5, 40, 50)
	c.AddColumn(first, 5, 80, 90)

	assert.Same(t, first, c.Next())
	// Claims made while a window renders do not find the popped window.
	third := c.ClaimFloor(a)
	assert.NotSame(t, first, third)
	c.Release(first)
	assert.Equal(t, 3, c.FreeLen())

	assert.Same(t, second, c.Next())
	c.Release(second)
	assert.Same(t, third, c.Next())
	c.Release(third)
	assert.Nil(t, c.Next())
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 5, c.FreeLen())
	assert.Equal(t, 5, c.Allocated())

	seen := map[*Window]bool{}
	for _, w := range c.free {
		assert.False(t, seen[w])
		seen[w] = true
		assert.Nil(t, w.Child())
	}

	// Pooled windows come back fully reset.
	reused := c.ClaimLine(b, 3)
	assert.True(t, reused.Empty())
	assert.True(t, reused.IsHead())
	assert.Nil(t, reused.Child())
	for x := range reused.Top {
		_, _, ok := reused.Span(x)
		require.False(t, ok)
	}
	assert.Equal(t, 5, c.Allocated())
	assert.Equal(t, 4, c.FreeLen())
}

func TestResize(t *testing.T) {
	c, _, r := setup(t)
	a := r.GetOrCreateAnchored(1, 2)

	c.ClaimFloor(a)
	c.ClaimCeiling(a)
	c.Release(c.Next())
	require.Equal(t, 1, c.FreeLen())
	require.Equal(t, 1, c.Pending())
	c.Resize(640, 400)

	assert.Equal(t, 0, c.FreeLen())
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 0, c.Allocated())

	w := c.ClaimFloor(a)
	assert.Len(t, w.Top, 640)
	c.AddColumn(w, 639, 300, 400)
	assertSpan(t, w, 639, 300, 400)

	assert.Panics(t, func() { c.Resize(0, 10) })
}
