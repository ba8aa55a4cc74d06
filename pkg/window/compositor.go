package window

import (
	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/view"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

// Compositor hands out windows for the current frame and merges the
// columns visibility code feeds into them. Released windows are kept in a
// pool and reused verbatim, column buffers included, until the screen
// size changes.
//
// A Compositor is not safe for concurrent use.
type Compositor struct {
	width  int
	height int
	eye    *view.Context

	free  []*Window
	queue []*Window
	next  int

	allocated int
}

func New(width, height int, eye *view.Context) *Compositor {
	if width <= 0 || height <= 0 {
		log.Panic().Msgf("invalid screen size %dx%d", width, height)
	}
	return &Compositor{
		width:  width,
		height: height,
		eye:    eye,
	}
}

func (c *Compositor) Width() int  { return c.width }
func (c *Compositor) Height() int { return c.height }

func (c *Compositor) alloc() *Window {
	var w *Window
	if n := len(c.free); n > 0 {
		w = c.free[n-1]
		c.free[n-1] = nil
		c.free = c.free[:n-1]
	} else {
		w = newWindow(c.width)
		c.allocated++
	}

	w.reset(c.width, c.height)
	return w
}

// Claim returns the pending window for (p, kind, line), creating and
// queueing one if none exists. The line only distinguishes line windows.
func (c *Compositor) Claim(p *portal.Portal, kind Kind, line opt.Option[portal.LineID]) *Window {
	if p == nil {
		log.Panic().Msg("window claimed for nil portal")
	}

	for _, w := range c.queue[c.next:] {
		if w.Portal != p || w.Kind != kind {
			continue
		}
		if kind == KindLine && !sameLine(w.Line, line) {
			continue
		}
		return w
	}

	w := c.alloc()
	w.Portal = p
	w.Kind = kind
	w.Line = line
	c.queue = append(c.queue, w)
	return w
}

func sameLine(a, b opt.Option[portal.LineID]) bool {
	if opt.IsNone(a) || opt.IsNone(b) {
		return opt.IsNone(a) && opt.IsNone(b)
	}
	return a.Value == b.Value
}

func (c *Compositor) ClaimFloor(p *portal.Portal) *Window {
	return c.Claim(p, KindFloor, opt.None[portal.LineID]())
}

func (c *Compositor) ClaimCeiling(p *portal.Portal) *Window {
	return c.Claim(p, KindCeiling, opt.None[portal.LineID]())
}

func (c *Compositor) ClaimLine(p *portal.Portal, line portal.LineID) *Window {
	return c.Claim(p, KindLine, opt.Some(line))
}

func (c *Compositor) createChild(parent *Window) {
	if parent.child != nil {
		log.Panic().Msg("child window displaced")
	}

	child := c.alloc()
	child.head = parent.head
	child.Portal = parent.Portal
	child.Line = parent.Line
	child.Kind = parent.Kind
	parent.child = child
}

// AddColumn adds the span [top, bottom) at column x to w. A span that
// cannot merge with the one already stored at x goes to w's child.
func (c *Compositor) AddColumn(w *Window, x int, top, bottom float32) {
	if w == nil {
		log.Panic().Msg("column added to nil window")
	}
	if x < 0 || x >= c.width {
		log.Panic().Msgf("column out of bounds (%d)", x)
	}

	windowTop, windowBottom := w.Top[x], w.Bottom[x]
	if windowTop < windowBottom &&
		(windowTop < 0 || windowBottom > float32(c.height)) {
		log.Panic().Msgf(
			"window had bad opening data: x:%d, top:%f, bottom:%f",
			x, windowTop, windowBottom,
		)
	}

	if bottom < 0 || top >= float32(c.height) {
		return
	}
	top = max(top, 0)
	bottom = min(bottom, float32(c.height))
	// Also rejects NaN spans.
	if !(top < bottom) {
		return
	}

	if x >= w.MinX && x <= w.MaxX {
		if windowTop >= windowBottom {
			w.Top[x] = top
			w.Bottom[x] = bottom
			return
		}

		if top > windowBottom || bottom < windowTop {
			if w.child == nil {
				c.createChild(w)
			}
			c.AddColumn(w.child, x, top, bottom)
			return
		}

		if top < windowTop {
			w.Top[x] = top
		}
		if bottom > windowBottom {
			w.Bottom[x] = bottom
		}
		return
	}

	switch {
	case w.Empty():
		w.MinX, w.MaxX = x, x
		w.Snapshot = c.eye.Current()
	case x > w.MaxX:
		w.MaxX = x
	default:
		w.MinX = x
	}
	w.Top[x] = top
	w.Bottom[x] = bottom
}

// Verify panics if any occupied column of w lies outside the screen.
func (c *Compositor) Verify(w *Window) {
	for x := range w.Top {
		top, bottom := w.Top[x], w.Bottom[x]
		if top < bottom && (top < 0 || bottom > float32(c.height)) {
			log.Panic().Msgf(
				"clipping array contained invalid information: x:%d, top:%f, bottom:%f",
				x, top, bottom,
			)
		}
	}
}

// Next pops the oldest pending window, or returns nil once the frame queue
// is drained. Windows claimed while a popped window renders are queued
// behind the ones already pending.
func (c *Compositor) Next() *Window {
	if c.next >= len(c.queue) {
		clear(c.queue)
		c.queue = c.queue[:0]
		c.next = 0
		return nil
	}

	w := c.queue[c.next]
	c.queue[c.next] = nil
	c.next++
	return w
}

// Release returns w and its whole child chain to the pool.
func (c *Compositor) Release(w *Window) {
	for w != nil {
		child := w.child
		w.child = nil
		w.head = nil
		w.Portal = nil
		c.free = append(c.free, w)
		w = child
	}
}

func (c *Compositor) Pending() int { return len(c.queue) - c.next }

func (c *Compositor) FreeLen() int { return len(c.free) }

// Allocated is the number of windows ever created at the current screen
// size, the pool's high-water mark.
func (c *Compositor) Allocated() int { return c.allocated }

// Resize drops every pooled and queued window; their column buffers are
// sized for the old screen.
func (c *Compositor) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		log.Panic().Msgf("invalid screen size %dx%d", width, height)
	}

	c.width = width
	c.height = height
	c.free = nil
	c.queue = nil
	c.next = 0
	c.allocated = 0
}
