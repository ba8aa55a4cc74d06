// Package window tracks the screen apertures portals are drawn through
// during a frame.
package window

import (
	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/view"

	opt "github.com/repeale/fp-go/option"
)

type Kind byte

const (
	KindFloor Kind = iota
	KindCeiling
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindFloor:
		return "floor"
	case KindCeiling:
		return "ceiling"
	case KindLine:
		return "line"
	}
	return "unknown"
}

// Window is the part of the screen a portal owns this frame. Top and
// Bottom hold a half-open vertical span per screen column; a column is
// occupied when Top < Bottom.
//
// A column that cannot merge with the span already stored goes to the
// child window. Each window has at most one child, so children form a
// chain.
type Window struct {
	Portal *portal.Portal
	Line   opt.Option[portal.LineID]
	Kind   Kind

	Top    []float32
	Bottom []float32
	MinX   int
	MaxX   int

	// Snapshot is the viewpoint that was current when the first column
	// was added.
	Snapshot view.Viewpoint

	child *Window
	head  *Window
}

func newWindow(width int) *Window {
	buf := make([]float32, 2*width)
	return &Window{
		Top:    buf[:width:width],
		Bottom: buf[width:],
	}
}

func (w *Window) reset(width, height int) {
	w.MinX = width
	w.MaxX = -1
	for i := range w.Top {
		w.Top[i] = float32(height)
		w.Bottom[i] = 0
	}

	w.Portal = nil
	w.Line = opt.None[portal.LineID]()
	w.Kind = KindFloor
	w.Snapshot = view.Viewpoint{}
	w.child = nil
	w.head = w
}

func (w *Window) Empty() bool { return w.MinX > w.MaxX }

// Span returns the occupied span of column x, if there is one.
func (w *Window) Span(x int) (top, bottom float32, ok bool) {
	if x < 0 || x >= len(w.Top) {
		return 0, 0, false
	}
	top, bottom = w.Top[x], w.Bottom[x]
	return top, bottom, top < bottom
}

func (w *Window) Child() *Window { return w.child }

// Head is the top-level window of the chain w belongs to.
func (w *Window) Head() *Window { return w.head }

func (w *Window) IsHead() bool { return w.head == w }

// ChainLen counts w and its descendants.
func (w *Window) ChainLen() (n int) {
	for win := w; win != nil; win = win.child {
		n++
	}
	return
}
