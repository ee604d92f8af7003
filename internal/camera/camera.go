// Package camera owns the viewport: position, zoom, and input-driven motion.
// All transitions are value-in/value-out so they can be tested without a
// running UI.
package camera

import (
	"math"

	"gopix/internal/grid"
)

const (
	MinWidth = 8
	MaxWidth = 128

	StartWidth = 32

	// ZoomRate is the width change in cells per second at full zoom velocity.
	ZoomRate = 10
)

// Camera is the visible window over the world. X/Y are fractional world
// coordinates (sub-cell precision keeps panning smooth); Width is the number
// of cells visible horizontally. Size (pixels per cell), Height and Speed are
// derived and kept in sync by every transition.
type Camera struct {
	X, Y  float64
	Width float64

	ViewW, ViewH float64

	Size   float64
	Height float64
	Speed  float64
}

func New(viewW, viewH float64) Camera {
	c := Camera{ViewW: viewW, ViewH: viewH, Width: StartWidth}
	return c.derive().Clamp()
}

func (c Camera) derive() Camera {
	if c.Width < MinWidth {
		c.Width = MinWidth
	}
	if c.Width > MaxWidth {
		c.Width = MaxWidth
	}
	if c.ViewW <= 0 || c.ViewH < 0 {
		c.ViewW, c.ViewH = 1, 0
	}
	c.Size = c.ViewW / c.Width
	c.Height = c.ViewH / c.Size
	c.Speed = c.Width / 4
	return c
}

func clampAxis(v, extent float64) float64 {
	lo := float64(grid.MinCoord)
	hi := float64(grid.MaxCoord) - extent
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp forces the position into [MinCoord, MaxCoord - visibleExtent] on
// both axes. Idempotent.
func (c Camera) Clamp() Camera {
	c.X = clampAxis(c.X, c.Width)
	c.Y = clampAxis(c.Y, c.Height)
	return c
}

// Move pans by a world-cell delta and clamps. The bool reports whether the
// position actually changed; callers skip redraw and chunk planning on false.
func (c Camera) Move(dx, dy float64) (Camera, bool) {
	if dx == 0 && dy == 0 {
		return c, false
	}
	n := c
	n.X += dx
	n.Y += dy
	n = n.Clamp()
	return n, n.X != c.X || n.Y != c.Y
}

// Zoom widens or narrows the visible window and re-centers by half the
// width/height delta so the viewport zooms around its center.
func (c Camera) Zoom(dz float64) (Camera, bool) {
	if dz == 0 {
		return c, false
	}
	lastW, lastH := c.Width, c.Height
	n := c
	n.Width += dz
	n = n.derive()
	if n.Width == lastW {
		return c, false
	}
	n, _ = n.Move((lastW-n.Width)/2, (lastH-n.Height)/2)
	return n.Clamp(), true
}

// Resize re-derives the projection for a new viewport pixel size.
func (c Camera) Resize(viewW, viewH float64) Camera {
	c.ViewW = viewW
	c.ViewH = viewH
	return c.derive().Clamp()
}

// Velocity is the input-driven motion state: one unit per axis, set on key
// or button press and cleared on release (or decay, for transports without
// release events).
type Velocity struct {
	X, Y, Z int
}

func (v Velocity) Zero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Integrate advances the camera by dt seconds of the current velocity.
// Pan speed is Width/4 cells per second, so panning covers the viewport at
// the same rate regardless of zoom.
func (c Camera) Integrate(v Velocity, dt float64) (Camera, bool) {
	n, moved := c.Move(dt*float64(v.X)*c.Speed, dt*float64(v.Y)*c.Speed)
	n, zoomed := n.Zoom(dt * float64(v.Z) * ZoomRate)
	return n, moved || zoomed
}

// CellAt projects a viewport pixel position onto the world cell under it.
func (c Camera) CellAt(px, py float64) (int64, int64) {
	return int64(math.Floor(c.X + px/c.Size)), int64(math.Floor(c.Y + py/c.Size))
}

// VisibleCells returns the inclusive world-cell range covered by the
// viewport. The fractional position means up to Width+1 columns and
// Height+1 rows are partially visible.
func (c Camera) VisibleCells() (x0, y0, x1, y1 int64) {
	x0 = int64(math.Floor(c.X))
	y0 = int64(math.Floor(c.Y))
	x1 = int64(math.Floor(c.X + c.Width))
	y1 = int64(math.Floor(c.Y + c.Height))
	return
}
