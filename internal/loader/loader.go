// Package loader plans which chunks must be fetched for the current
// viewport. It owns no I/O: callers fetch the returned requests and feed the
// results (or failures) back into the store.
package loader

import (
	"gopix/internal/camera"
	"gopix/internal/grid"
)

// Request is one chunk fetch the caller should issue. The token travels with
// the fetch and comes back to Store.ApplyChunk so the merge policy can order
// the payload against concurrent deltas.
type Request struct {
	Chunk grid.ChunkCoord
	Token grid.LoadToken
}

type Loader struct {
	store *grid.Store
}

func New(store *grid.Store) *Loader {
	return &Loader{store: store}
}

// Plan returns fetch requests for every chunk overlapping the camera's
// visible rectangle that is neither loaded nor already being fetched, and
// marks each one loading. Scanning the whole visible range covers the
// single-axis, diagonal, zoom-out and initial-load cases uniformly: a pan
// that crosses a chunk boundary exposes exactly the next chunk in the
// direction of travel, and a diagonal crossing exposes the corner neighbor
// as well.
func (l *Loader) Plan(cam camera.Camera) []Request {
	x0, y0, x1, y1 := cam.VisibleCells()
	c0 := grid.ToChunk(x0, y0)
	c1 := grid.ToChunk(x1, y1)

	var reqs []Request
	for cy := c0.Y; cy <= c1.Y; cy++ {
		for cx := c0.X; cx <= c1.X; cx++ {
			c := grid.ChunkCoord{X: cx, Y: cy}
			if l.store.IsPending(c) {
				continue
			}
			tok, ok := l.store.MarkLoading(c)
			if !ok {
				continue
			}
			reqs = append(reqs, Request{Chunk: c, Token: tok})
		}
	}
	return reqs
}

// Fail reverts a request whose fetch errored so a later Plan retries it.
func (l *Loader) Fail(r Request) {
	l.store.ClearLoading(r.Chunk)
}
