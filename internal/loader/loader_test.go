package loader

import (
	"testing"

	"gopix/internal/camera"
	"gopix/internal/grid"
)

// cam32 places a 32-cell-wide, 16-cell-tall viewport at (x, y).
func cam32(x, y float64) camera.Camera {
	c := camera.New(640, 320)
	c.X, c.Y = x, y
	return c
}

func chunks(reqs []Request) map[grid.ChunkCoord]bool {
	m := make(map[grid.ChunkCoord]bool, len(reqs))
	for _, r := range reqs {
		m[r.Chunk] = true
	}
	return m
}

func loadAll(t *testing.T, s *grid.Store, reqs []Request) {
	t.Helper()
	cells := make([]grid.Cell, int(grid.ChunkSize*grid.ChunkSize))
	for _, r := range reqs {
		if err := s.ApplyChunk(r.Token, cells); err != nil {
			t.Fatalf("apply %v: %v", r.Chunk, err)
		}
	}
}

func TestPlan_InitialViewport(t *testing.T) {
	s := grid.NewStore()
	l := New(s)
	reqs := l.Plan(cam32(0, 0))
	got := chunks(reqs)
	if len(got) != 1 || !got[grid.ChunkCoord{X: 0, Y: 0}] {
		t.Fatalf("initial viewport at origin should need exactly chunk (0,0): %v", got)
	}
}

func TestPlan_PanCrossesXBoundary(t *testing.T) {
	s := grid.NewStore()
	l := New(s)
	loadAll(t, s, l.Plan(cam32(0, 0)))

	// Pan by dx=99: viewport now spans x in [99,131], crossing into chunk 1.
	reqs := l.Plan(cam32(99, 0))
	got := chunks(reqs)
	if len(got) != 1 {
		t.Fatalf("want exactly one request, got %v", got)
	}
	if !got[grid.ChunkCoord{X: 1, Y: 0}] {
		t.Fatalf("want chunk (1,0), got %v", got)
	}
}

func TestPlan_DiagonalCrossingIncludesCorner(t *testing.T) {
	s := grid.NewStore()
	l := New(s)
	loadAll(t, s, l.Plan(cam32(0, 0)))

	reqs := l.Plan(cam32(99, 99))
	got := chunks(reqs)
	want := []grid.ChunkCoord{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("want %d requests, got %v", len(want), got)
	}
	for _, c := range want {
		if !got[c] {
			t.Fatalf("missing chunk %v in %v", c, got)
		}
	}
}

func TestPlan_NegativeQuadrant(t *testing.T) {
	s := grid.NewStore()
	l := New(s)
	reqs := l.Plan(cam32(-1, -1))
	got := chunks(reqs)
	// Viewport spans x in [-1,31], y in [-1,15]: chunks (-1..0, -1..0).
	for _, c := range []grid.ChunkCoord{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 0}} {
		if !got[c] {
			t.Fatalf("missing chunk %v in %v", c, got)
		}
	}
	if len(got) != 4 {
		t.Fatalf("want 4 chunks, got %v", got)
	}
}

func TestPlan_DeduplicatesInFlight(t *testing.T) {
	s := grid.NewStore()
	l := New(s)
	first := l.Plan(cam32(0, 0))
	if len(first) == 0 {
		t.Fatalf("first plan should request chunks")
	}
	if again := l.Plan(cam32(0, 0)); len(again) != 0 {
		t.Fatalf("in-flight chunks re-requested: %v", chunks(again))
	}
}

func TestFail_AllowsRetry(t *testing.T) {
	s := grid.NewStore()
	l := New(s)
	reqs := l.Plan(cam32(0, 0))
	for _, r := range reqs {
		l.Fail(r)
	}
	retry := l.Plan(cam32(0, 0))
	if len(retry) != len(reqs) {
		t.Fatalf("failed chunks should be retried: first=%d retry=%d", len(reqs), len(retry))
	}
}
