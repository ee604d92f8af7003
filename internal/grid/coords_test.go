package grid

import "testing"

func TestToChunk_FloorAcrossOrigin(t *testing.T) {
	cases := []struct {
		x, y       int64
		cx, cy     int64
	}{
		{0, 0, 0, 0},
		{99, 99, 0, 0},
		{100, 100, 1, 1},
		{-1, -1, -1, -1},
		{-100, -100, -1, -1},
		{-101, -101, -2, -2},
		{250, -250, 2, -3},
		{MaxCoord, MinCoord, 21474836, -21474837},
	}
	for _, c := range cases {
		got := ToChunk(c.x, c.y)
		if got.X != c.cx || got.Y != c.cy {
			t.Fatalf("ToChunk(%d,%d) = %v, want (%d,%d)", c.x, c.y, got, c.cx, c.cy)
		}
	}
}

func TestChunkOrigin_RoundTrip(t *testing.T) {
	for _, x := range []int64{MinCoord, -150, -100, -1, 0, 1, 99, 100, MaxCoord} {
		c := ToChunk(x, x)
		ox, oy := c.Origin()
		if ox > x || x >= ox+ChunkSize {
			t.Fatalf("x=%d: origin %d does not cover it", x, ox)
		}
		if oy > x || x >= oy+ChunkSize {
			t.Fatalf("y=%d: origin %d does not cover it", x, oy)
		}
		if back := ToChunk(ox, oy); back != c {
			t.Fatalf("ToChunk(origin(%v)) = %v", c, back)
		}
	}
}

func TestFloorMod_NonNegative(t *testing.T) {
	for _, v := range []int64{-201, -200, -101, -100, -1, 0, 1, 99, 100} {
		m := FloorMod(v, ChunkSize)
		if m < 0 || m >= ChunkSize {
			t.Fatalf("FloorMod(%d) = %d out of range", v, m)
		}
		if FloorDiv(v, ChunkSize)*ChunkSize+m != v {
			t.Fatalf("FloorDiv/FloorMod disagree for %d", v)
		}
	}
}

func TestStoreIndex_NonNegative(t *testing.T) {
	if got := StoreIndex(MinCoord); got != 0 {
		t.Fatalf("StoreIndex(MinCoord) = %d, want 0", got)
	}
	if got := StoreIndex(0); got != 2147483648 {
		t.Fatalf("StoreIndex(0) = %d", got)
	}
	if got := StoreIndex(MaxCoord); got != 4294967295 {
		t.Fatalf("StoreIndex(MaxCoord) = %d", got)
	}
}

func TestCellIndex_ConsistentAcrossSign(t *testing.T) {
	// (-1,-1) is the top-right-most cell of chunk (-1,-1).
	if got := cellIndex(-1, -1); got != cellsPerChunk-1 {
		t.Fatalf("cellIndex(-1,-1) = %d, want %d", got, cellsPerChunk-1)
	}
	if got := cellIndex(-100, -100); got != 0 {
		t.Fatalf("cellIndex(-100,-100) = %d, want 0", got)
	}
}
