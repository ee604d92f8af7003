package grid

// World coordinates are signed and span the full 32-bit range. Chunks are
// fixed-size squares; chunk indices come from floor division so boundaries
// stay consistent across the origin.
const (
	ChunkSize int64 = 100

	MinCoord int64 = -2147483648
	MaxCoord int64 = 2147483647
)

// ChunkCoord identifies one chunk of ChunkSize x ChunkSize cells.
type ChunkCoord struct {
	X int64
	Y int64
}

// FloorDiv divides rounding toward negative infinity, unlike Go's
// truncating integer division.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the non-negative remainder matching FloorDiv.
func FloorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

// ToChunk maps a world coordinate to the chunk containing it.
func ToChunk(x, y int64) ChunkCoord {
	return ChunkCoord{X: FloorDiv(x, ChunkSize), Y: FloorDiv(y, ChunkSize)}
}

// Origin returns the world coordinate of the chunk's lowest corner.
func (c ChunkCoord) Origin() (int64, int64) {
	return c.X * ChunkSize, c.Y * ChunkSize
}

// StoreIndex translates a world coordinate into a non-negative index by
// offsetting from MinCoord.
func StoreIndex(v int64) int64 {
	return v - MinCoord
}

// InBounds reports whether a world coordinate is inside the valid range.
func InBounds(x, y int64) bool {
	return x >= MinCoord && x <= MaxCoord && y >= MinCoord && y <= MaxCoord
}

// cellIndex maps a world coordinate to its offset within the containing
// chunk's cell array (row-major, x fastest).
func cellIndex(x, y int64) int {
	return int(FloorMod(y, ChunkSize)*ChunkSize + FloorMod(x, ChunkSize))
}
