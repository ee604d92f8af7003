package grid

import (
	"errors"
	"fmt"
)

var ErrOutOfBounds = errors.New("coordinate out of bounds")

const cellsPerChunk = int(ChunkSize * ChunkSize)

type chunkState uint8

const (
	// stateIdle: entry exists only because deltas arrived before any load.
	stateIdle chunkState = iota
	stateLoading
	stateLoaded
)

type chunk struct {
	state   chunkState
	cells   []Cell
	present []bool
	// stamps records, per cell index and field, the store sequence of the
	// last delta write. Bulk loads must not overwrite fields stamped after
	// the load was requested.
	stamps map[int]*[numFields]uint64
}

func newChunk() *chunk {
	return &chunk{
		cells:   make([]Cell, cellsPerChunk),
		present: make([]bool, cellsPerChunk),
		stamps:  make(map[int]*[numFields]uint64),
	}
}

// LoadToken captures the store sequence at the moment a chunk fetch was
// requested. ApplyChunk uses it to decide which delta writes are newer than
// the fetched payload.
type LoadToken struct {
	Chunk ChunkCoord
	Seq   uint64
}

// Store is the sparse, chunk-paged cache of cell state. It is mutated only
// from the single update loop, so it carries no locking.
type Store struct {
	seq          uint64
	defaultPrice uint64
	chunks       map[ChunkCoord]*chunk
}

func NewStore() *Store {
	return &Store{chunks: make(map[ChunkCoord]*chunk)}
}

// SetDefaultPrice sets the price sentinel used when a delta materializes a
// cell before its chunk loads. Sourced from the ledger's mint fee.
func (s *Store) SetDefaultPrice(p uint64) { s.defaultPrice = p }

// Get returns the cell at a world coordinate, or false if the containing
// chunk was never loaded and no delta has touched the cell.
func (s *Store) Get(x, y int64) (Cell, bool) {
	if !InBounds(x, y) {
		return Cell{}, false
	}
	ch, ok := s.chunks[ToChunk(x, y)]
	if !ok {
		return Cell{}, false
	}
	i := cellIndex(x, y)
	if !ch.present[i] {
		return Cell{}, false
	}
	return ch.cells[i], true
}

// IsLoaded reports whether a chunk's full payload has been applied.
func (s *Store) IsLoaded(c ChunkCoord) bool {
	ch, ok := s.chunks[c]
	return ok && ch.state == stateLoaded
}

// IsPending reports whether a chunk is loaded or has a fetch in flight.
// The loader uses this to deduplicate requests.
func (s *Store) IsPending(c ChunkCoord) bool {
	ch, ok := s.chunks[c]
	return ok && ch.state != stateIdle
}

// MarkLoading flags a chunk as fetch-in-flight and returns the load token
// for the eventual ApplyChunk. Returns false if the chunk is already
// pending.
func (s *Store) MarkLoading(c ChunkCoord) (LoadToken, bool) {
	ch, ok := s.chunks[c]
	if ok && ch.state != stateIdle {
		return LoadToken{}, false
	}
	if !ok {
		ch = newChunk()
		s.chunks[c] = ch
	}
	ch.state = stateLoading
	return LoadToken{Chunk: c, Seq: s.seq}, true
}

// ClearLoading reverts a failed fetch so a later trigger retries it. Cells
// already materialized by deltas are kept.
func (s *Store) ClearLoading(c ChunkCoord) {
	if ch, ok := s.chunks[c]; ok && ch.state == stateLoading {
		ch.state = stateIdle
	}
}

// ApplyChunk bulk-writes a fetched chunk payload (row-major, x fastest).
// Fields written by deltas after the load was requested are preserved;
// everything else is overwritten, so re-applying the same payload is a
// no-op.
func (s *Store) ApplyChunk(tok LoadToken, cells []Cell) error {
	if len(cells) != cellsPerChunk {
		return fmt.Errorf("chunk %v: got %d cells, want %d", tok.Chunk, len(cells), cellsPerChunk)
	}
	ch, ok := s.chunks[tok.Chunk]
	if !ok {
		ch = newChunk()
		s.chunks[tok.Chunk] = ch
	}
	for i := range cells {
		next := cells[i]
		if st := ch.stamps[i]; st != nil {
			prev := ch.cells[i]
			if st[fieldOwner] > tok.Seq {
				next.Owner = prev.Owner
			}
			if st[fieldColor] > tok.Seq {
				next.Color = prev.Color
			}
			if st[fieldTermBeginAt] > tok.Seq {
				next.TermBeginAt = prev.TermBeginAt
			}
			if st[fieldTermDays] > tok.Seq {
				next.TermDays = prev.TermDays
			}
			if st[fieldPrice] > tok.Seq {
				next.Price = prev.Price
			}
			if st[fieldDeposit] > tok.Seq {
				next.Deposit = prev.Deposit
			}
		}
		ch.cells[i] = next
		ch.present[i] = true
	}
	ch.state = stateLoaded
	return nil
}

// ApplyDelta merges a partial update into the cell at a world coordinate,
// materializing a default cell first if the chunk has not loaded yet.
func (s *Store) ApplyDelta(x, y int64, d Delta) error {
	if !InBounds(x, y) {
		return fmt.Errorf("delta at (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	c := ToChunk(x, y)
	ch, ok := s.chunks[c]
	if !ok {
		ch = newChunk()
		s.chunks[c] = ch
	}
	i := cellIndex(x, y)
	if !ch.present[i] {
		ch.cells[i] = Cell{Color: White, Price: s.defaultPrice}
		ch.present[i] = true
	}
	s.seq++
	st := ch.stamps[i]
	if st == nil {
		st = new([numFields]uint64)
		ch.stamps[i] = st
	}
	d.apply(&ch.cells[i], func(field int) { st[field] = s.seq })
	return nil
}

// ChunkCount reports the size of the resident working set.
func (s *Store) ChunkCount() int { return len(s.chunks) }
