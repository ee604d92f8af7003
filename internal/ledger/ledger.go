// Package ledger talks to the two remote collaborators: the indexer read
// surface (cell state, chunk reads, global parameters) and the signing
// gateway write surface (priced state-change intents). The core never holds
// keys; it computes payments and posts intents.
package ledger

import (
	"context"

	"gopix/internal/grid"
)

// Params are the ledger's global economics parameters.
type Params struct {
	MintFee     uint64
	TaxPerDay   uint64
	TotalPixels uint64
	MaxPixels   uint64
}

// AllocationFee is charged on mint when the global pixel allocation is
// exhausted (the contract's per-box minimum balance).
const AllocationFee uint64 = 27_700

// CalcDeposit computes the funds held against a lease: termDays x price x
// taxPerDay, all in micro-units with taxPerDay a micro-fraction per day.
func CalcDeposit(termDays uint32, price, taxPerDay uint64) uint64 {
	return uint64(termDays) * price * taxPerDay / 1_000_000
}

// Reader is the remote read collaborator.
type Reader interface {
	ReadCell(ctx context.Context, x, y int64) (grid.Cell, error)
	// ReadChunk returns width*height cells row-major (x fastest) for the
	// rectangle anchored at (originX, originY).
	ReadChunk(ctx context.Context, originX, originY int64, width, height int) ([]grid.Cell, error)
	ReadParams(ctx context.Context) (Params, error)
}

// Intent is one priced state-change request.
type Intent struct {
	X        int64
	Y        int64
	Color    grid.Color
	TermDays uint32
	Price    uint64
	// Payment is computed by the core: mint fee + deposit (+ allocation
	// fee), seller price + deposit for buy, deposit delta for term/price
	// updates.
	Payment uint64
}

// Writer is the remote write collaborator.
type Writer interface {
	Mint(ctx context.Context, in Intent) error
	Buy(ctx context.Context, in Intent) error
	UpdateColor(ctx context.Context, in Intent) error
	UpdateTermDays(ctx context.Context, in Intent) error
	UpdatePrice(ctx context.Context, in Intent) error
	Burn(ctx context.Context, x, y int64) error
}
