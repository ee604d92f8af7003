package grid

// ZeroAddress is the ledger's sentinel for "no owner". The feed and read
// collaborators normalize it to an empty owner before cells reach the store.
const ZeroAddress = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAY5HFKQ"

// Color holds three normalized channels in [0,1].
type Color [3]float64

// White is the color of an unminted cell.
var White = Color{1, 1, 1}

// ColorFromBytes converts the ledger's 0-255 channel encoding.
func ColorFromBytes(b [3]uint8) Color {
	return Color{float64(b[0]) / 255, float64(b[1]) / 255, float64(b[2]) / 255}
}

// Bytes converts back to the ledger's 0-255 channel encoding.
func (c Color) Bytes() [3]uint8 {
	clamp := func(v float64) uint8 {
		n := int(v*255 + 0.5)
		if n < 0 {
			n = 0
		}
		if n > 255 {
			n = 255
		}
		return uint8(n)
	}
	return [3]uint8{clamp(c[0]), clamp(c[1]), clamp(c[2])}
}

// Equal compares at 8-bit channel resolution, the precision the ledger
// actually stores.
func (c Color) Equal(o Color) bool {
	return c.Bytes() == o.Bytes()
}

// Cell is one grid unit's full state. An empty Owner means unowned; an
// unowned cell always has TermBeginAt = 0 and Deposit = 0. Price carries the
// mint fee sentinel for unminted cells so the UI can preview a mint cost.
type Cell struct {
	Owner       string
	Color       Color
	TermBeginAt uint64
	TermDays    uint32
	Price       uint64
	Deposit     uint64
}

// OwnedBy reports whether identity holds the cell's lease. Empty identities
// never own anything.
func (c Cell) OwnedBy(identity string) bool {
	return identity != "" && c.Owner == identity
}

// Unowned reports whether the cell has no current lease.
func (c Cell) Unowned() bool {
	return c.Owner == ""
}

// Delta is a partial cell update. Nil fields are left unchanged on merge.
type Delta struct {
	Owner       *string
	Color       *Color
	TermBeginAt *uint64
	TermDays    *uint32
	Price       *uint64
	Deposit     *uint64
}

// Field identifiers for per-field write stamping.
const (
	fieldOwner = iota
	fieldColor
	fieldTermBeginAt
	fieldTermDays
	fieldPrice
	fieldDeposit
	numFields
)

func (d Delta) apply(c *Cell, stamp func(field int)) {
	if d.Owner != nil {
		c.Owner = *d.Owner
		stamp(fieldOwner)
	}
	if d.Color != nil {
		c.Color = *d.Color
		stamp(fieldColor)
	}
	if d.TermBeginAt != nil {
		c.TermBeginAt = *d.TermBeginAt
		stamp(fieldTermBeginAt)
	}
	if d.TermDays != nil {
		c.TermDays = *d.TermDays
		stamp(fieldTermDays)
	}
	if d.Price != nil {
		c.Price = *d.Price
		stamp(fieldPrice)
	}
	if d.Deposit != nil {
		c.Deposit = *d.Deposit
		stamp(fieldDeposit)
	}
}
