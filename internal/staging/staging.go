// Package staging holds the one-cell edit draft: a working copy of a cell's
// mutable attributes, decoupled from the authoritative state until commit.
// Transitions are value-in/value-out; the caller owns the state.
package staging

import (
	"gopix/internal/grid"
	"gopix/internal/ledger"
)

// State is the selection plus draft. Gen advances whenever the selection
// changes identity, so the resolution of a commit issued under an older
// generation can be recognized as stale and discarded.
type State struct {
	Active bool
	X, Y   int64

	Color    grid.Color
	TermDays uint32
	Price    uint64

	Gen uint64
}

// Select toggles: re-selecting the selected cell clears the selection,
// anything else replaces the draft with a fresh copy of the authoritative
// cell.
func (s State) Select(x, y int64, cell grid.Cell) State {
	n := s
	n.Gen++
	if s.Active && s.X == x && s.Y == y {
		n.Active = false
		return n
	}
	n.Active = true
	n.X, n.Y = x, y
	n.Color = cell.Color
	n.TermDays = cell.TermDays
	n.Price = cell.Price
	return n
}

// Clear drops the selection (used after a successful commit).
func (s State) Clear() State {
	s.Active = false
	s.Gen++
	return s
}

func (s State) SetColor(c grid.Color) State {
	s.Color = c
	return s
}

func (s State) SetTermDays(d uint32) State {
	s.TermDays = d
	return s
}

func (s State) SetPrice(p uint64) State {
	s.Price = p
	return s
}

// Deposit is the hold the draft would require: termDays x price x taxPerDay.
func (s State) Deposit(taxPerDay uint64) uint64 {
	return ledger.CalcDeposit(s.TermDays, s.Price, taxPerDay)
}

// TotalCost previews what acquiring the draft costs: the authoritative
// cell's listed price (the mint fee sentinel when unminted) plus the new
// deposit.
func (s State) TotalCost(auth grid.Cell, taxPerDay uint64) uint64 {
	return auth.Price + s.Deposit(taxPerDay)
}

type Action int

const (
	ActionNone Action = iota
	ActionMint
	ActionBuy
	ActionUpdateColor
	ActionUpdateTermDays
	ActionUpdatePrice
	ActionBurn
)

func (a Action) String() string {
	switch a {
	case ActionMint:
		return "mint"
	case ActionBuy:
		return "buy"
	case ActionUpdateColor:
		return "update-color"
	case ActionUpdateTermDays:
		return "update-term-days"
	case ActionUpdatePrice:
		return "update-price"
	case ActionBurn:
		return "burn"
	}
	return "none"
}

// Commit is one planned ledger write, stamped with the selection generation
// it was issued under.
type Commit struct {
	Action Action
	Gen    uint64
	Intent ledger.Intent
}

// PlanCommit diffs the draft against the authoritative cell and decides
// which single ledger action this commit maps to. Precedence for cells the
// user owns is color, then termDays, then price — one field per commit.
func (s State) PlanCommit(auth grid.Cell, identity string, p ledger.Params) (Commit, bool) {
	if !s.Active {
		return Commit{}, false
	}
	in := ledger.Intent{X: s.X, Y: s.Y, Color: s.Color, TermDays: s.TermDays, Price: s.Price}

	switch {
	case auth.OwnedBy(identity):
		if !s.Color.Equal(auth.Color) {
			return Commit{Action: ActionUpdateColor, Gen: s.Gen, Intent: in}, true
		}
		if s.TermDays != auth.TermDays {
			// The ledger recomputes the hold with the listed price; pay
			// only the deposit increase.
			next := ledger.CalcDeposit(s.TermDays, auth.Price, p.TaxPerDay)
			if next > auth.Deposit {
				in.Payment = next - auth.Deposit
			}
			return Commit{Action: ActionUpdateTermDays, Gen: s.Gen, Intent: in}, true
		}
		if s.Price != auth.Price {
			next := ledger.CalcDeposit(auth.TermDays, s.Price, p.TaxPerDay)
			if next > auth.Deposit {
				in.Payment = next - auth.Deposit
			}
			return Commit{Action: ActionUpdatePrice, Gen: s.Gen, Intent: in}, true
		}
		return Commit{}, false

	case auth.Unowned():
		in.Payment = p.MintFee + s.Deposit(p.TaxPerDay)
		if p.TotalPixels >= p.MaxPixels {
			in.Payment += ledger.AllocationFee
		}
		return Commit{Action: ActionMint, Gen: s.Gen, Intent: in}, true

	default:
		// Buying pays the seller's listed price plus the buyer's new
		// deposit.
		in.Payment = auth.Price + s.Deposit(p.TaxPerDay)
		return Commit{Action: ActionBuy, Gen: s.Gen, Intent: in}, true
	}
}

// PlanBurn returns the explicit burn action, available only to the current
// owner.
func (s State) PlanBurn(auth grid.Cell, identity string) (Commit, bool) {
	if !s.Active || !auth.OwnedBy(identity) {
		return Commit{}, false
	}
	return Commit{Action: ActionBurn, Gen: s.Gen, Intent: ledger.Intent{X: s.X, Y: s.Y}}, true
}
