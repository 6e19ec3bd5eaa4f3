package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
)

// Lot is a quantity of an asset acquired at a given date and cost basis,
// tracked for future disposal matching. A lot is created once, its Remaining
// quantity is decremented by the matcher, and it is never deleted: a fully
// consumed lot stays in the holding as an audit record.
//
// Quantity is signed. A negative quantity marks an open short sale; its
// "cost basis" is the sale proceeds per unit, matched later against a
// buy-to-cover.
type Lot struct {
	AcquisitionDate *journal.Date
	Quantity        decimal.Decimal
	CostPerUnit     journal.Amount
	Remaining       decimal.Decimal
	Posting         *journal.Posting // originating posting, non-owning audit reference
	Short           bool

	// seq orders lots globally by creation so same-day matches stay
	// deterministic across subaccounts.
	seq int
}

// Open reports whether the lot still has unmatched quantity.
func (l *Lot) Open() bool { return !l.Remaining.IsZero() }

// consume reduces the remaining quantity toward zero by qty (a positive
// magnitude) regardless of the lot's direction.
func (l *Lot) consume(qty decimal.Decimal) {
	if l.Remaining.IsNegative() {
		l.Remaining = l.Remaining.Add(qty)
	} else {
		l.Remaining = l.Remaining.Sub(qty)
	}
}

// String returns a string representation of the lot.
func (l *Lot) String() string {
	s := fmt.Sprintf("%s {%s, %s}", l.Remaining.String(), l.CostPerUnit.String(), l.AcquisitionDate.String())
	if l.Short {
		s += " (short)"
	}
	return s
}

// Holding is the lot ledger for one (account, commodity) pair: the ordered
// list of acquisition lots plus incrementally maintained weighted
// aggregates.
type Holding struct {
	Commodity journal.Commodity
	Lots      []*Lot

	// TotalQuantity and CostBasisPerUnit are weighted aggregates updated on
	// every AddLot; they are never recomputed from scratch.
	TotalQuantity    decimal.Decimal
	CostBasisPerUnit journal.Amount
}

// NewHolding creates an empty holding for a commodity.
func NewHolding(commodity journal.Commodity) *Holding {
	return &Holding{Commodity: commodity}
}

// AddLot appends a lot and folds it into the weighted-average aggregates:
//
//	newQty  = oldQty + lot.Quantity
//	newCost = (oldQty*oldCost + lot.Quantity*lot.CostPerUnit) / newQty
//
// A zero new quantity yields cost 0. The cost basis commodity follows the
// most recently added lot's cost commodity; mixing cost commodities on one
// holding is an unresolved edge case and the aggregate simply tracks the
// latest one.
func (h *Holding) AddLot(lot *Lot) {
	newQty := h.TotalQuantity.Add(lot.Quantity)

	var newCost decimal.Decimal
	if !newQty.IsZero() {
		oldValue := h.TotalQuantity.Mul(h.CostBasisPerUnit.Quantity)
		addedValue := lot.Quantity.Mul(lot.CostPerUnit.Quantity)
		newCost = oldValue.Add(addedValue).Div(newQty)
	}

	h.TotalQuantity = newQty
	h.CostBasisPerUnit = journal.Amount{Quantity: newCost, Commodity: lot.CostPerUnit.Commodity}
	h.Lots = append(h.Lots, lot)
}

// OpenLots returns the lots with unmatched quantity, in insertion order.
func (h *Holding) OpenLots() []*Lot {
	var open []*Lot
	for _, lot := range h.Lots {
		if lot.Open() {
			open = append(open, lot)
		}
	}
	return open
}

// OpenQuantity returns the signed sum of remaining quantities.
func (h *Holding) OpenQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range h.Lots {
		total = total.Add(lot.Remaining)
	}
	return total
}
