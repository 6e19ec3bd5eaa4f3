package balance

import (
	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
)

// Comments appended to postings whose amounts the balancer filled in.
const (
	autoBalancedNote     = "auto-balanced"
	equityConversionNote = "inferred by equity conversion"
)

// ConversionAccount receives inferred postings when a transaction without
// elided postings is imbalanced in one or two commodities.
const ConversionAccount = journal.AccountName("equity:conversion")

// commoditySums accumulates per-commodity posting effects while preserving
// the order in which commodities were first encountered. Error reporting and
// elided-posting pairing both depend on encounter order, so a plain map is
// not enough.
type commoditySums struct {
	order []journal.Commodity
	sums  map[journal.Commodity]decimal.Decimal
}

func newCommoditySums() *commoditySums {
	return &commoditySums{sums: make(map[journal.Commodity]decimal.Decimal, 4)}
}

func (cs *commoditySums) add(c journal.Commodity, qty decimal.Decimal) {
	if _, seen := cs.sums[c]; !seen {
		cs.order = append(cs.order, c)
	}
	cs.sums[c] = cs.sums[c].Add(qty)
}

// imbalanced returns the commodities with a nonzero sum, in encounter order.
func (cs *commoditySums) imbalanced() []journal.Commodity {
	var out []journal.Commodity
	for _, c := range cs.order {
		if !cs.sums[c].IsZero() {
			out = append(out, c)
		}
	}
	return out
}

// first returns the first commodity seen, or false if none was.
func (cs *commoditySums) first() (journal.Commodity, bool) {
	if len(cs.order) == 0 {
		return journal.Commodity{}, false
	}
	return cs.order[0], true
}

// postingEffects returns the per-commodity effects of a posting with a
// concrete amount: the amount itself, plus the implied secondary-commodity
// effect of a cost annotation. A unit cost (@) contributes quantity * rate;
// a total cost (@@) contributes the total with the sign of the primary
// quantity. This models the un-stated offsetting cash effect of a trade.
func postingEffects(p *journal.Posting, cs *commoditySums) {
	qty := p.Amount.Quantity
	cs.add(p.Amount.Commodity, qty)

	if p.Cost == nil {
		return
	}

	switch p.Cost.Kind {
	case journal.UnitCost:
		cs.add(p.Cost.Amount.Commodity, qty.Mul(p.Cost.Amount.Quantity))
	case journal.TotalCost:
		total := p.Cost.Amount.Quantity
		if qty.IsNegative() {
			total = total.Neg()
		}
		cs.add(p.Cost.Amount.Commodity, total)
	}
}

// Balance resolves elided posting amounts and verifies the transaction sums
// to zero per commodity. On success it returns the balanced transaction: the
// input value unchanged when nothing had to be inferred, otherwise a copy
// with filled-in postings (the caller's transaction is never mutated). Every
// filled-in posting gets an appended comment noting the inference.
//
// The case analysis follows the number of elided postings:
//
//   - zero elided: balanced as-is, or one equity:conversion posting is
//     inferred per imbalanced commodity (at most two), else ImbalanceError.
//   - one elided: the posting absorbs the single imbalance, or zero when the
//     transaction already balances.
//   - multiple elided: paired against the imbalanced commodities in
//     encounter order when the counts line up, else ambiguous.
func Balance(tx *journal.Transaction) (*journal.Transaction, error) {
	cs := newCommoditySums()
	var elided []int
	for i, p := range tx.Postings {
		if p.Elided() {
			elided = append(elided, i)
			continue
		}
		postingEffects(p, cs)
	}

	imbalanced := cs.imbalanced()

	switch len(elided) {
	case 0:
		return balanceComplete(tx, cs, imbalanced)
	case 1:
		return balanceOneElided(tx, cs, imbalanced, elided[0])
	default:
		return balanceManyElided(tx, cs, imbalanced, elided)
	}
}

// balanceComplete handles transactions where every posting has an amount.
func balanceComplete(tx *journal.Transaction, cs *commoditySums, imbalanced []journal.Commodity) (*journal.Transaction, error) {
	if len(imbalanced) == 0 {
		return tx, nil
	}
	if len(imbalanced) > 2 {
		first := imbalanced[0]
		return nil, &ImbalanceError{Commodity: first, Sum: cs.sums[first], Pos: tx.Pos, Date: tx.Date}
	}

	// One or two commodities off: treat the transaction as an implicit
	// currency conversion and absorb each imbalance into an inferred equity
	// posting.
	balanced := tx.Clone()
	for _, c := range imbalanced {
		p := &journal.Posting{
			Account: ConversionAccount,
			Amount:  &journal.Amount{Quantity: cs.sums[c].Neg(), Commodity: c},
		}
		p.AppendComment(equityConversionNote)
		balanced.Postings = append(balanced.Postings, p)
	}
	return balanced, nil
}

// balanceOneElided handles transactions with exactly one elided posting.
func balanceOneElided(tx *journal.Transaction, cs *commoditySums, imbalanced []journal.Commodity, idx int) (*journal.Transaction, error) {
	switch len(imbalanced) {
	case 1:
		c := imbalanced[0]
		return fillElided(tx, map[int]journal.Amount{
			idx: {Quantity: cs.sums[c].Neg(), Commodity: c},
		}), nil
	case 0:
		first, ok := cs.first()
		if !ok {
			return nil, &NoCommoditiesElidedError{Pos: tx.Pos, Date: tx.Date}
		}
		return fillElided(tx, map[int]journal.Amount{
			idx: {Quantity: decimal.Zero, Commodity: first},
		}), nil
	default:
		return nil, &UnresolvedElidedAmountError{Commodity: imbalanced[0], Pos: tx.Pos, Date: tx.Date}
	}
}

// balanceManyElided handles transactions with two or more elided postings.
func balanceManyElided(tx *journal.Transaction, cs *commoditySums, imbalanced []journal.Commodity, elided []int) (*journal.Transaction, error) {
	first, sawCommodity := cs.first()

	if len(imbalanced) == 0 {
		if !sawCommodity {
			return nil, &NoCommoditiesElidedError{Pos: tx.Pos, Date: tx.Date}
		}
		fills := make(map[int]journal.Amount, len(elided))
		for _, idx := range elided {
			fills[idx] = journal.Amount{Quantity: decimal.Zero, Commodity: first}
		}
		return fillElided(tx, fills), nil
	}

	if len(imbalanced) == len(elided) {
		// Pair elided postings with imbalanced commodities in encounter
		// order. An elided posting beyond the available imbalances gets zero
		// in the first commodity seen.
		fills := make(map[int]journal.Amount, len(elided))
		for i, idx := range elided {
			if i < len(imbalanced) {
				c := imbalanced[i]
				fills[idx] = journal.Amount{Quantity: cs.sums[c].Neg(), Commodity: c}
			} else {
				fills[idx] = journal.Amount{Quantity: decimal.Zero, Commodity: first}
			}
		}
		return fillElided(tx, fills), nil
	}

	if len(imbalanced) == 1 {
		c := imbalanced[0]
		return nil, &AmbiguousElidedAmountError{Commodity: c, Sum: cs.sums[c], Pos: tx.Pos, Date: tx.Date}
	}
	return nil, &MultipleCommoditiesRemainingError{
		Commodity:  imbalanced[0],
		Imbalanced: len(imbalanced),
		Elided:     len(elided),
		Pos:        tx.Pos,
		Date:       tx.Date,
	}
}

// fillElided returns a copy of the transaction with the given posting
// indices filled in and annotated.
func fillElided(tx *journal.Transaction, fills map[int]journal.Amount) *journal.Transaction {
	balanced := tx.Clone()
	for idx, amount := range fills {
		p := balanced.Postings[idx]
		a := amount
		p.Amount = &a
		p.AppendComment(autoBalancedNote)
	}
	return balanced
}
