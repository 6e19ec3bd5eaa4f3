package balance

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/jfvdberg/taxfolio/journal"
)

// Well-known accounts receiving realized gains and losses. Posting the
// realized amount here keeps the sheet self-consistent without requiring an
// explicit matching posting in the source transaction.
const (
	GainsAccount  = journal.AccountName("income:capital_gains")
	LossesAccount = journal.AccountName("expenses:capital_losses")
)

// CapitalGain records one matched lot portion of a closing posting:
// realized proceeds minus cost basis for that portion. Posting references
// are non-owning, kept for audit and traceability only.
type CapitalGain struct {
	ClosingPosting  *journal.Posting
	OpeningPosting  *journal.Posting
	MatchedQuantity decimal.Decimal
	CostBasis       journal.Amount
	Proceeds        journal.Amount
	GainLoss        journal.Amount
	ClosingDate     *journal.Date
	AcquisitionDate *journal.Date

	// GainUnknown is set when cost basis and proceeds are denominated in
	// different commodities; GainLoss is reported as zero rather than
	// guessed via a conversion.
	GainUnknown bool

	// MixedProceeds is set when proceeds from more than one cash commodity
	// were summed into the first one without conversion. The total is an
	// approximation; reports must flag it.
	MixedProceeds bool
}

// candidateLot pairs an open lot with the account that owns it so matching
// can decrement that account's aggregates.
type candidateLot struct {
	lot     *Lot
	account *Account
}

// matcher performs date-ordered FIFO matching of closing postings against
// open lots across an account and its dated subaccounts.
type matcher struct {
	tree *Tree
}

// cashFlows sums the same-transaction cash legs around a closing posting.
// Inflows (positive cash quantities) fund the proceeds of a long sale;
// outflows (negative cash quantities) are the cost of a buy-to-cover.
// When more than one distinct cash commodity appears on a side, quantities
// are summed into the first commodity seen; mixed is set so downstream
// reporting can flag the approximation.
type cashFlows struct {
	in       decimal.Decimal
	inCmdty  journal.Commodity
	out      decimal.Decimal
	outCmdty journal.Commodity
	mixed    bool
}

func sumCashFlows(tx *journal.Transaction, closing *journal.Posting) cashFlows {
	var cf cashFlows
	var sawIn, sawOut bool
	for _, p := range tx.Postings {
		if p == closing || p.Amount == nil || !p.Amount.Commodity.IsCash() {
			continue
		}
		qty := p.Amount.Quantity
		switch {
		case qty.IsPositive():
			if !sawIn {
				cf.inCmdty = p.Amount.Commodity
				sawIn = true
			} else if p.Amount.Commodity != cf.inCmdty {
				cf.mixed = true
			}
			cf.in = cf.in.Add(qty)
		case qty.IsNegative():
			if !sawOut {
				cf.outCmdty = p.Amount.Commodity
				sawOut = true
			} else if p.Amount.Commodity != cf.outCmdty {
				cf.mixed = true
			}
			cf.out = cf.out.Add(qty.Abs())
		}
	}
	return cf
}

// candidates collects the open lots for a commodity on the closing account
// and every dated-subaccount descendant, ordered by acquisition date
// ascending with ties broken by lot creation order.
func (m *matcher) candidates(account journal.AccountName, c journal.Commodity) []candidateLot {
	var out []candidateLot

	appendOpen := func(acc *Account) {
		h := acc.Holding(c)
		if h == nil {
			return
		}
		for _, lot := range h.OpenLots() {
			out = append(out, candidateLot{lot: lot, account: acc})
		}
	}

	acc, ok := m.tree.Get(account)
	if !ok {
		return nil
	}
	appendOpen(acc)

	var walk func(*Account)
	walk = func(node *Account) {
		for _, child := range node.Children {
			if child.Name.IsDatedSubaccount() {
				appendOpen(child)
			}
			walk(child)
		}
	}
	walk(acc)

	slices.SortStableFunc(out, func(a, b candidateLot) int {
		if c := a.lot.AcquisitionDate.Compare(b.lot.AcquisitionDate.Time); c != 0 {
			return c
		}
		return a.lot.seq - b.lot.seq
	})
	return out
}

// match consumes open lots against the closing posting, oldest first,
// emitting one CapitalGain per matched lot portion. Partial fills are
// recorded before the shortfall error is returned: exhausting the open lots
// with quantity left to match is a reportable error, never a silent partial
// result.
func (m *matcher) match(tx *journal.Transaction, closing *journal.Posting) ([]*CapitalGain, error) {
	commodity := closing.Amount.Commodity
	closingQty := closing.Amount.Quantity.Abs()
	toMatch := closingQty
	cf := sumCashFlows(tx, closing)

	var results []*CapitalGain
	for _, cand := range m.candidates(closing.Account, commodity) {
		if toMatch.IsZero() {
			break
		}
		lot := cand.lot

		matched := decimal.Min(toMatch, lot.Remaining.Abs())
		share := matched.Div(closingQty)

		var costBasis, proceeds journal.Amount
		if lot.Short {
			// Covering a short: the cost is what we pay now, the proceeds
			// are what the original sale brought in.
			costBasis = journal.Amount{Quantity: share.Mul(cf.out), Commodity: cf.outCmdty}
			proceeds = journal.Amount{Quantity: matched.Mul(lot.CostPerUnit.Quantity), Commodity: lot.CostPerUnit.Commodity}
		} else {
			costBasis = journal.Amount{Quantity: matched.Mul(lot.CostPerUnit.Quantity), Commodity: lot.CostPerUnit.Commodity}
			proceeds = journal.Amount{Quantity: share.Mul(cf.in), Commodity: cf.inCmdty}
		}

		gain := journal.Amount{Commodity: proceeds.Commodity}
		unknown := costBasis.Commodity != proceeds.Commodity
		if !unknown {
			gain.Quantity = proceeds.Quantity.Sub(costBasis.Quantity)
		}

		results = append(results, &CapitalGain{
			ClosingPosting:  closing,
			OpeningPosting:  lot.Posting,
			MatchedQuantity: matched,
			CostBasis:       costBasis,
			Proceeds:        proceeds,
			GainLoss:        gain,
			ClosingDate:     tx.Date,
			AcquisitionDate: lot.AcquisitionDate,
			GainUnknown:     unknown,
			MixedProceeds:   cf.mixed,
		})

		lot.consume(matched)

		// The holding's quantity moves only here and in AddLot. A consumed
		// long lot shrinks the position, a covered short grows it toward
		// zero.
		delta := matched.Neg()
		if lot.Short {
			delta = matched
		}
		h := cand.account.Holding(commodity)
		h.TotalQuantity = h.TotalQuantity.Add(delta)
		cand.account.bubbleTotal(commodity, delta)

		m.postRealized(gain, unknown)

		toMatch = toMatch.Sub(matched)
	}

	if toMatch.IsPositive() {
		return results, &InsufficientLotsError{
			Account:   closing.Account,
			Commodity: commodity,
			Missing:   toMatch,
			Pos:       closing.Pos,
			Date:      tx.Date,
		}
	}
	return results, nil
}

// postRealized books the realized amount against the fixed gains/losses
// accounts. Gains are negative income, losses positive expenses, so the
// sheet stays balanced in value terms.
func (m *matcher) postRealized(gain journal.Amount, unknown bool) {
	if unknown || gain.IsZero() {
		return
	}
	target := GainsAccount
	if gain.IsNegative() {
		target = LossesAccount
	}
	m.tree.GetOrCreate(target).addCash(gain.Commodity, gain.Quantity.Neg())
}
