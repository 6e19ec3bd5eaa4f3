// Package balance computes a consistent financial ledger state from decoded
// journal transactions: per-account balances, tax-lot tracking, and
// FIFO-matched realized capital gains and losses, including short positions.
//
// The entry point is FromTransactions, which folds a date-sorted transaction
// sequence through the balancer, the account tree and the FIFO lot matcher.
// Errors are collected across the whole run instead of aborting at the first
// failure, so one malformed transaction never hides errors elsewhere:
//
//	sheet, err := balance.FromTransactions(ctx, txs)
//	if err != nil {
//	    var buildErrors *balance.BuildErrors
//	    if errors.As(err, &buildErrors) {
//	        for _, e := range buildErrors.Errors {
//	            fmt.Println(e)
//	        }
//	    }
//	}
//
// The fold is strictly sequential: FIFO matching and the incremental
// aggregates are order-dependent, and later transactions read balances and
// lots created earlier. A Sheet is exclusively owned by its builder while
// being built and must not be mutated concurrently.
package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
	"github.com/jfvdberg/taxfolio/telemetry"
)

// Sheet is the read-only result of a builder run: the account tree plus the
// realized capital gains in the order positions were closed.
type Sheet struct {
	tree  *Tree
	gains []*CapitalGain
}

// GetAccount returns the account at the given path. Side-effect-free: a
// missing path reports false and never creates nodes.
func (s *Sheet) GetAccount(name journal.AccountName) (*Account, bool) {
	return s.tree.Get(name)
}

// Accounts returns every account keyed by full path.
func (s *Sheet) Accounts() map[journal.AccountName]*Account {
	return s.tree.Accounts()
}

// Roots returns the top-level accounts keyed by first path segment.
func (s *Sheet) Roots() map[string]*Account {
	return s.tree.Roots()
}

// CapitalGains returns the realized gain/loss records in closing order.
func (s *Sheet) CapitalGains() []*CapitalGain {
	return s.gains
}

// Builder folds transactions into a Sheet. A Builder is single-use and
// single-threaded; the sheet it produces must not be mutated afterward.
type Builder struct {
	tree    *Tree
	matcher *matcher
	gains   []*CapitalGain
	errs    []error
	lotSeq  int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	tree := NewTree()
	return &Builder{
		tree:    tree,
		matcher: &matcher{tree: tree},
	}
}

// FromTransactions builds a balance sheet from the given transactions. The
// input is sorted by date (stable for same-day ties) and folded in order.
// The returned error is a *BuildErrors aggregating every per-transaction
// failure; the sheet is returned alongside it with the partial mutations of
// failed transactions left in place.
func FromTransactions(ctx context.Context, txs journal.Transactions) (*Sheet, error) {
	return NewBuilder().Build(ctx, txs)
}

// Build runs the fold. See FromTransactions.
func (b *Builder) Build(ctx context.Context, txs journal.Transactions) (*Sheet, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("balance.build (%d transactions)", len(txs)))
	defer timer.End()

	for _, tx := range txs.SortedByDate() {
		b.fold(tx)
	}

	sheet := &Sheet{tree: b.tree, gains: b.gains}
	if len(b.errs) > 0 {
		return sheet, &BuildErrors{Errors: b.errs}
	}
	return sheet, nil
}

// fold applies one transaction. Failures are captured per transaction and do
// not abort the remaining fold. A transaction that fails mid-processing
// keeps its already-applied mutations; nothing is rolled back.
func (b *Builder) fold(tx *journal.Transaction) {
	if err := checkStructure(tx); err != nil {
		b.errs = append(b.errs, NewTransactionError(tx, err))
		return
	}

	balanced, err := Balance(tx)
	if err != nil {
		b.errs = append(b.errs, NewTransactionError(tx, err))
		return
	}

	for _, p := range balanced.Postings {
		if p.Amount == nil {
			// Unreachable after a successful Balance.
			continue
		}
		if err := b.applyPosting(balanced, p); err != nil {
			b.errs = append(b.errs, NewTransactionError(balanced, err))
		}
	}

	b.checkAssertions(balanced)
}

// checkStructure runs the integrity checks that precede balancing.
func checkStructure(tx *journal.Transaction) error {
	if tx.Date.IsZero() {
		return &MalformedTransactionError{Reason: "missing date", Pos: tx.Pos}
	}
	if tx.Payee == "" {
		return &MalformedTransactionError{Reason: "missing payee", Pos: tx.Pos, Date: tx.Date}
	}
	if len(tx.Postings) < 2 {
		return &MalformedTransactionError{
			Reason: fmt.Sprintf("%d posting(s), need at least 2", len(tx.Postings)),
			Pos:    tx.Pos,
			Date:   tx.Date,
		}
	}
	return nil
}

// applyPosting routes one concrete-amount posting into the sheet. Cash
// commodities update the running cash balance directly; asset commodities on
// accounts under assets move only through lot creation and FIFO matching.
// Asset commodities elsewhere, like an inferred equity conversion leg, are
// tallied as running quantities without lot tracking.
func (b *Builder) applyPosting(tx *journal.Transaction, p *journal.Posting) error {
	c := p.Amount.Commodity
	if c.IsCash() || !p.Account.IsAsset() {
		b.tree.GetOrCreate(p.Account).addCash(c, p.Amount.Quantity)
		return nil
	}

	qty := p.Amount.Quantity
	if qty.IsZero() {
		return nil
	}

	open := b.openPosition(p.Account, c)

	switch {
	case qty.IsNegative() && open.IsPositive():
		// Reduction of a long position.
		return b.closePosition(tx, p)
	case qty.IsPositive() && open.IsNegative():
		// Buy-to-cover against an open short.
		return b.closePosition(tx, p)
	case qty.IsNegative():
		// No long position to reduce: this opens a short lot whose cost
		// basis is the sale proceeds per unit.
		return b.openLot(tx, p, true)
	default:
		return b.openLot(tx, p, false)
	}
}

// openPosition returns the signed open quantity for a commodity across the
// account and its dated subaccounts.
func (b *Builder) openPosition(account journal.AccountName, c journal.Commodity) decimal.Decimal {
	open := decimal.Zero
	for _, cand := range b.matcher.candidates(account, c) {
		open = open.Add(cand.lot.Remaining)
	}
	return open
}

// openLot creates an acquisition (or short-sale) lot from a posting with a
// resolvable cost and adds it to the posting's account.
func (b *Builder) openLot(tx *journal.Transaction, p *journal.Posting, short bool) error {
	costPerUnit, ok := resolveCostPerUnit(tx, p, short)
	if !ok {
		// Without a cost annotation or an offsetting cash leg there is no
		// basis to record; the posting leaves no lot behind.
		return nil
	}

	b.lotSeq++
	lot := &Lot{
		AcquisitionDate: tx.Date,
		Quantity:        p.Amount.Quantity,
		CostPerUnit:     costPerUnit,
		Remaining:       p.Amount.Quantity,
		Posting:         p,
		Short:           short,
		seq:             b.lotSeq,
	}

	acc := b.tree.GetOrCreate(p.Account)
	acc.OwnBalance(p.Amount.Commodity).Holding.AddLot(lot)
	acc.bubbleTotal(p.Amount.Commodity, lot.Quantity)
	return nil
}

// closePosition runs the FIFO matcher for a closing posting and records the
// resulting gains. The matched portion is kept even when the lots run out;
// the shortfall comes back as an error.
func (b *Builder) closePosition(tx *journal.Transaction, p *journal.Posting) error {
	results, err := b.matcher.match(tx, p)
	b.gains = append(b.gains, results...)
	return err
}

// resolveCostPerUnit determines a lot's per-unit cost basis. A cost
// annotation wins; without one the basis is derived pro rata from the
// transaction's offsetting cash leg (outflow for an acquisition, inflow for
// a short sale).
func resolveCostPerUnit(tx *journal.Transaction, p *journal.Posting, short bool) (journal.Amount, bool) {
	qty := p.Amount.Quantity.Abs()

	if p.Cost != nil {
		switch p.Cost.Kind {
		case journal.TotalCost:
			return journal.Amount{
				Quantity:  p.Cost.Amount.Quantity.Div(qty),
				Commodity: p.Cost.Amount.Commodity,
			}, true
		default:
			return p.Cost.Amount, true
		}
	}

	cf := sumCashFlows(tx, p)
	if short {
		if cf.in.IsZero() {
			return journal.Amount{}, false
		}
		return journal.Amount{Quantity: cf.in.Div(qty), Commodity: cf.inCmdty}, true
	}
	if cf.out.IsZero() {
		return journal.Amount{}, false
	}
	return journal.Amount{Quantity: cf.out.Div(qty), Commodity: cf.outCmdty}, true
}

// checkAssertions verifies posting-level balance assertions against the
// account's own balance after the transaction has been applied.
func (b *Builder) checkAssertions(tx *journal.Transaction) {
	for _, p := range tx.Postings {
		if p.Assertion == nil {
			continue
		}
		acc := b.tree.GetOrCreate(p.Account)
		actual := acc.Own(p.Assertion.Commodity)
		if !actual.Equal(p.Assertion.Quantity) {
			b.errs = append(b.errs, NewTransactionError(tx, &AssertionError{
				Account:  p.Account,
				Expected: *p.Assertion,
				Actual:   journal.Amount{Quantity: actual, Commodity: p.Assertion.Commodity},
				Pos:      p.Pos,
				Date:     tx.Date,
			}))
		}
	}
}
