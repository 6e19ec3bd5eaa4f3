package balance

import (
	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
)

// BalanceKind tags an account's per-commodity balance as cash or asset.
// The kind is chosen once at creation from the commodity classification and
// matched explicitly everywhere; there is no type hierarchy.
type BalanceKind int

const (
	// CashKind is a single running amount, updated by simple addition.
	CashKind BalanceKind = iota
	// AssetKind is a lot-tracked holding; its quantity moves only through
	// lot creation and matching.
	AssetKind
)

// CommodityBalance is one account's balance in one commodity: either a
// running cash amount or a lot ledger, never both.
type CommodityBalance struct {
	Kind    BalanceKind
	Cash    decimal.Decimal // CashKind only
	Holding *Holding        // AssetKind only
}

// Quantity returns the balance quantity regardless of kind. For assets this
// is the holding's incrementally maintained total.
func (b *CommodityBalance) Quantity() decimal.Decimal {
	switch b.Kind {
	case AssetKind:
		return b.Holding.TotalQuantity
	default:
		return b.Cash
	}
}

// Account is a node in the hierarchical account registry. Own balances hold
// the account's direct positions; subtree totals additionally include every
// descendant and are maintained incrementally on each mutation.
type Account struct {
	Name     journal.AccountName
	Parent   *Account // non-owning back-reference, nil for roots
	Children map[string]*Account

	own    map[journal.Commodity]*CommodityBalance
	totals map[journal.Commodity]decimal.Decimal
}

func newAccount(name journal.AccountName, parent *Account) *Account {
	return &Account{
		Name:     name,
		Parent:   parent,
		Children: make(map[string]*Account),
		own:      make(map[journal.Commodity]*CommodityBalance),
		totals:   make(map[journal.Commodity]decimal.Decimal),
	}
}

// OwnBalance returns the account's own balance for a commodity, creating it
// with the kind implied by the commodity's classification. Lot tracking is
// confined to the assets hierarchy: a non-cash commodity outside it (an
// inferred equity conversion, say) is tallied as a plain running quantity.
func (a *Account) OwnBalance(c journal.Commodity) *CommodityBalance {
	if b, ok := a.own[c]; ok {
		return b
	}
	b := &CommodityBalance{Kind: CashKind}
	if !c.IsCash() && a.Name.IsAsset() {
		b = &CommodityBalance{Kind: AssetKind, Holding: NewHolding(c)}
	}
	a.own[c] = b
	return b
}

// Own returns the account's own balance quantity for a commodity, zero when
// the account has never touched it. Read-only.
func (a *Account) Own(c journal.Commodity) decimal.Decimal {
	if b, ok := a.own[c]; ok {
		return b.Quantity()
	}
	return decimal.Zero
}

// Total returns the subtree-total quantity for a commodity: the account's
// own balance plus all descendants'. Read-only.
func (a *Account) Total(c journal.Commodity) decimal.Decimal {
	return a.totals[c]
}

// OwnCommodities returns the commodities with an own balance on this
// account, in unspecified order.
func (a *Account) OwnCommodities() []journal.Commodity {
	out := make([]journal.Commodity, 0, len(a.own))
	for c := range a.own {
		out = append(out, c)
	}
	return out
}

// TotalCommodities returns the commodities present anywhere in the subtree.
func (a *Account) TotalCommodities() []journal.Commodity {
	out := make([]journal.Commodity, 0, len(a.totals))
	for c := range a.totals {
		out = append(out, c)
	}
	return out
}

// Holding returns the lot ledger for an asset commodity, or nil when the
// account holds none. Read-only: never creates.
func (a *Account) Holding(c journal.Commodity) *Holding {
	b, ok := a.own[c]
	if !ok || b.Kind != AssetKind {
		return nil
	}
	return b.Holding
}

// addCash applies a delta to the account's own cash balance and bubbles the
// change into every ancestor's subtree total.
func (a *Account) addCash(c journal.Commodity, delta decimal.Decimal) {
	b := a.OwnBalance(c)
	b.Cash = b.Cash.Add(delta)
	a.bubbleTotal(c, delta)
}

// bubbleTotal propagates a quantity delta for one commodity from this
// account up through the root.
func (a *Account) bubbleTotal(c journal.Commodity, delta decimal.Decimal) {
	for node := a; node != nil; node = node.Parent {
		node.totals[c] = node.totals[c].Add(delta)
	}
}
