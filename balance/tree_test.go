package balance

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
)

func TestTree_GetOrCreate(t *testing.T) {
	tree := NewTree()
	acc := tree.GetOrCreate("assets:broker:cash")

	assert.Equal(t, journal.AccountName("assets:broker:cash"), acc.Name)

	// Intermediate nodes were built and linked.
	root, ok := tree.Get("assets")
	assert.True(t, ok)
	broker, ok := tree.Get("assets:broker")
	assert.True(t, ok)
	assert.Equal(t, root, broker.Parent)
	assert.Equal(t, broker, acc.Parent)
	assert.Equal(t, broker, root.Children["broker"])
	assert.Equal(t, acc, broker.Children["cash"])

	// Idempotent.
	assert.Equal(t, acc, tree.GetOrCreate("assets:broker:cash"))
	assert.Equal(t, 3, len(tree.Accounts()))
}

func TestTree_GetNeverCreates(t *testing.T) {
	tree := NewTree()
	_, ok := tree.Get("assets:missing")
	assert.False(t, ok)
	assert.Equal(t, 0, len(tree.Accounts()))
}

func TestAccount_IncrementalTotals(t *testing.T) {
	tree := NewTree()
	usd := journal.NewCommodity("USD")

	checking := tree.GetOrCreate("assets:bank:checking")
	savings := tree.GetOrCreate("assets:bank:savings")

	checking.addCash(usd, decimal.NewFromInt(100))
	savings.addCash(usd, decimal.NewFromInt(50))
	checking.addCash(usd, decimal.NewFromInt(-30))

	assets, _ := tree.Get("assets")
	bank, _ := tree.Get("assets:bank")

	assert.True(t, checking.Own(usd).Equal(decimal.NewFromInt(70)))
	assert.True(t, checking.Total(usd).Equal(decimal.NewFromInt(70)))
	assert.True(t, bank.Own(usd).IsZero())
	assert.True(t, bank.Total(usd).Equal(decimal.NewFromInt(120)))
	assert.True(t, assets.Total(usd).Equal(decimal.NewFromInt(120)))
}

func TestAccount_BalanceKinds(t *testing.T) {
	tree := NewTree()
	acc := tree.GetOrCreate("assets:broker")

	cash := acc.OwnBalance(journal.NewCommodity("EUR"))
	assert.Equal(t, CashKind, cash.Kind)
	assert.Zero(t, cash.Holding)

	asset := acc.OwnBalance(journal.NewCommodity("AAPL"))
	assert.Equal(t, AssetKind, asset.Kind)
	assert.NotZero(t, asset.Holding)

	// Holding is read-only and nil for cash or untouched commodities.
	assert.Zero(t, acc.Holding(journal.NewCommodity("EUR")))
	assert.Zero(t, acc.Holding(journal.NewCommodity("MSFT")))
	assert.Equal(t, asset.Holding, acc.Holding(journal.NewCommodity("AAPL")))
}
