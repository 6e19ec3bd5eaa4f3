package balance

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
)

func usd(quantity string) journal.Amount {
	return *journal.MustAmount(quantity, "USD")
}

func TestHolding_AddLot(t *testing.T) {
	t.Run("weighted average cost basis", func(t *testing.T) {
		h := NewHolding(journal.NewCommodity("AAPL"))
		h.AddLot(&Lot{
			AcquisitionDate: journal.MustDate("2023-01-01"),
			Quantity:        decimal.NewFromInt(10),
			Remaining:       decimal.NewFromInt(10),
			CostPerUnit:     usd("100"),
		})
		h.AddLot(&Lot{
			AcquisitionDate: journal.MustDate("2023-02-01"),
			Quantity:        decimal.NewFromInt(30),
			Remaining:       decimal.NewFromInt(30),
			CostPerUnit:     usd("200"),
		})

		// (10*100 + 30*200) / 40 = 175
		assert.True(t, h.TotalQuantity.Equal(decimal.NewFromInt(40)))
		assert.True(t, h.CostBasisPerUnit.Quantity.Equal(decimal.NewFromInt(175)))
		assert.Equal(t, "USD", h.CostBasisPerUnit.Commodity.Name)
	})

	t.Run("zero net quantity yields zero cost", func(t *testing.T) {
		h := NewHolding(journal.NewCommodity("AAPL"))
		h.AddLot(&Lot{Quantity: decimal.NewFromInt(10), Remaining: decimal.NewFromInt(10), CostPerUnit: usd("100")})
		h.AddLot(&Lot{Quantity: decimal.NewFromInt(-10), Remaining: decimal.NewFromInt(-10), CostPerUnit: usd("150")})

		assert.True(t, h.TotalQuantity.IsZero())
		assert.True(t, h.CostBasisPerUnit.Quantity.IsZero())
	})
}

func TestLot_Consume(t *testing.T) {
	t.Run("long lot shrinks toward zero", func(t *testing.T) {
		lot := &Lot{Quantity: decimal.NewFromInt(10), Remaining: decimal.NewFromInt(10)}
		lot.consume(decimal.NewFromInt(4))
		assert.True(t, lot.Remaining.Equal(decimal.NewFromInt(6)))
		assert.True(t, lot.Open())

		lot.consume(decimal.NewFromInt(6))
		assert.True(t, lot.Remaining.IsZero())
		assert.False(t, lot.Open())
	})

	t.Run("short lot grows toward zero", func(t *testing.T) {
		lot := &Lot{Quantity: decimal.NewFromInt(-10), Remaining: decimal.NewFromInt(-10), Short: true}
		lot.consume(decimal.NewFromInt(4))
		assert.True(t, lot.Remaining.Equal(decimal.NewFromInt(-6)))
	})
}

func TestHolding_OpenLots(t *testing.T) {
	h := NewHolding(journal.NewCommodity("AAPL"))
	spent := &Lot{Quantity: decimal.NewFromInt(5), Remaining: decimal.Zero, CostPerUnit: usd("90")}
	open := &Lot{Quantity: decimal.NewFromInt(10), Remaining: decimal.NewFromInt(7), CostPerUnit: usd("100")}
	h.Lots = append(h.Lots, spent, open)

	assert.Equal(t, []*Lot{open}, h.OpenLots())
	assert.True(t, h.OpenQuantity().Equal(decimal.NewFromInt(7)))
}
