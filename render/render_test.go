package render

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/journal"
)

func buildSheet(t *testing.T, txs journal.Transactions) *balance.Sheet {
	t.Helper()
	sheet, err := balance.FromTransactions(context.Background(), txs)
	assert.NoError(t, err)
	return sheet
}

func TestBalances(t *testing.T) {
	sheet := buildSheet(t, journal.Transactions{
		journal.NewTransaction(journal.MustDate("2023-01-01"), "opening",
			journal.WithPostings(
				journal.NewPosting("assets:bank:checking", journal.WithAmount("1000", "USD")),
				journal.NewPosting("equity:opening"),
			),
		),
		journal.NewTransaction(journal.MustDate("2023-01-02"), "rent",
			journal.WithPostings(
				journal.NewPosting("expenses:rent", journal.WithAmount("1200", "USD")),
				journal.NewPosting("assets:bank:checking"),
			),
		),
	})

	var buf strings.Builder
	assert.NoError(t, Balances(&buf, sheet))
	out := buf.String()

	assert.Contains(t, out, "assets")
	assert.Contains(t, out, "└─ bank")
	assert.Contains(t, out, "└─ checking")
	assert.Contains(t, out, "-200 USD")
	assert.Contains(t, out, "1200 USD")

	// Roots in alphabetical order.
	assert.True(t, strings.Index(out, "assets") < strings.Index(out, "equity"))
	assert.True(t, strings.Index(out, "equity") < strings.Index(out, "expenses"))
}

func TestBalances_AmountAlignment(t *testing.T) {
	sheet := buildSheet(t, journal.Transactions{
		journal.NewTransaction(journal.MustDate("2023-01-01"), "opening",
			journal.WithPostings(
				journal.NewPosting("assets:a", journal.WithAmount("5", "USD")),
				journal.NewPosting("assets:b", journal.WithAmount("12345", "USD")),
				journal.NewPosting("equity:opening"),
			),
		),
	})

	var buf strings.Builder
	assert.NoError(t, Balances(&buf, sheet))

	// The short quantity is padded to the widest one.
	assert.Contains(t, buf.String(), "    5 USD")
}

func TestGains(t *testing.T) {
	sheet := buildSheet(t, journal.Transactions{
		journal.NewTransaction(journal.MustDate("2023-01-10"), "buy",
			journal.WithPostings(
				journal.NewPosting("assets:broker:aapl",
					journal.WithAmount("10", "AAPL"), journal.WithTotalCost("1500", "USD")),
				journal.NewPosting("assets:broker:cash", journal.WithAmount("-1500", "USD")),
			),
		),
		journal.NewTransaction(journal.MustDate("2023-03-01"), "sell",
			journal.WithPostings(
				journal.NewPosting("assets:broker:aapl", journal.WithAmount("-5", "AAPL")),
				journal.NewPosting("assets:broker:cash", journal.WithAmount("1000", "USD")),
			),
		),
	})

	var buf strings.Builder
	assert.NoError(t, Gains(&buf, sheet.CapitalGains()))
	out := buf.String()

	assert.Contains(t, out, "GAIN/LOSS")
	assert.Contains(t, out, "2023-03-01")
	assert.Contains(t, out, "2023-01-10")
	assert.Contains(t, out, "5 AAPL")
	assert.Contains(t, out, "1000 USD")
	assert.Contains(t, out, "750 USD")
	assert.Contains(t, out, "250 USD")
}

func TestGains_Empty(t *testing.T) {
	var buf strings.Builder
	assert.NoError(t, Gains(&buf, nil))
	assert.Equal(t, "no realized gains\n", buf.String())
}
