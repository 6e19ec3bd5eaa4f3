package journalio

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
)

const sampleJournal = `{
  "transactions": [
    {
      "date": "2023-01-10",
      "payee": "Broker",
      "postings": [
        {"account": "assets:broker:aapl", "amount": {"quantity": "10", "commodity": "AAPL"},
         "cost": {"kind": "total", "quantity": "1500", "commodity": "USD"}},
        {"account": "assets:broker:cash", "amount": {"quantity": "-1500", "commodity": "USD"}}
      ]
    },
    {
      "date": "2023-01-15",
      "payee": "Rent",
      "postings": [
        {"account": "expenses:rent", "amount": {"quantity": "1200", "commodity": "USD"}, "status": "*"},
        {"account": "assets:checking", "comment": "main account", "tags": ["housing"]}
      ]
    }
  ]
}`

func TestDecodeBytes(t *testing.T) {
	txs, err := DecodeBytes(context.Background(), "journal.json", []byte(sampleJournal))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txs))

	buy := txs[0]
	assert.Equal(t, "2023-01-10", buy.Date.String())
	assert.Equal(t, "Broker", buy.Payee)
	assert.Equal(t, "journal.json", buy.Pos.Filename)
	assert.Equal(t, 2, len(buy.Postings))

	aapl := buy.Postings[0]
	assert.Equal(t, journal.AccountName("assets:broker:aapl"), aapl.Account)
	assert.True(t, aapl.Amount.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "AAPL", aapl.Amount.Commodity.Name)
	assert.Equal(t, journal.TotalCost, aapl.Cost.Kind)
	assert.True(t, aapl.Cost.Amount.Quantity.Equal(decimal.NewFromInt(1500)))

	rent := txs[1]
	assert.Equal(t, journal.Cleared, rent.Postings[0].Status)
	elided := rent.Postings[1]
	assert.True(t, elided.Elided())
	assert.Equal(t, "main account", elided.Comment)
	assert.Equal(t, []string{"housing"}, elided.Tags)
}

func TestDecodeBytes_Errors(t *testing.T) {
	for _, tt := range []struct {
		name  string
		input string
	}{
		{
			name:  "invalid date",
			input: `{"transactions": [{"date": "10-01-2023", "payee": "x", "postings": []}]}`,
		},
		{
			name:  "missing account",
			input: `{"transactions": [{"date": "2023-01-10", "payee": "x", "postings": [{"amount": {"quantity": "1", "commodity": "USD"}}]}]}`,
		},
		{
			name:  "invalid cost kind",
			input: `{"transactions": [{"date": "2023-01-10", "payee": "x", "postings": [{"account": "a:b", "amount": {"quantity": "1", "commodity": "AAPL"}, "cost": {"kind": "average", "quantity": "1", "commodity": "USD"}}]}]}`,
		},
		{
			name:  "invalid status",
			input: `{"transactions": [{"date": "2023-01-10", "payee": "x", "postings": [{"account": "a:b", "status": "?"}]}]}`,
		},
		{
			name:  "unknown top-level key",
			input: `{"directives": []}`,
		},
		{
			name:  "not an object",
			input: `[]`,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes(context.Background(), "journal.json", []byte(tt.input))
			var derr *DecodeError
			assert.True(t, errors.As(err, &derr), "expected DecodeError, got %v", err)
			assert.Equal(t, "journal.json", derr.Pos.Filename)
		})
	}
}

func TestDecodeBytes_PositionsAdvance(t *testing.T) {
	txs, err := DecodeBytes(context.Background(), "journal.json", []byte(sampleJournal))
	assert.NoError(t, err)

	// Later transactions sit further down the file.
	assert.True(t, txs[0].Pos.Line < txs[1].Pos.Line)
	assert.True(t, txs[1].Pos.Line > 1)
}

func TestEncode_RoundTrip(t *testing.T) {
	txs := journal.Transactions{
		journal.NewTransaction(journal.MustDate("2023-01-10"), "Broker",
			journal.WithPostings(
				journal.NewPosting("assets:broker:aapl",
					journal.WithAmount("10", "AAPL"), journal.WithTotalCost("1500", "USD")),
				journal.NewPosting("assets:broker:cash", journal.WithAmount("-1500", "USD")),
			),
		),
		journal.NewTransaction(journal.MustDate("2023-01-15"), "Rent",
			journal.WithPostings(
				journal.NewPosting("expenses:rent",
					journal.WithAmount("1200", "USD"), journal.WithAssertion("1200", "USD")),
				journal.NewPosting("assets:checking", journal.WithComment("main account")),
			),
		),
	}

	var buf bytes.Buffer
	assert.NoError(t, Encode(&buf, txs))

	decoded, err := DecodeBytes(context.Background(), "", buf.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, 2, len(decoded))

	assert.Equal(t, txs[0].Payee, decoded[0].Payee)
	assert.Equal(t, txs[0].Date.String(), decoded[0].Date.String())
	assert.Equal(t, journal.TotalCost, decoded[0].Postings[0].Cost.Kind)
	assert.True(t, decoded[1].Postings[0].Assertion.Quantity.Equal(decimal.NewFromInt(1200)))
	assert.True(t, decoded[1].Postings[1].Elided())
}
