// Package journalio reads and writes the JSON interchange format for
// journals. The format is a single object with a "transactions" array;
// upstream importers produce it and this package turns it into the in-memory
// journal the balance engine consumes.
//
// Example document:
//
//	{
//	  "transactions": [
//	    {
//	      "date": "2023-01-10",
//	      "payee": "Broker",
//	      "postings": [
//	        {"account": "assets:broker:aapl", "amount": {"quantity": "10", "commodity": "AAPL"},
//	         "cost": {"kind": "total", "quantity": "1500", "commodity": "USD"}},
//	        {"account": "assets:broker:cash", "amount": {"quantity": "-1500", "commodity": "USD"}}
//	      ]
//	    }
//	  ]
//	}
//
// Decoding tracks byte offsets per transaction so errors raised later by the
// balance engine can point back at a file and line.
package journalio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
	"github.com/jfvdberg/taxfolio/telemetry"
)

// DecodeError is a structural or semantic failure while decoding a journal
// document, carrying the position of the offending transaction.
type DecodeError struct {
	Pos journal.Position
	Err error
}

func (e *DecodeError) Error() string {
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %v", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error { return e.Err }

// Wire representation of a journal document.

type transactionDoc struct {
	Date     string       `json:"date"`
	Payee    string       `json:"payee"`
	Postings []postingDoc `json:"postings"`
}

type postingDoc struct {
	Account   string     `json:"account"`
	Amount    *amountDoc `json:"amount,omitempty"`
	Cost      *costDoc   `json:"cost,omitempty"`
	Assertion *amountDoc `json:"assertion,omitempty"`
	Status    string     `json:"status,omitempty"`
	Comment   string     `json:"comment,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
}

type amountDoc struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Commodity string          `json:"commodity"`
}

type costDoc struct {
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	Commodity string          `json:"commodity"`
}

// Load reads and decodes a journal file.
func Load(ctx context.Context, filename string) (journal.Transactions, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return DecodeBytes(ctx, filename, data)
}

// DecodeBytes decodes a journal document. The filename is carried into
// transaction positions for error reporting; pass "<stdin>" or similar for
// in-memory input.
func DecodeBytes(ctx context.Context, filename string, data []byte) (journal.Transactions, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("journal.decode %s", filename))
	defer timer.End()

	lines := newLineIndex(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	fail := func(offset int64, err error) error {
		return &DecodeError{Pos: lines.position(filename, offset), Err: err}
	}

	// Walk the enclosing object by hand so each transaction's byte offset
	// is known before it is decoded.
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fail(dec.InputOffset(), err)
	}

	var txs journal.Transactions
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, fail(dec.InputOffset(), err)
		}
		if key != "transactions" {
			return nil, fail(dec.InputOffset(), fmt.Errorf("unexpected key %q", key))
		}

		if err := expectDelim(dec, '['); err != nil {
			return nil, fail(dec.InputOffset(), err)
		}
		for dec.More() {
			offset := dec.InputOffset()
			var doc transactionDoc
			if err := dec.Decode(&doc); err != nil {
				return nil, fail(offset, err)
			}
			pos := lines.position(filename, offset)

			tx, err := doc.transaction(pos)
			if err != nil {
				return nil, &DecodeError{Pos: pos, Err: err}
			}
			txs = append(txs, tx)
		}
		if err := expectDelim(dec, ']'); err != nil {
			return nil, fail(dec.InputOffset(), err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fail(dec.InputOffset(), err)
	}

	return txs, nil
}

// Decode decodes a journal document from a reader.
func Decode(ctx context.Context, filename string, r io.Reader) (journal.Transactions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return DecodeBytes(ctx, filename, data)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func (doc *transactionDoc) transaction(pos journal.Position) (*journal.Transaction, error) {
	date, err := journal.NewDate(doc.Date)
	if err != nil {
		return nil, err
	}

	tx := &journal.Transaction{
		Pos:   pos,
		Date:  date,
		Payee: doc.Payee,
	}
	for i, p := range doc.Postings {
		posting, err := p.posting(pos)
		if err != nil {
			return nil, fmt.Errorf("posting %d: %w", i+1, err)
		}
		tx.Postings = append(tx.Postings, posting)
	}
	return tx, nil
}

func (doc *postingDoc) posting(pos journal.Position) (*journal.Posting, error) {
	if doc.Account == "" {
		return nil, fmt.Errorf("missing account")
	}

	p := &journal.Posting{
		Pos:     pos,
		Account: journal.AccountName(doc.Account),
		Comment: doc.Comment,
		Tags:    doc.Tags,
	}

	if doc.Amount != nil {
		amount, err := doc.Amount.amount()
		if err != nil {
			return nil, err
		}
		p.Amount = amount
	}
	if doc.Assertion != nil {
		assertion, err := doc.Assertion.amount()
		if err != nil {
			return nil, fmt.Errorf("assertion: %w", err)
		}
		p.Assertion = assertion
	}
	if doc.Cost != nil {
		cost, err := doc.Cost.cost()
		if err != nil {
			return nil, err
		}
		p.Cost = cost
	}

	switch doc.Status {
	case "":
		p.Status = journal.Unmarked
	case "!":
		p.Status = journal.Pending
	case "*":
		p.Status = journal.Cleared
	default:
		return nil, fmt.Errorf("invalid status %q", doc.Status)
	}

	return p, nil
}

func (doc *amountDoc) amount() (*journal.Amount, error) {
	if doc.Commodity == "" {
		return nil, fmt.Errorf("amount missing commodity")
	}
	return &journal.Amount{
		Quantity:  doc.Quantity,
		Commodity: journal.NewCommodity(doc.Commodity),
	}, nil
}

func (doc *costDoc) cost() (*journal.Cost, error) {
	var kind journal.CostKind
	switch doc.Kind {
	case "unit":
		kind = journal.UnitCost
	case "total":
		kind = journal.TotalCost
	default:
		return nil, fmt.Errorf("invalid cost kind %q", doc.Kind)
	}
	if doc.Commodity == "" {
		return nil, fmt.Errorf("cost missing commodity")
	}
	return &journal.Cost{
		Kind: kind,
		Amount: journal.Amount{
			Quantity:  doc.Quantity,
			Commodity: journal.NewCommodity(doc.Commodity),
		},
	}, nil
}

// lineIndex converts byte offsets into line/column positions.
type lineIndex struct {
	starts []int // byte offset of each line start
}

func newLineIndex(data []byte) *lineIndex {
	idx := &lineIndex{starts: []int{0}}
	for i, b := range data {
		if b == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

func (idx *lineIndex) position(filename string, offset int64) journal.Position {
	line := 1
	for line < len(idx.starts) && int64(idx.starts[line]) <= offset {
		line++
	}
	return journal.Position{
		Filename: filename,
		Offset:   int(offset),
		Line:     line,
		Column:   int(offset) - idx.starts[line-1] + 1,
	}
}
