package journalio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jfvdberg/taxfolio/journal"
)

type documentDoc struct {
	Transactions []transactionDoc `json:"transactions"`
}

// Encode writes transactions as an indented journal document. The output
// decodes back to an equivalent journal, minus source positions.
func Encode(w io.Writer, txs journal.Transactions) error {
	doc := documentDoc{Transactions: make([]transactionDoc, 0, len(txs))}
	for _, tx := range txs {
		doc.Transactions = append(doc.Transactions, encodeTransaction(tx))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}
	return nil
}

func encodeTransaction(tx *journal.Transaction) transactionDoc {
	doc := transactionDoc{
		Date:  tx.Date.String(),
		Payee: tx.Payee,
	}
	for _, p := range tx.Postings {
		doc.Postings = append(doc.Postings, encodePosting(p))
	}
	return doc
}

func encodePosting(p *journal.Posting) postingDoc {
	doc := postingDoc{
		Account: string(p.Account),
		Comment: p.Comment,
		Tags:    p.Tags,
	}

	if p.Amount != nil {
		doc.Amount = &amountDoc{Quantity: p.Amount.Quantity, Commodity: p.Amount.Commodity.Name}
	}
	if p.Assertion != nil {
		doc.Assertion = &amountDoc{Quantity: p.Assertion.Quantity, Commodity: p.Assertion.Commodity.Name}
	}
	if p.Cost != nil {
		kind := "unit"
		if p.Cost.Kind == journal.TotalCost {
			kind = "total"
		}
		doc.Cost = &costDoc{
			Kind:      kind,
			Quantity:  p.Cost.Amount.Quantity,
			Commodity: p.Cost.Amount.Commodity.Name,
		}
	}

	switch p.Status {
	case journal.Pending:
		doc.Status = "!"
	case journal.Cleared:
		doc.Status = "*"
	}

	return doc
}
