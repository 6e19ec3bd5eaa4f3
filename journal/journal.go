// Package journal declares the decoded value types of a plain-text-accounting
// journal: transactions, postings, amounts, commodities and account names.
//
// These types are what the journal parser produces after decoding source text.
// They can also be constructed programmatically (importers, tests) using the
// builder functions in this package. The balance package consumes them as
// read-only values; nothing in this package mutates a transaction after it
// has been built.
package journal

import (
	"golang.org/x/exp/slices"
)

// Transactions is an ordered list of transactions.
type Transactions []*Transaction

// SortedByDate returns a copy of the list sorted by transaction date.
// The sort is stable: transactions on the same day keep their input order,
// which matters because later postings may consume lots opened earlier in
// the same day.
func (txs Transactions) SortedByDate() Transactions {
	sorted := make(Transactions, len(txs))
	copy(sorted, txs)
	slices.SortStableFunc(sorted, func(a, b *Transaction) int {
		return a.Date.Compare(b.Date.Time)
	})
	return sorted
}
