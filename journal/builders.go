// Builder functions for programmatically constructing journal values, in the
// style of importers and tests. Complex types use functional options.
package journal

// TransactionOption configures a transaction under construction.
type TransactionOption func(*Transaction)

// NewTransaction creates a transaction with the given date and payee.
//
// Example:
//
//	tx := journal.NewTransaction(journal.MustDate("2023-01-01"), "Broker",
//		journal.WithPostings(
//			journal.NewPosting("assets:broker:aapl", journal.WithAmount("10", "AAPL"),
//				journal.WithTotalCost("1500", "USD")),
//			journal.NewPosting("assets:broker:cash", journal.WithAmount("-1500", "USD")),
//		),
//	)
func NewTransaction(date *Date, payee string, opts ...TransactionOption) *Transaction {
	tx := &Transaction{
		Date:  date,
		Payee: payee,
	}
	for _, opt := range opts {
		opt(tx)
	}
	return tx
}

// WithPostings appends postings to the transaction.
func WithPostings(postings ...*Posting) TransactionOption {
	return func(tx *Transaction) {
		tx.Postings = append(tx.Postings, postings...)
	}
}

// PostingOption configures a posting under construction.
type PostingOption func(*Posting)

// NewPosting creates a posting for the given account. Without a WithAmount
// option the posting is elided.
func NewPosting(account AccountName, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithAmount sets the posting amount. Panics on an invalid decimal string;
// builders are for literals and tests, not untrusted input.
func WithAmount(quantity, commodity string) PostingOption {
	return func(p *Posting) {
		p.Amount = MustAmount(quantity, commodity)
	}
}

// WithUnitCost sets a per-unit cost annotation (@).
func WithUnitCost(quantity, commodity string) PostingOption {
	return func(p *Posting) {
		p.Cost = &Cost{Kind: UnitCost, Amount: *MustAmount(quantity, commodity)}
	}
}

// WithTotalCost sets a total cost annotation (@@).
func WithTotalCost(quantity, commodity string) PostingOption {
	return func(p *Posting) {
		p.Cost = &Cost{Kind: TotalCost, Amount: *MustAmount(quantity, commodity)}
	}
}

// WithAssertion sets a balance assertion checked after the posting applies.
func WithAssertion(quantity, commodity string) PostingOption {
	return func(p *Posting) {
		p.Assertion = MustAmount(quantity, commodity)
	}
}

// WithComment sets the posting comment.
func WithComment(comment string) PostingOption {
	return func(p *Posting) {
		p.Comment = comment
	}
}

// WithTags sets the posting tags.
func WithTags(tags ...string) PostingOption {
	return func(p *Posting) {
		p.Tags = tags
	}
}
