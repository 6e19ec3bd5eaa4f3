package journal

// CostKind distinguishes per-unit cost annotations (@) from total cost
// annotations (@@).
type CostKind int

const (
	// UnitCost is a per-unit price annotation: 10 AAPL @ 150 USD.
	UnitCost CostKind = iota
	// TotalCost is a total price annotation: 10 AAPL @@ 1500 USD.
	TotalCost
)

// Cost is a posting's price annotation. For UnitCost the amount is the price
// per unit of the posting's commodity; for TotalCost it is the price of the
// whole posting quantity. Costs drive the implied secondary-commodity effect
// during balancing and the cost basis of acquisition lots.
type Cost struct {
	Kind   CostKind
	Amount Amount
}

// Status is the clearing state of a posting.
type Status int

const (
	// Unmarked is a posting with no status flag.
	Unmarked Status = iota
	// Pending is a posting flagged "!".
	Pending
	// Cleared is a posting flagged "*".
	Cleared
)

// Posting represents a single leg of a transaction: an account plus an
// optional amount, cost annotation and balance assertion. A posting without
// an amount is "elided"; the balancer infers the amount from the zero-sum
// constraint.
//
// Example postings within transactions:
//
//	assets:broker:aapl     10 AAPL @@ 1500 USD   ; acquisition with total cost
//	assets:broker:cash    -1500 USD              ; cash leg
//	equity:opening                               ; elided amount
type Posting struct {
	Pos       Position
	Account   AccountName
	Amount    *Amount // nil means the amount is elided
	Cost      *Cost
	Assertion *Amount // balance assertion after applying this posting
	Status    Status
	Comment   string
	Tags      []string
}

// Elided reports whether the posting omits its amount.
func (p *Posting) Elided() bool { return p.Amount == nil }

// Clone returns a copy of the posting. Amounts and cost are copied so the
// balancer can fill in elided postings without touching caller-owned values.
func (p *Posting) Clone() *Posting {
	c := *p
	if p.Amount != nil {
		amount := *p.Amount
		c.Amount = &amount
	}
	if p.Cost != nil {
		cost := *p.Cost
		c.Cost = &cost
	}
	if p.Assertion != nil {
		assertion := *p.Assertion
		c.Assertion = &assertion
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return &c
}

// AppendComment concatenates a note after any pre-existing comment.
func (p *Posting) AppendComment(note string) {
	if p.Comment == "" {
		p.Comment = note
		return
	}
	p.Comment += "; " + note
}

// Transaction records a dated financial event as a list of postings. After
// balancing, the per-commodity sum of posting effects (including cost-implied
// secondary-commodity effects) is zero.
type Transaction struct {
	Pos      Position
	Date     *Date
	Payee    string
	Postings []*Posting
}

// Clone returns a copy of the transaction with cloned postings.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Postings = make([]*Posting, len(t.Postings))
	for i, p := range t.Postings {
		c.Postings[i] = p.Clone()
	}
	return &c
}
