package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
)

// Error types for balancing and lot-matching failures. Every error carries
// the source position of the transaction it belongs to; rendering follows
// the "file:line: message" convention with a date fallback when the journal
// was built programmatically and has no positions.

func errorLocation(pos journal.Position, date *journal.Date) string {
	if pos.Filename != "" {
		return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
	}
	if date != nil {
		return date.String()
	}
	return "<unknown>"
}

// ImbalanceError is returned when a transaction with no elided postings
// leaves more than two commodities imbalanced. It reports the first
// imbalanced commodity in encounter order.
type ImbalanceError struct {
	Commodity journal.Commodity
	Sum       decimal.Decimal
	Pos       journal.Position
	Date      *journal.Date
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s: transaction does not balance: %s %s remaining",
		errorLocation(e.Pos, e.Date), e.Sum.String(), e.Commodity)
}

// NoCommoditiesElidedError is returned when a posting amount must be
// inferred but the transaction mentions no commodity at all.
type NoCommoditiesElidedError struct {
	Pos  journal.Position
	Date *journal.Date
}

func (e *NoCommoditiesElidedError) Error() string {
	return fmt.Sprintf("%s: cannot infer elided amount: transaction has no commodities",
		errorLocation(e.Pos, e.Date))
}

// UnresolvedElidedAmountError is returned when a single elided posting would
// have to absorb imbalances in more than one commodity.
type UnresolvedElidedAmountError struct {
	Commodity journal.Commodity
	Pos       journal.Position
	Date      *journal.Date
}

func (e *UnresolvedElidedAmountError) Error() string {
	return fmt.Sprintf("%s: cannot infer elided amount: multiple commodities imbalanced (first: %s)",
		errorLocation(e.Pos, e.Date), e.Commodity)
}

// AmbiguousElidedAmountError is returned when several elided postings
// compete for a single remaining imbalance.
type AmbiguousElidedAmountError struct {
	Commodity journal.Commodity
	Sum       decimal.Decimal
	Pos       journal.Position
	Date      *journal.Date
}

func (e *AmbiguousElidedAmountError) Error() string {
	return fmt.Sprintf("%s: ambiguous elided amounts: %s %s remaining for multiple elided postings",
		errorLocation(e.Pos, e.Date), e.Sum.String(), e.Commodity)
}

// MultipleCommoditiesRemainingError is returned when the number of elided
// postings does not line up with the number of imbalanced commodities and
// more than one imbalance remains.
type MultipleCommoditiesRemainingError struct {
	Commodity  journal.Commodity // first imbalanced commodity
	Imbalanced int
	Elided     int
	Pos        journal.Position
	Date       *journal.Date
}

func (e *MultipleCommoditiesRemainingError) Error() string {
	return fmt.Sprintf("%s: cannot pair elided postings: %d commodities imbalanced for %d elided postings (first: %s)",
		errorLocation(e.Pos, e.Date), e.Imbalanced, e.Elided, e.Commodity)
}

// MalformedTransactionError is returned by the structural pre-checks that
// run before balancing: missing date, missing payee, fewer than two
// postings.
type MalformedTransactionError struct {
	Reason string
	Pos    journal.Position
	Date   *journal.Date
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("%s: malformed transaction: %s", errorLocation(e.Pos, e.Date), e.Reason)
}

// InsufficientLotsError is returned when a closing posting cannot be fully
// matched against open lots. The matched portion has already been recorded;
// Missing is the unmatched remainder.
type InsufficientLotsError struct {
	Account   journal.AccountName
	Commodity journal.Commodity
	Missing   decimal.Decimal
	Pos       journal.Position
	Date      *journal.Date
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("%s: not enough open lots for %s on %s: %s unmatched",
		errorLocation(e.Pos, e.Date), e.Commodity, e.Account, e.Missing.String())
}

// AssertionError is returned when a posting's balance assertion does not
// match the account balance after the posting applies.
type AssertionError struct {
	Account  journal.AccountName
	Expected journal.Amount
	Actual   journal.Amount
	Pos      journal.Position
	Date     *journal.Date
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: balance assertion failed for %s: expected %s, got %s",
		errorLocation(e.Pos, e.Date), e.Account, e.Expected.String(), e.Actual.String())
}

// TransactionError wraps any failure scoped to a single transaction with
// the transaction's source location. The builder collects these instead of
// aborting the fold.
type TransactionError struct {
	Pos   journal.Position
	Date  *journal.Date
	Payee string
	Err   error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction %q: %v", errorLocation(e.Pos, e.Date), e.Payee, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransactionError) Unwrap() error { return e.Err }

// NewTransactionError wraps an error with a transaction's location.
func NewTransactionError(tx *journal.Transaction, err error) *TransactionError {
	return &TransactionError{
		Pos:   tx.Pos,
		Date:  tx.Date,
		Payee: tx.Payee,
		Err:   err,
	}
}

// BuildErrors wraps every error collected across a full builder run.
type BuildErrors struct {
	Errors []error
}

func (e *BuildErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred while building the balance sheet", len(e.Errors))
}

// Unwrap returns the underlying errors for errors.Is/As traversal.
func (e *BuildErrors) Unwrap() []error { return e.Errors }
