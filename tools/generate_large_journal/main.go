// Large Journal Generator
//
// This tool generates a large JSON journal for performance testing and
// profiling. It mixes plain cash transactions with investment buys and
// sells so decoding, balancing and FIFO matching are all stressed.
//
// Usage:
//
//	go run main.go > large.json
//	go run main.go 50000 > large.json  # Specify transaction count
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jfvdberg/taxfolio/journal"
	"github.com/jfvdberg/taxfolio/journalio"
)

const defaultTransactionCount = 10000

var (
	expenseAccounts = []journal.AccountName{
		"expenses:food:groceries",
		"expenses:food:restaurant",
		"expenses:housing:rent",
		"expenses:housing:utilities",
		"expenses:transport:gas",
		"expenses:shopping:electronics",
		"expenses:healthcare:medical",
		"expenses:taxes:federal",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "Chevron", "BART", "Uber",
		"Landlord", "PG&E", "Comcast", "AT&T",
		"Amazon", "Target", "Best Buy", "Apple Store",
		"Employer Inc", "Fidelity", "Vanguard",
	}

	stocks = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN", "VTI", "VXUS"}
)

func main() {
	count := defaultTransactionCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			count = n
		}
	}

	// Open positions per stock so sells never exceed what was bought.
	held := make(map[string]int)

	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := make(journal.Transactions, 0, count)

	for i := 0; i < count; i++ {
		switch rand.Intn(10) {
		case 0, 1, 2: // 30% - investment buy
			txs = append(txs, generateBuy(date, held))
		case 3: // 10% - investment sell, when something is held
			if tx := generateSell(date, held); tx != nil {
				txs = append(txs, tx)
			} else {
				txs = append(txs, generateExpense(date))
			}
		default: // 60% - plain expense with an elided cash leg
			txs = append(txs, generateExpense(date))
		}

		if rand.Intn(3) == 0 {
			date = date.AddDate(0, 0, 1)
		}
	}

	if err := journalio.Encode(os.Stdout, txs); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode journal: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "generated %d transactions\n", len(txs))
}

func generateExpense(date time.Time) *journal.Transaction {
	account := expenseAccounts[rand.Intn(len(expenseAccounts))]
	amount := decimal.NewFromInt(int64(rand.Intn(20000) + 100)).Div(decimal.NewFromInt(100))

	return journal.NewTransaction(journal.NewDateFromTime(date), payees[rand.Intn(len(payees))],
		journal.WithPostings(
			journal.NewPosting(account, journal.WithAmount(amount.String(), "USD")),
			journal.NewPosting("assets:bank:checking"),
		),
	)
}

func generateBuy(date time.Time, held map[string]int) *journal.Transaction {
	stock := stocks[rand.Intn(len(stocks))]
	qty := rand.Intn(50) + 1
	price := rand.Intn(450) + 50
	total := qty * price
	held[stock] += qty

	// Half the buys land in dated subaccounts; later sells on the parent
	// still have to find them.
	account := "assets:broker:" + stock
	if rand.Intn(2) == 0 {
		account += ":" + journal.NewDateFromTime(date).Compact()
	}

	return journal.NewTransaction(journal.NewDateFromTime(date), "Fidelity",
		journal.WithPostings(
			journal.NewPosting(journal.AccountName(account),
				journal.WithAmount(strconv.Itoa(qty), stock),
				journal.WithTotalCost(strconv.Itoa(total), "USD")),
			journal.NewPosting("assets:broker:cash", journal.WithAmount("-"+strconv.Itoa(total), "USD")),
		),
	)
}

func generateSell(date time.Time, held map[string]int) *journal.Transaction {
	for stock, open := range held {
		if open == 0 {
			continue
		}
		qty := rand.Intn(open) + 1
		price := rand.Intn(450) + 50
		held[stock] -= qty

		return journal.NewTransaction(journal.NewDateFromTime(date), "Fidelity",
			journal.WithPostings(
				journal.NewPosting(journal.AccountName("assets:broker:"+stock),
					journal.WithAmount("-"+strconv.Itoa(qty), stock)),
				journal.NewPosting("assets:broker:cash", journal.WithAmount(strconv.Itoa(qty*price), "USD")),
			),
		)
	}
	return nil
}
