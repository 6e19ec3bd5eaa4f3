package journal

import (
	"regexp"
	"sync"
)

// CommodityKind classifies a commodity once at construction time. The balance
// package dispatches on the kind everywhere: cash commodities get a simple
// running balance, everything else gets lot-tracked holdings.
type CommodityKind int

const (
	// Cash is a fiat currency such as USD or EUR.
	Cash CommodityKind = iota
	// Stock is an equity ticker, the default for unrecognized names.
	Stock
	// Crypto is a cryptocurrency ticker.
	Crypto
	// Option is an OCC-style option contract symbol.
	Option
)

// String returns the string representation of the commodity kind.
func (k CommodityKind) String() string {
	switch k {
	case Cash:
		return "Cash"
	case Stock:
		return "Stock"
	case Crypto:
		return "Crypto"
	case Option:
		return "Option"
	default:
		return "Unknown"
	}
}

// Commodity is a named unit of value: a currency, stock ticker, crypto
// ticker, or option contract. Two commodities are equal iff their names are
// equal; the kind is a pure function of the name, classified once by
// NewCommodity and cached.
type Commodity struct {
	Name string
	Kind CommodityKind
}

// IsCash reports whether the commodity is a fiat currency.
func (c Commodity) IsCash() bool { return c.Kind == Cash }

// String returns the commodity name.
func (c Commodity) String() string { return c.Name }

// cashCurrencies lists the fiat currencies recognized as cash. Anything not
// listed here falls through to the crypto list and option pattern.
var cashCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CHF": true,
	"CAD": true, "AUD": true, "NZD": true, "HKD": true, "SGD": true,
	"CNY": true, "SEK": true, "NOK": true, "DKK": true, "KRW": true,
	"INR": true, "MXN": true, "BRL": true, "ZAR": true, "PLN": true,
}

// cryptoCurrencies lists the cryptocurrency tickers recognized as crypto.
var cryptoCurrencies = map[string]bool{
	"BTC": true, "ETH": true, "SOL": true, "ADA": true, "DOT": true,
	"DOGE": true, "LTC": true, "XRP": true, "BCH": true, "XMR": true,
	"USDT": true, "USDC": true, "DAI": true,
}

// optionSymbolRegex matches OCC option symbols: underlying ticker, 6-digit
// expiry (YYMMDD), C or P, and an 8-digit strike in thousandths.
// Example: AAPL240119C00190000.
var optionSymbolRegex = regexp.MustCompile(`^[A-Z]{1,6}\d{6}[CP]\d{8}$`)

var (
	commodityMu    sync.RWMutex
	commodityCache = map[string]Commodity{}
)

// NewCommodity returns the commodity for the given name, classifying it on
// first use and serving subsequent lookups from a cache.
func NewCommodity(name string) Commodity {
	commodityMu.RLock()
	c, ok := commodityCache[name]
	commodityMu.RUnlock()
	if ok {
		return c
	}

	c = Commodity{Name: name, Kind: classifyCommodity(name)}

	commodityMu.Lock()
	commodityCache[name] = c
	commodityMu.Unlock()

	return c
}

// classifyCommodity derives the kind from the commodity name.
func classifyCommodity(name string) CommodityKind {
	switch {
	case cashCurrencies[name]:
		return Cash
	case cryptoCurrencies[name]:
		return Crypto
	case optionSymbolRegex.MatchString(name):
		return Option
	default:
		return Stock
	}
}
