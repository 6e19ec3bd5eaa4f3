package journal

import (
	"regexp"
	"strings"
)

// AccountName is a colon-delimited account path with case preserved, e.g.
// "assets:broker:aapl" or "assets:broker:aapl:20230115". Segments are exactly
// the source tokens; no normalization is applied.
type AccountName string

// Segments returns the ordered path segments.
func (a AccountName) Segments() []string {
	if a == "" {
		return nil
	}
	return strings.Split(string(a), ":")
}

// Parent returns the account path with the last segment dropped, or "" for a
// single-segment account.
func (a AccountName) Parent() AccountName {
	i := strings.LastIndexByte(string(a), ':')
	if i < 0 {
		return ""
	}
	return a[:i]
}

// Leaf returns the last path segment.
func (a AccountName) Leaf() string {
	i := strings.LastIndexByte(string(a), ':')
	return string(a[i+1:])
}

// datedSegmentRegex matches the 8-digit YYYYMMDD leaf of a dated subaccount.
var datedSegmentRegex = regexp.MustCompile(`^\d{8}$`)

// IsDatedSubaccount reports whether the final segment is an 8-digit date.
// Dated subaccounts disambiguate multiple lots of one ticker, e.g.
// assets:broker:aapl:20230115.
func (a AccountName) IsDatedSubaccount() bool {
	return datedSegmentRegex.MatchString(a.Leaf())
}

// IsAsset reports whether the first segment is "assets".
func (a AccountName) IsAsset() bool {
	s := string(a)
	return s == "assets" || strings.HasPrefix(s, "assets:")
}

// IsDescendantOf reports whether the account lies strictly below the given
// ancestor in the hierarchy.
func (a AccountName) IsDescendantOf(ancestor AccountName) bool {
	return len(a) > len(ancestor) && strings.HasPrefix(string(a), string(ancestor)+":")
}

// String returns the account path.
func (a AccountName) String() string { return string(a) }
