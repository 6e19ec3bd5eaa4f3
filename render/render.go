// Package render writes human-readable reports for balance sheets: the
// account tree with subtree totals and the realized capital-gains table.
// Output is column-aligned; styling degrades to plain text on non-terminal
// writers.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/journal"
)

var (
	accountStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	gainStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	lossStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	headerStyle  = lipgloss.NewStyle().Bold(true)
	flagStyle    = lipgloss.NewStyle().Faint(true)
)

// MinimumSpacing is the minimum number of spaces between a label and the
// first amount column.
const MinimumSpacing = 2

// balanceRow is one line of the balances report, computed before alignment.
type balanceRow struct {
	label   string // tree glyphs + account segment
	amounts []journal.Amount
}

// Balances writes the account tree with per-commodity subtree totals.
// Accounts and commodities are ordered alphabetically so output is stable.
func Balances(w io.Writer, sheet *balance.Sheet) error {
	var rows []balanceRow

	roots := sheet.Roots()
	for _, name := range sortedKeys(roots) {
		root := roots[name]
		rows = append(rows, balanceRow{label: root.Name.Leaf(), amounts: totalAmounts(root)})
		collectChildren(&rows, root, "")
	}

	labelWidth := 0
	amountWidth := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row.label); w > labelWidth {
			labelWidth = w
		}
		for _, a := range row.amounts {
			if w := runewidth.StringWidth(a.Quantity.String()); w > amountWidth {
				amountWidth = w
			}
		}
	}

	for _, row := range rows {
		pad := labelWidth - runewidth.StringWidth(row.label) + MinimumSpacing
		line := accountStyle.Render(row.label) + strings.Repeat(" ", pad)

		cells := make([]string, 0, len(row.amounts))
		for _, a := range row.amounts {
			qty := a.Quantity.String()
			cells = append(cells, strings.Repeat(" ", amountWidth-runewidth.StringWidth(qty))+qty+" "+a.Commodity.Name)
		}
		line += strings.Join(cells, "  ")

		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// collectChildren walks an account's children depth-first, emitting one row
// per account with tree connectors and its nonzero subtree totals.
func collectChildren(rows *[]balanceRow, acc *balance.Account, prefix string) {
	children := sortedKeys(acc.Children)
	for i, name := range children {
		child := acc.Children[name]

		glyph, childPrefix := "├─ ", prefix+"│  "
		if i == len(children)-1 {
			glyph, childPrefix = "└─ ", prefix+"   "
		}

		*rows = append(*rows, balanceRow{
			label:   prefix + glyph + child.Name.Leaf(),
			amounts: totalAmounts(child),
		})
		collectChildren(rows, child, childPrefix)
	}
}

// totalAmounts returns an account's nonzero subtree totals sorted by
// commodity name.
func totalAmounts(acc *balance.Account) []journal.Amount {
	commodities := acc.TotalCommodities()
	sort.Slice(commodities, func(i, j int) bool { return commodities[i].Name < commodities[j].Name })

	var amounts []journal.Amount
	for _, c := range commodities {
		total := acc.Total(c)
		if total.IsZero() {
			continue
		}
		amounts = append(amounts, journal.Amount{Quantity: total, Commodity: c})
	}
	return amounts
}

func sortedKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
