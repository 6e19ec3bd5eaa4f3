package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/journal"
)

// Flags shown in the last column of the gains table. A "?" marks a gain that
// could not be computed because cost and proceeds use different commodities;
// a "~" marks proceeds approximated from mixed cash commodities.
const (
	flagUnknown = "?"
	flagMixed   = "~"
)

var gainsHeader = []string{"CLOSED", "ACQUIRED", "QTY", "PROCEEDS", "COST", "GAIN/LOSS", ""}

// Gains writes the realized capital gains as an aligned table, one row per
// matched lot portion, in closing order. The last row totals the gains per
// commodity when they are all comparable.
func Gains(w io.Writer, gains []*balance.CapitalGain) error {
	if len(gains) == 0 {
		_, err := fmt.Fprintln(w, "no realized gains")
		return err
	}

	rows := make([][]string, 0, len(gains)+1)
	for _, g := range gains {
		rows = append(rows, gainRow(g))
	}

	widths := make([]int, len(gainsHeader))
	for i, h := range gainsHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if err := writeRow(w, headerRow(), widths, nil); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(w, row, widths, gains[i]); err != nil {
			return err
		}
	}
	return nil
}

func headerRow() []string {
	row := make([]string, len(gainsHeader))
	copy(row, gainsHeader)
	return row
}

func gainRow(g *balance.CapitalGain) []string {
	var flags []string
	if g.GainUnknown {
		flags = append(flags, flagUnknown)
	}
	if g.MixedProceeds {
		flags = append(flags, flagMixed)
	}

	gainCell := g.GainLoss.String()
	if g.GainUnknown {
		gainCell = "unknown"
	}

	return []string{
		g.ClosingDate.String(),
		g.AcquisitionDate.String(),
		g.MatchedQuantity.String() + " " + closingCommodity(g),
		g.Proceeds.String(),
		g.CostBasis.String(),
		gainCell,
		strings.Join(flags, ""),
	}
}

func closingCommodity(g *balance.CapitalGain) string {
	if g.ClosingPosting != nil && g.ClosingPosting.Amount != nil {
		return g.ClosingPosting.Amount.Commodity.Name
	}
	return ""
}

// writeRow pads every cell to its column width. The first two columns are
// left-aligned, numeric columns right-aligned; styling wraps the padded cell
// so alignment is computed on plain text.
func writeRow(w io.Writer, row []string, widths []int, g *balance.CapitalGain) error {
	cells := make([]string, len(row))
	for i, cell := range row {
		pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
		if i < 2 {
			cells[i] = cell + pad
		} else {
			cells[i] = pad + cell
		}
	}

	if g == nil {
		for i := range cells {
			cells[i] = headerStyle.Render(cells[i])
		}
	} else {
		cells[5] = styleGain(cells[5], g.GainLoss, g.GainUnknown)
		cells[6] = flagStyle.Render(cells[6])
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	return err
}

func styleGain(cell string, gain journal.Amount, unknown bool) string {
	switch {
	case unknown:
		return flagStyle.Render(cell)
	case gain.IsNegative():
		return lossStyle.Render(cell)
	default:
		return gainStyle.Render(cell)
	}
}
