package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/journal"
	"github.com/jfvdberg/taxfolio/journalio"
)

// ExportCmd normalizes a journal: every transaction is balanced, elided
// amounts are filled in, and the result is written back out in the same
// interchange format, sorted by date.
type ExportCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}
	renderer := NewErrorRenderer(sourceContent)

	txs, err := cmd.File.LoadJournal(runCtx)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "decode error")
		return NewCommandError(1)
	}

	var errs []error
	balanced := make(journal.Transactions, 0, len(txs))
	for _, tx := range txs.SortedByDate() {
		b, err := balance.Balance(tx)
		if err != nil {
			errs = append(errs, balance.NewTransactionError(tx, err))
			balanced = append(balanced, tx)
			continue
		}
		balanced = append(balanced, b)
	}

	if len(errs) > 0 {
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(errs))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found; offending transactions exported as-is", len(errs)))
	}

	if err := journalio.Encode(ctx.Stdout, balanced); err != nil {
		return err
	}

	if len(errs) > 0 {
		return NewCommandError(1)
	}
	return nil
}
