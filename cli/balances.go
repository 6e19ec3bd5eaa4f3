package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/render"
	"github.com/jfvdberg/taxfolio/telemetry"
)

type BalancesCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var cmdTimer telemetry.Timer

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		cmdTimer = collector.Start(fmt.Sprintf("balances %s", filepath.Base(cmd.File.Filename)))

		defer func() {
			cmdTimer.End()
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	sheet, buildErr := cmd.buildSheet(ctx, runCtx)
	if sheet == nil {
		return buildErr
	}

	if err := render.Balances(ctx.Stdout, sheet); err != nil {
		return err
	}

	return buildErr
}

// buildSheet loads the journal and folds it into a sheet. Build errors are
// rendered to stderr; the partial sheet comes back alongside a CommandError
// so the report still prints. A nil sheet means decoding failed outright.
func (cmd *BalancesCmd) buildSheet(ctx *kong.Context, runCtx context.Context) (*balance.Sheet, error) {
	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return nil, fmt.Errorf("failed to read file for error context: %w", err)
	}
	renderer := NewErrorRenderer(sourceContent)

	txs, err := cmd.File.LoadJournal(runCtx)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "decode error")
		return nil, NewCommandError(1)
	}

	sheet, err := balance.FromTransactions(runCtx, txs)
	if err != nil {
		var buildErrors *balance.BuildErrors
		if !stdErrors.As(err, &buildErrors) {
			return nil, err
		}

		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(buildErrors.Errors))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(buildErrors.Errors)))

		return sheet, NewCommandError(1)
	}

	return sheet, nil
}
