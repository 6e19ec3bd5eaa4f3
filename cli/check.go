package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/telemetry"
)

type CheckCmd struct {
	File  FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Watch bool        `help:"Re-run the check whenever the journal file changes." short:"w"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	if cmd.Watch {
		if cmd.File.IsStdin() {
			return fmt.Errorf("cannot watch stdin; pass a journal file")
		}

		run := func() { _ = cmd.check(ctx, globals) }
		run()

		if isTerminal() {
			printInfof(ctx.Stdout, "Watching %s (press Ctrl-C to stop)", pathStyle.Render(cmd.File.GetAbsoluteFilename()))
		}
		return watchFile(cmd.File.GetAbsoluteFilename(), run)
	}

	return cmd.check(ctx, globals)
}

func (cmd *CheckCmd) check(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))

		defer reportTelemetry()
	}

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

		reportTelemetry()
		return NewCommandError(1)
	}

	if _, err := balance.FromTransactions(runCtx, txs); err != nil {
		var buildErrors *balance.BuildErrors
		if stdErrors.As(err, &buildErrors) {
			_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(buildErrors.Errors))

			_, _ = fmt.Fprintln(ctx.Stderr)
			printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(buildErrors.Errors)))

			reportTelemetry()
			return NewCommandError(1)
		}
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d transactions)", len(txs)))

	return nil
}
