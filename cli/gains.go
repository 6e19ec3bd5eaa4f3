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

type GainsCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *GainsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var cmdTimer telemetry.Timer

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		cmdTimer = collector.Start(fmt.Sprintf("gains %s", filepath.Base(cmd.File.Filename)))

		defer func() {
			cmdTimer.End()
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
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
		return NewCommandError(1)
	}

	sheet, buildErr := balance.FromTransactions(runCtx, txs)
	if buildErr != nil {
		var buildErrors *balance.BuildErrors
		if !stdErrors.As(buildErr, &buildErrors) {
			return buildErr
		}

		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(buildErrors.Errors))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(buildErrors.Errors)))
	}

	if err := render.Gains(ctx.Stdout, sheet.CapitalGains()); err != nil {
		return err
	}

	if buildErr != nil {
		return NewCommandError(1)
	}
	return nil
}
