package app

import (
	"context"
	"fmt"

	"github.com/vk/nsreg/internal/ctxlog"
	"github.com/vk/nsreg/internal/output"
)

// Run evaluates every configured expression in order and writes each result
// to the app's output. It stops at the first failing expression.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "expressions", len(a.config.Expressions))

	w := output.NewWriter(output.Format(a.config.OutputFormat), a.outW)
	for _, expr := range a.config.Expressions {
		if err := ctx.Err(); err != nil {
			return err
		}
		val, err := a.host.Eval(ctx, expr)
		if err != nil {
			return fmt.Errorf("failed to evaluate %q: %w", expr, err)
		}
		if err := w.Write(val); err != nil {
			return fmt.Errorf("failed to write result of %q: %w", expr, err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
