package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/listbot"
	"github.com/aretw0/listbot/internal/presentation/tui"
	"github.com/aretw0/listbot/pkg/runner"
)

// ChatOptions configures a console session.
type ChatOptions struct {
	SessionID string
	Plain     bool // no banner and no markdown rendering
	In        io.Reader
	Out       io.Writer
}

// RunChat talks to the router from the console until input ends or ctx is cancelled.
func RunChat(ctx context.Context, app *listbot.App, opts ChatOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	handlerOpts := []runner.TextHandlerOption{}
	if !opts.Plain {
		tui.PrintBanner(opts.Out)
		handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	}
	handler := runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)

	runnerOpts := []runner.Option{
		runner.WithHandler(handler),
		runner.WithLogger(app.Logger()),
	}
	if opts.SessionID != "" {
		runnerOpts = append(runnerOpts, runner.WithSessionID(opts.SessionID))
	}

	err := runner.NewRunner(app.Router(), runnerOpts...).Run(ctx)
	if !opts.Plain {
		printSystemMessage(opts.Out, "Bye!")
	}
	return handleExecutionError(err)
}
