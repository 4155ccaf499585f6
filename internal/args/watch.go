package args

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/markis/gh-coach/internal/coach"
	"github.com/markis/gh-coach/internal/image"
	"github.com/markis/gh-coach/internal/watch"
)

func newWatchCommand(app *App) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Solve every screenshot saved into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			handler := func(ctx context.Context, img image.Image) error {
				return app.solve(ctx, coach.Input{Prompt: prompt, Images: []image.Image{img}})
			}
			w := watch.New(cmdArgs[0], handler, &app.guard, watch.WithLogger(app.Logger))
			err := w.Run(cmd.Context())
			if n := w.Skipped(); n > 0 {
				app.Logger.Info("screenshots skipped while busy", "count", n)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Extra instructions sent with every screenshot")
	return cmd
}
