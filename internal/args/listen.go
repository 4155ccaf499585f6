package args

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/markis/gh-coach/internal/client"
	"github.com/markis/gh-coach/internal/coach"
)

func newObjectionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "objection <text>",
		Short: "Suggest how to answer something the interviewer said",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			iv := app.interview()
			if err := iv.Validate(); err != nil {
				return contextHint(err)
			}
			return app.objection(cmd.Context(), iv, promptArgs(cmdArgs))
		},
	}
}

func (a *App) objection(ctx context.Context, iv coach.Interview, text string) error {
	suggestions, err := a.coach(a.model).HandleObjection(ctx, iv, text)
	if err != nil {
		return err
	}
	return a.cards().Render(suggestions.Cards())
}

func newListenCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Read transcript lines from stdin and suggest answers to each",
		Long: `Read final transcript lines from stdin, one per line, and suggest answers
to each. Lines that arrive while a suggestion is still being generated are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			iv := app.interview()
			if err := iv.Validate(); err != nil {
				return contextHint(err)
			}
			return app.listen(cmd.Context(), iv)
		},
	}
}

// listen sends every transcript line to the objection flow, one at a time.
func (a *App) listen(ctx context.Context, iv coach.Interview) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	a.Logger.Info("listening for transcripts")
	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("failed to read transcript: %w", err)
					}
				default:
				}
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			release, ok := a.guard.TryAcquire()
			if !ok {
				a.Logger.Info("request in flight, skipping transcript", "transcript", line)
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer release()
				if err := a.objection(ctx, iv, line); err != nil {
					a.Logger.Error("failed to handle transcript", "error", err, "retryable", client.IsRetryable(err))
				}
			}()
		}
	}
}

func contextHint(err error) error {
	return fmt.Errorf("%w (set it with `gh-coach context set`)", err)
}
