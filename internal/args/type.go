package args

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markis/gh-coach/internal/render"
	"github.com/markis/gh-coach/internal/typer"
)

func newTypeCommand(app *App) *cobra.Command {
	var (
		typing   = app.Config.Typing
		copyCode bool
	)

	cmd := &cobra.Command{
		Use:   "type [file|-]",
		Short: "Type out the code of a response one character at a time",
		Long: `Type out the code of a response one character at a time, at a human pace.
Reads a file, or stdin with "-", and defaults to the last response.
Press Ctrl-C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			cfg := *app.Config
			cfg.Typing = typing
			profile, err := cfg.TypingProfile()
			if err != nil {
				return err
			}

			var reply string
			if len(cmdArgs) > 0 {
				if reply, err = readSource(app.In, cmdArgs); err != nil {
					return err
				}
			} else if reply, err = app.lastResponse(); err != nil {
				return err
			}

			code := codeOf(reply)
			if code == "" {
				return ErrNoResponse
			}
			if copyCode {
				if err := app.Clipboard.Copy(code); err != nil {
					return err
				}
			}

			app.Logger.Debug("typing", "profile", profile, "characters", len([]rune(code)), "estimate", profile.Duration(len([]rune(code))))

			w := render.NewTypingWriter(app.Out)
			state := typer.Reveal(cmd.Context(), profile, code, w.Step)
			if err := w.Err(); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if !strings.HasSuffix(state.Text, "\n") {
				fmt.Fprintln(app.Out)
			}
			if !state.Done() {
				app.Logger.Info("typing cancelled", "revealed", state.Revealed, "total", state.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typing.Profile, "profile", typing.Profile, "Typing speed profile: human or fast")
	cmd.Flags().DurationVar(&typing.MinDelay, "min-delay", typing.MinDelay, "Shortest pause between characters")
	cmd.Flags().DurationVar(&typing.MaxDelay, "max-delay", typing.MaxDelay, "Longest pause between characters")
	cmd.Flags().BoolVar(&copyCode, "copy", false, "Also copy the code to the clipboard")
	return cmd
}
