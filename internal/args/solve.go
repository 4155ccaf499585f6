package args

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markis/gh-coach/internal/coach"
	"github.com/markis/gh-coach/internal/image"
	"github.com/markis/gh-coach/internal/response"
)

func newSolveCommand(app *App) *cobra.Command {
	var images []string

	cmd := &cobra.Command{
		Use:   "solve [--image file]... [prompt]",
		Short: "Solve a coding problem and explain the solution",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			in, err := input(promptArgs(cmdArgs), images)
			if err != nil {
				return err
			}
			return app.solve(cmd.Context(), in)
		},
	}
	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Screenshot of the problem (file or data URI), repeatable")
	return cmd
}

func (a *App) solve(ctx context.Context, in coach.Input) error {
	sol, err := a.coach(a.model).CodeAndExplanation(ctx, in)
	if err != nil {
		return err
	}
	a.remember(sol.Markdown())
	return a.cards().Render(sol.Cards())
}

func newCodeCommand(app *App) *cobra.Command {
	var (
		images   []string
		codeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "code [--image file]... [prompt]",
		Short: "Generate code from instructions and screenshots",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			in, err := input(promptArgs(cmdArgs), images)
			if err != nil {
				return err
			}
			co := app.coach(app.model)

			if codeOnly {
				code, err := co.CodeFromScreenshot(cmd.Context(), in)
				if err != nil {
					return err
				}
				sol := coach.Solution{Code: code.Code}
				app.remember(sol.Markdown())
				return app.cards().Render(sol.Cards())
			}

			reply, err := co.CustomCode(cmd.Context(), in)
			if err != nil {
				return err
			}
			app.remember(reply.GeneratedCode)
			return app.cards().Render(reply.Solution().Cards())
		},
	}
	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Screenshot to include (file or data URI), repeatable")
	cmd.Flags().BoolVar(&codeOnly, "code-only", false, "Return only the code for the problem in the screenshots")
	return cmd
}

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [file|-]",
		Short: "Explain a piece of code (defaults to the code of the last response)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			code, err := readSource(app.In, cmdArgs)
			if err != nil {
				return err
			}
			if strings.TrimSpace(code) == "" {
				last, err := app.lastResponse()
				if err != nil {
					return err
				}
				code = codeOf(last)
			}

			exp, err := app.coach(app.model).ExplainCode(cmd.Context(), code)
			if err != nil {
				return err
			}
			return app.terminal().Markdown(exp.Explanation)
		},
	}
}

// input loads the screenshots and pairs them with the prompt.
func input(prompt string, sources []string) (coach.Input, error) {
	images, err := image.LoadAll(sources)
	if err != nil {
		return coach.Input{}, err
	}
	return coach.Input{Prompt: prompt, Images: images}, nil
}

// codeOf returns the fenced code of a reply, or the whole reply when it has none.
func codeOf(reply string) string {
	if response.HasCode(reply) {
		return response.ExtractCode(reply)
	}
	return strings.TrimSpace(reply)
}
