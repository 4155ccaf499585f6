package args

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markis/gh-coach/internal/client"
)

// addPromptCommands exposes every configured prompt as a subcommand. Prompts
// named after a built-in command are skipped.
func addPromptCommands(app *App, rootCmd *cobra.Command) {
	builtin := map[string]bool{"help": true, "completion": true}
	for _, c := range rootCmd.Commands() {
		builtin[c.Name()] = true
	}

	for name, prompt := range app.Config.Prompts {
		if builtin[name] {
			continue
		}
		cmdPrompt := prompt // Create a local copy for the closure
		cmd := &cobra.Command{
			Use:   name + " [input]",
			Short: summarizePrompt(cmdPrompt.Prompt),
			RunE: func(cmd *cobra.Command, cmdArgs []string) error {
				model := app.model
				if cmdPrompt.Model != "" && !cmd.Flags().Changed("model") {
					model = cmdPrompt.Model
				}
				return app.ask(cmd.Context(), model, promptArgs(cmdArgs), cmdPrompt.Prompt)
			},
		}
		rootCmd.AddCommand(cmd)
	}
}

// ask streams a free-form answer to the prompts, plus anything piped in.
func (a *App) ask(ctx context.Context, model string, prompts ...string) error {
	piped, err := readStdin(a.In)
	if err != nil {
		return err
	}

	var messages []client.Message
	for _, p := range append(prompts, piped) {
		if p = strings.TrimSpace(p); p != "" {
			messages = append(messages, client.Message{Role: client.RoleUser, Text: p})
		}
	}
	if len(messages) == 0 {
		return errors.New("no prompt provided")
	}

	chunks, err := a.Client.Stream(ctx, client.Request{Model: model, Messages: messages})
	if err != nil {
		return err
	}

	renderer := a.terminal()
	if err := renderer.Render(chunks); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	a.remember(renderer.Text())
	return nil
}

func summarizePrompt(prompt string) string {
	// Trim and limit the length of the prompt summary
	summary := strings.TrimSpace(prompt)
	if len(summary) > 60 {
		summary = summary[:57] + "..."
	}
	return summary
}
