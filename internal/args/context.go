package args

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markis/gh-coach/internal/store"
)

// contextFields maps the names accepted on the command line to store keys.
var contextFields = map[string]string{
	"role":            store.KeyRole,
	"job-description": store.KeyJobDescription,
	"resume":          store.KeyResume,
	"resume-url":      store.KeyResumeURL,
}

func fieldNames() []string {
	names := make([]string, 0, len(contextFields))
	for name := range contextFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupField(name string) (string, error) {
	key, ok := contextFields[name]
	if !ok {
		return "", fmt.Errorf("unknown field %q, expected one of: %s", name, strings.Join(fieldNames(), ", "))
	}
	return key, nil
}

func newContextCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage the interview context: role, job description and resume",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "set <field> [value]",
			Short:     "Set a field, reading the value from stdin when omitted",
			Args:      cobra.MinimumNArgs(1),
			ValidArgs: fieldNames(),
			RunE: func(cmd *cobra.Command, cmdArgs []string) error {
				key, err := lookupField(cmdArgs[0])
				if err != nil {
					return err
				}
				value := promptArgs(cmdArgs[1:])
				if value == "" {
					if value, err = readStdin(app.In); err != nil {
						return err
					}
				}
				if value == "" {
					return fmt.Errorf("no value given for %s", cmdArgs[0])
				}
				app.Store.Set(key, value)
				return app.Store.Save()
			},
		},
		&cobra.Command{
			Use:   "get <field>",
			Short: "Print a field",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, cmdArgs []string) error {
				key, err := lookupField(cmdArgs[0])
				if err != nil {
					return err
				}
				value, ok := app.Store.Get(key)
				if !ok {
					return fmt.Errorf("%s is not set", cmdArgs[0])
				}
				fmt.Fprintln(app.Out, value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print every field and whether the context is complete",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, name := range fieldNames() {
					value := app.Store.Value(contextFields[name])
					if value == "" {
						value = "(not set)"
					}
					fmt.Fprintf(app.Out, "%s: %s\n", name, summarizePrompt(strings.ReplaceAll(value, "\n", " ")))
				}
				if err := app.interview().Validate(); err != nil {
					fmt.Fprintln(app.Out, "\n"+err.Error())
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear [field]...",
			Short: "Clear the given fields, or all of them",
			RunE: func(cmd *cobra.Command, cmdArgs []string) error {
				names := cmdArgs
				if len(names) == 0 {
					names = fieldNames()
				}
				for _, name := range names {
					key, err := lookupField(name)
					if err != nil {
						return err
					}
					app.Store.Delete(key)
				}
				return app.Store.Save()
			},
		},
	)
	return cmd
}

func newCopyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Copy the code of the last response to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reply, err := app.lastResponse()
			if err != nil {
				return err
			}
			code := codeOf(reply)
			if err := app.Clipboard.Copy(code); err != nil {
				return err
			}
			app.Logger.Info("copied to clipboard", "characters", len([]rune(code)))
			return nil
		},
	}
}
