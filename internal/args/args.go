package args

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markis/gh-coach/internal/client"
	"github.com/markis/gh-coach/internal/clipboard"
	"github.com/markis/gh-coach/internal/coach"
	"github.com/markis/gh-coach/internal/config"
	"github.com/markis/gh-coach/internal/render"
	"github.com/markis/gh-coach/internal/store"
	"github.com/markis/gh-coach/internal/stream"
)

// ErrNoResponse means there is no previous reply to work with.
var ErrNoResponse = errors.New("no previous response, ask something first")

// Client is the completion service the commands talk to.
type Client interface {
	coach.Completer
	Stream(ctx context.Context, req client.Request) (<-chan stream.Chunk, error)
}

// App holds what the commands share. Nil fields are filled in with the real
// implementations before a command runs.
type App struct {
	Config    *config.Config
	Store     *store.Store
	Client    Client
	Clipboard clipboard.Sink
	Logger    *slog.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	model   string
	plain   bool
	verbose bool
	guard   coach.Guard
}

// Execute runs the command line against the real terminal.
func Execute(ctx context.Context, cfg *config.Config) error {
	app := &App{
		Config: cfg,
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
	return NewRootCommand(app).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand(app *App) *cobra.Command {
	if app.Config == nil {
		app.Config = config.Default()
	}
	cfg := app.Config

	rootCmd := &cobra.Command{
		Use:   "gh-coach [command] [flags] [prompt]",
		Short: "A GitHub Copilot coach for technical interviews",
		Args:  cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup()
		},
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return app.ask(cmd.Context(), app.model, promptArgs(cmdArgs))
		},
		SilenceErrors: true, // We'll handle error reporting
		SilenceUsage:  true, // We'll handle usage display
	}
	rootCmd.SetIn(app.In)
	rootCmd.SetOut(app.Out)
	rootCmd.SetErr(app.Err)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&app.model, "model", cfg.Model, "The AI model to use")
	rootCmd.PersistentFlags().BoolVar(&app.plain, "plain", shouldUsePlainText(cfg), "Disable markdown rendering")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log requests and other details to stderr")

	rootCmd.AddCommand(
		newSolveCommand(app),
		newCodeCommand(app),
		newExplainCommand(app),
		newObjectionCommand(app),
		newListenCommand(app),
		newWatchCommand(app),
		newTypeCommand(app),
		newCopyCommand(app),
		newContextCommand(app),
	)
	addPromptCommands(app, rootCmd)

	return rootCmd
}

func (a *App) setup() error {
	if a.Logger == nil {
		a.Logger = newLogger(a.Err, a.verbose)
	}
	if a.Store == nil {
		path, err := store.DefaultPath()
		if err != nil {
			return err
		}
		st, err := store.Open(path)
		if err != nil {
			return err
		}
		a.Store = st
	}
	if a.Client == nil {
		a.Client = client.New(client.WithLogger(a.Logger))
	}
	if a.Clipboard == nil {
		a.Clipboard = newClipboard()
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newClipboard writes OSC 52 to the terminal on stderr so piped stdout stays clean.
func newClipboard() clipboard.Sink {
	if !isTerminal(os.Stderr) {
		return clipboard.Discard{}
	}
	return clipboard.NewOSC52(os.Stderr)
}

func (a *App) coach(model string) *coach.Coach {
	return coach.New(a.Client, model, a.Logger)
}

func (a *App) terminal() *render.TerminalRenderer {
	return render.NewTerminalRenderer(a.Out, a.plain, a.Config.Render.Wrap)
}

func (a *App) cards() *render.CardRenderer {
	return render.NewCardRenderer(a.Out, a.plain, a.Config.Render.Wrap)
}

// remember stores reply as the last response. Failing to persist it does not
// fail the command that produced it.
func (a *App) remember(reply string) {
	a.Store.Set(store.KeyLastResponse, reply)
	if err := a.Store.Save(); err != nil {
		a.Logger.Warn("failed to save last response", "error", err)
	}
}

func (a *App) lastResponse() (string, error) {
	reply := a.Store.Value(store.KeyLastResponse)
	if strings.TrimSpace(reply) == "" {
		return "", ErrNoResponse
	}
	return reply, nil
}

func (a *App) interview() coach.Interview {
	return coach.Interview{
		Role:           a.Store.Value(store.KeyRole),
		JobDescription: a.Store.Value(store.KeyJobDescription),
		Resume:         a.Store.Value(store.KeyResume),
		ResumeURL:      a.Store.Value(store.KeyResumeURL),
	}
}

// readStdin returns everything piped into in, or "" when in is a terminal.
func readStdin(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return "", nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max buffer
	var buf strings.Builder
	for scanner.Scan() {
		buf.WriteString(scanner.Text())
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// readSource reads a file argument, "-" for stdin, or stdin when no argument
// is given and something is piped in.
func readSource(in io.Reader, cmdArgs []string) (string, error) {
	if len(cmdArgs) == 0 || cmdArgs[0] == "-" {
		return readStdin(in)
	}
	data, err := os.ReadFile(cmdArgs[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", cmdArgs[0], err)
	}
	return string(data), nil
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}

// shouldUsePlainText determines if plain text output should be used based on environment and terminal settings.
func shouldUsePlainText(cfg *config.Config) bool {
	// Check if the rendering format is set to plain
	if cfg.PlainText() {
		return true
	}

	// Check if output is being redirected
	if !isTerminal(os.Stdout) {
		return true
	}

	// Check for NO_COLOR environment variable
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}

	// Check for TERM=dumb
	if term := os.Getenv("TERM"); term == "dumb" {
		return true
	}

	return false
}

func promptArgs(cmdArgs []string) string {
	return strings.TrimSpace(strings.Join(cmdArgs, " "))
}
