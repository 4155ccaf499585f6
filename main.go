package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/markis/gh-coach/internal/args"
	"github.com/markis/gh-coach/internal/config"
)

// main loads the configuration and runs the requested command.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := args.Execute(ctx, cfg); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
