package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"geotag/internal/services"
)

// Missing or malformed configuration and an unreadable photo root both exit
// with exitFailure.
const (
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, services.ErrConfiguration):
		fmt.Fprintf(os.Stderr, "%v\nRun 'geotag config init' to create a configuration file.\n", err)
		return exitFailure
	default:
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
}
