package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samzong/gpush/cmd"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.SetContext(ctx)

	code := handleError(ctx, os.Stderr, cmd.Execute())
	cancel()
	os.Exit(code)
}

// handleError reports err on w and returns the process exit code.
// Errors after an interrupt map to 130 like a shell's SIGINT exit.
func handleError(ctx context.Context, w io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "\nOperation cancelled")
		return exitInterrupted
	default:
		fmt.Fprintln(w, "Error:", err)
		return exitError
	}
}
