// Package main provides the linkmend CLI entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errLinksChanged) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
