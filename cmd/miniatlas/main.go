// miniatlas is an interactive country atlas: search-as-you-type over a
// bundled country dataset, a terminal world map and a read-only JSON API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"miniatlas/cmd/miniatlas/cmd"
)

func main() {
	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
