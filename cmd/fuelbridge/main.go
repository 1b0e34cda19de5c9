// Package main is the fuelbridge command line entry point.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// No state is persisted outside LubeLogger's own per-record creates,
	// so cancelling between vehicles leaves nothing to clean up.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
