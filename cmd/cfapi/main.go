package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewCmdRoot().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
