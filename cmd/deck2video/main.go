package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/deck2video/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", pipeline.UserMessage(err))
		fmt.Fprintf(os.Stderr, "Details: %v\n", err)
		stop()
		os.Exit(1)
	}
}
