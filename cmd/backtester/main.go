package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/candlelab/backtester/cmd/backtester/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
