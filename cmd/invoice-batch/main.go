package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// a signal stops the batch before the next document; the workbook is still saved
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
