package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"covid-visualizer/cli"
	"covid-visualizer/utils"
)

func main() {
	logger := utils.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand(logger).ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
