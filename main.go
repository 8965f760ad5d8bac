package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pitlane/cli"
	"pitlane/config"
	"pitlane/database"
	"pitlane/ext"
	"pitlane/logger"

	"go.uber.org/zap"
)

func main() {
	logger.Init(config.Env.LogLevel)
	defer logger.Sync()

	// load environment variables and configurations
	if err := config.Load(); err != nil {
		zap.S().Fatalf("failed to load config: %v", err)
	}
	logger.SetLevel(config.Env.LogLevel)

	zap.S().Debugf("loaded %d extractors", len(ext.List))

	// the cache is optional, resolving works without it
	if config.Env.Caching {
		if err := database.Start(config.Env); err != nil {
			zap.S().Warnf("metadata cache disabled: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(&cli.Args{})
	if err := cmd.ExecuteContext(ctx); err != nil {
		zap.S().Error(err)
		logger.Sync()
		os.Exit(1)
	}
}
