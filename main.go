package main

import (
	"context"
	"os"

	"voicebot-relay/internal/bootstrap"
	"voicebot-relay/internal/config"
	"voicebot-relay/internal/observability"
	"voicebot-relay/internal/server"
)

func main() {
	ctx := context.Background()
	logger := observability.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(ctx, "failed to load configuration", err)
		os.Exit(1)
	}

	deps, err := bootstrap.Initialize(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to initialize dependencies", err)
		os.Exit(1)
	}

	srv := server.New(cfg, deps, logger)
	srv.Setup()

	if err := srv.Start(ctx); err != nil {
		logger.Error(ctx, "failed to start server", err)
		os.Exit(1)
	}

	if err := srv.WaitForShutdown(ctx); err != nil {
		logger.Error(ctx, "shutdown failed", err)
		os.Exit(1)
	}
}
