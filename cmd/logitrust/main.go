package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/NethermindEth/logitrust/pkg/logitrust"
	"github.com/NethermindEth/logitrust/pkg/logitrust/debug"
	"github.com/NethermindEth/logitrust/pkg/logitrust/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !debug.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	setupResult, err := setup.Setup()
	if err != nil {
		slog.Error("failed to setup", "error", err)
		return
	}

	config, err := logitrust.NewOrchestratorConfigFromSetupResult(setupResult)
	if err != nil {
		slog.Error("failed to create orchestrator config", "error", err)
		return
	}

	orchestrator, err := logitrust.NewOrchestrator(config)
	if err != nil {
		slog.Error("failed to create orchestrator", "error", err)
		return
	}

	if err := orchestrator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("orchestrator stopped", "error", err)
	}
}
