package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Maikai1er/la-baza-bot/internal/app"
	"github.com/Maikai1er/la-baza-bot/internal/config"
	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

func main() {
	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)
	logger.Info("starting bot", slog.String("env", cfg.Env))

	application := app.New(logger, cfg)
	application.MustRun()

	// graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stopChan
	logger.Info("stopping bot", slog.String("signal", sign.String()))
	if err := application.Stop(); err != nil {
		logger.Error("failed to stop bot", sl.Err(err))
		return
	}
	logger.Info("bot stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envLocal:
		fallthrough
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
