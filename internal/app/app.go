package app

import (
	"context"
	"log/slog"
	"time"

	metricsapp "github.com/Maikai1er/la-baza-bot/internal/app/metrics"
	storageapp "github.com/Maikai1er/la-baza-bot/internal/app/storage"
	webapp "github.com/Maikai1er/la-baza-bot/internal/app/web"
	"github.com/Maikai1er/la-baza-bot/internal/bot"
	"github.com/Maikai1er/la-baza-bot/internal/config"
	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
	"github.com/Maikai1er/la-baza-bot/internal/services/datefmt"
	"github.com/Maikai1er/la-baza-bot/internal/services/ledger"
	"github.com/Maikai1er/la-baza-bot/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	log     *slog.Logger
	web     *webapp.App
	metrics *metricsapp.App
	storage *storageapp.App
}

func New(log *slog.Logger, cfg *config.Config) *App {
	metrics := metricsapp.New(log, cfg.MetricsPort)
	storage := storageapp.MustCreateApp(log, cfg.StoragePath, cfg.PostgresDSN)

	ledgerSvc := ledger.New(
		log,
		storage.Storage,
		storage.Storage,
		datefmt.Resolver{},
		cfg.EventCapacity,
		metrics.StorageErrorsCounter,
	)

	tgClient := telegram.New(cfg.Token)
	botRouter := bot.New(log, ledgerSvc, tgClient, tgClient, metrics.CommandsCounter)
	web := webapp.New(log, cfg.ListenAddr, cfg.WebhookSecret, botRouter)

	return &App{log: log, web: web, metrics: metrics, storage: storage}
}

func (a *App) MustRun() {
	go a.web.MustRun()
	go a.metrics.MustRun()
}

func (a *App) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.web.Stop(ctx); err != nil {
		a.log.Error("failed to stop webhook server", sl.Err(err))
	}
	if err := a.metrics.Stop(ctx); err != nil {
		a.log.Error("failed to stop metrics server", sl.Err(err))
	}

	a.storage.Stop()

	return nil
}
