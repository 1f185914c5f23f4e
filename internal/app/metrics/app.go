package metricsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	log    *slog.Logger
	port   int
	reg    *prometheus.Registry
	server *http.Server

	CommandsCounter      *prometheus.CounterVec
	StorageErrorsCounter prometheus.Counter
}

func New(log *slog.Logger, port int) *App {
	reg := prometheus.NewRegistry()

	commandsTotal := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Total number of chat commands handled, by command.",
	}, []string{"command"})

	storageErrors := promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "bot_storage_errors_total",
		Help: "Total number of failed storage operations.",
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &App{
		log:                  log,
		port:                 port,
		reg:                  reg,
		server:               &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux},
		CommandsCounter:      commandsTotal,
		StorageErrorsCounter: storageErrors,
	}
}

func (a *App) MustRun() {
	err := a.Run()
	if errors.Is(err, http.ErrServerClosed) {
		a.log.Info("metrics server closed")
	} else if err != nil {
		a.log.Error("failed to start metrics server", sl.Err(err))
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "metricsapp.Run"
	log := a.log.With(slog.String("op", op), slog.Int("port", a.port))

	log.Info("exposing Prometheus metrics")

	if err := a.server.ListenAndServe(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "metricsapp.Stop"

	a.log.With(slog.String("op", op), slog.Int("port", a.port)).Info("stopping metrics server")

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
