package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
	"github.com/Maikai1er/la-baza-bot/internal/telegram"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd telegram.Update)
}

// App is the webhook HTTP server: Telegram POSTs updates here.
type App struct {
	log    *slog.Logger
	server *http.Server
}

func New(log *slog.Logger, addr, secret string, handler UpdateHandler) *App {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/webhook", func(w http.ResponseWriter, req *http.Request) {
		if secret != "" && req.Header.Get(secretTokenHeader) != secret {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		var upd telegram.Update
		if err := json.NewDecoder(req.Body).Decode(&upd); err != nil {
			log.Warn("malformed webhook payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		handler.HandleUpdate(req.Context(), upd)

		// Always acknowledge handled updates, otherwise Telegram redelivers
		// them and a failing command would repeat forever.
		w.WriteHeader(http.StatusOK)
	})

	return &App{
		log:    log,
		server: &http.Server{Addr: addr, Handler: r},
	}
}

func (a *App) MustRun() {
	err := a.Run()
	if errors.Is(err, http.ErrServerClosed) {
		a.log.Info("webhook server closed")
	} else if err != nil {
		a.log.Error("failed to start webhook server", sl.Err(err))
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "webapp.Run"
	log := a.log.With(slog.String("op", op), slog.String("addr", a.server.Addr))

	log.Info("webhook server is running")

	if err := a.server.ListenAndServe(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "webapp.Stop"

	a.log.With(slog.String("op", op)).Info("stopping webhook server")

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
