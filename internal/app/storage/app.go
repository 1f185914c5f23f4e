package storageapp

import (
	"context"
	"log/slog"

	"github.com/Maikai1er/la-baza-bot/internal/domain/models"
	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
	"github.com/Maikai1er/la-baza-bot/internal/storage/postgres"
	"github.com/Maikai1er/la-baza-bot/internal/storage/sqlite"
)

// Storage is the full persistence surface the ledger needs, plus shutdown.
type Storage interface {
	SaveUser(ctx context.Context, telegramID int64, nickname string) (models.User, error)
	User(ctx context.Context, telegramID int64) (models.User, error)
	SaveRegistration(ctx context.Context, nickname, comment string) (models.Registration, error)
	DeleteRegistration(ctx context.Context, nickname string) error
	Registrations(ctx context.Context) ([]models.Registration, error)
	ClearRegistrations(ctx context.Context) error
	Close() error
}

type App struct {
	Storage Storage
	log     *slog.Logger
}

// MustCreateApp opens the backing store: Postgres when a DSN is configured,
// the local sqlite file otherwise. Table creation is idempotent either way.
func MustCreateApp(log *slog.Logger, storagePath, postgresDSN string) *App {
	var (
		store Storage
		err   error
	)

	if postgresDSN != "" {
		store, err = postgres.New(context.Background(), postgresDSN)
	} else {
		store, err = sqlite.New(storagePath)
	}
	if err != nil {
		panic(err)
	}

	return &App{Storage: store, log: log}
}

func (a *App) Stop() {
	const op = "storageapp.Stop"
	log := a.log.With(slog.String("op", op))

	log.Info("stopping storage app")

	if err := a.Storage.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}
}
