// Package ledger implements the registration ledger for game nights: a
// persisted list of players signed up for the currently announced event,
// with a capacity cutoff that closes registration automatically.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Maikai1er/la-baza-bot/internal/domain/models"
	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
	"github.com/Maikai1er/la-baza-bot/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrRegistrationClosed   = errors.New("registration closed")
	ErrNotRegistered        = errors.New("user not registered")
	ErrNoActiveRegistration = errors.New("no active registration")
)

const (
	DefaultCapacity = 12
	DefaultTime     = "18:00"
	DefaultLocation = "https://maps.app.goo.gl/LLHVqSW4Do9ALm5R8?g_st=atm"
)

type UserStorage interface {
	SaveUser(ctx context.Context, telegramID int64, nickname string) (models.User, error)
	User(ctx context.Context, telegramID int64) (models.User, error)
}

type RegistrationStorage interface {
	SaveRegistration(ctx context.Context, nickname, comment string) (models.Registration, error)
	DeleteRegistration(ctx context.Context, nickname string) error
	Registrations(ctx context.Context) ([]models.Registration, error)
	ClearRegistrations(ctx context.Context) error
}

type DateResolver interface {
	Resolve(input string, now time.Time) (string, error)
}

// RenderedList is the current sign-up list in display order, together with
// the event snapshot taken after any capacity-triggered close.
type RenderedList struct {
	Lines []string
	Event models.Event
}

// Ledger serializes every read-modify-write against the store and the event
// state under one mutex, so concurrent commands cannot interleave a lookup
// with a write or race an /open against a capacity close.
type Ledger struct {
	log         *slog.Logger
	users       UserStorage
	regs        RegistrationStorage
	resolver    DateResolver
	capacity    int
	storageErrs prometheus.Counter

	mu    sync.Mutex
	event models.Event
}

// New builds a Ledger. storageErrs may be nil when metrics are not wired,
// e.g. in tests.
func New(
	log *slog.Logger,
	users UserStorage,
	regs RegistrationStorage,
	resolver DateResolver,
	capacity int,
	storageErrs prometheus.Counter,
) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Ledger{
		log:         log,
		users:       users,
		regs:        regs,
		resolver:    resolver,
		capacity:    capacity,
		storageErrs: storageErrs,
		event: models.Event{
			Time:     DefaultTime,
			Location: DefaultLocation,
		},
	}
}

// RegisterUser upserts the caller's nickname. The nickname is capitalized so
// the rendered list stays uniform regardless of how people type their names.
func (l *Ledger) RegisterUser(ctx context.Context, telegramID int64, nickname string) (models.User, error) {
	const op = "ledger.RegisterUser"
	log := l.log.With(slog.String("op", op), slog.Int64("telegram_id", telegramID))

	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.users.SaveUser(ctx, telegramID, capitalize(nickname))
	if err != nil {
		l.storageError(log, "failed to save user", err)
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("nickname", user.Nickname))

	return user, nil
}

// Join signs the caller up for the announced event. A repeat join replaces
// the comment but keeps the original list position.
func (l *Ledger) Join(ctx context.Context, telegramID int64, comment string) (RenderedList, error) {
	const op = "ledger.Join"
	log := l.log.With(slog.String("op", op), slog.Int64("telegram_id", telegramID))

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.event.Open {
		return RenderedList{}, fmt.Errorf("%s: %w", op, ErrRegistrationClosed)
	}

	user, err := l.users.User(ctx, telegramID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return RenderedList{}, fmt.Errorf("%s: %w", op, ErrNotRegistered)
		}

		l.storageError(log, "failed to get user", err)
		return RenderedList{}, fmt.Errorf("%s: %w", op, err)
	}

	if comment == "" {
		comment = l.event.Time
	}

	if _, err := l.regs.SaveRegistration(ctx, user.Nickname, comment); err != nil {
		l.storageError(log, "failed to save registration", err)
		return RenderedList{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user joined", slog.String("nickname", user.Nickname))

	return l.renderLocked(ctx)
}

// Invite signs up an arbitrary nickname with no user record behind it, so
// members can bring a friend who never talked to the bot.
func (l *Ledger) Invite(ctx context.Context, nickname, comment string) (RenderedList, error) {
	const op = "ledger.Invite"
	log := l.log.With(slog.String("op", op))

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.event.Open {
		return RenderedList{}, fmt.Errorf("%s: %w", op, ErrRegistrationClosed)
	}

	nickname = capitalize(nickname)
	if comment == "" {
		comment = l.event.Time
	}

	if _, err := l.regs.SaveRegistration(ctx, nickname, comment); err != nil {
		l.storageError(log, "failed to save registration", err)
		return RenderedList{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("guest invited", slog.String("nickname", nickname))

	return l.renderLocked(ctx)
}

// CancelByTelegramID removes the caller's own registration. Cancellation is
// allowed even after registration closed.
func (l *Ledger) CancelByTelegramID(ctx context.Context, telegramID int64) (RenderedList, error) {
	const op = "ledger.CancelByTelegramID"
	log := l.log.With(slog.String("op", op), slog.Int64("telegram_id", telegramID))

	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.users.User(ctx, telegramID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return RenderedList{}, fmt.Errorf("%s: %w", op, ErrNotRegistered)
		}

		l.storageError(log, "failed to get user", err)
		return RenderedList{}, fmt.Errorf("%s: %w", op, err)
	}

	return l.cancelLocked(ctx, log, user.Nickname)
}

// CancelByNickname removes a registration by its list nickname directly.
func (l *Ledger) CancelByNickname(ctx context.Context, nickname string) (RenderedList, error) {
	const op = "ledger.CancelByNickname"
	log := l.log.With(slog.String("op", op))

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.cancelLocked(ctx, log, capitalize(nickname))
}

func (l *Ledger) cancelLocked(ctx context.Context, log *slog.Logger, nickname string) (RenderedList, error) {
	const op = "ledger.cancel"

	if err := l.regs.DeleteRegistration(ctx, nickname); err != nil {
		if errors.Is(err, storage.ErrRegistrationNotFound) {
			return RenderedList{}, fmt.Errorf("%s: %w", op, ErrNoActiveRegistration)
		}

		l.storageError(log, "failed to delete registration", err)
		return RenderedList{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("registration cancelled", slog.String("nickname", nickname))

	return l.renderLocked(ctx)
}

// Clear wipes the sign-up list. Users stay registered. Organizer-only; the
// caller enforces that.
func (l *Ledger) Clear(ctx context.Context) error {
	const op = "ledger.Clear"
	log := l.log.With(slog.String("op", op))

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.regs.ClearRegistrations(ctx); err != nil {
		l.storageError(log, "failed to clear registrations", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("registrations cleared")

	return nil
}

// Render returns the current list without modifying it, except for the
// capacity side effect: reaching capacity closes registration.
func (l *Ledger) Render(ctx context.Context) (RenderedList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.renderLocked(ctx)
}

func (l *Ledger) renderLocked(ctx context.Context) (RenderedList, error) {
	const op = "ledger.render"

	regs, err := l.regs.Registrations(ctx)
	if err != nil {
		l.storageError(l.log.With(slog.String("op", op)), "failed to list registrations", err)
		return RenderedList{}, fmt.Errorf("%s: %w", op, err)
	}

	lines := make([]string, 0, len(regs))
	for i, reg := range regs {
		line := fmt.Sprintf("%d. %s", i+1, reg.Nickname)
		// A comment equal to the announced time carries no information.
		if reg.Comment != l.event.Time {
			line += " " + reg.Comment
		}
		lines = append(lines, line)
	}

	if len(regs) >= l.capacity && l.event.Open {
		l.event.Open = false
		l.log.Info("capacity reached, registration closed", slog.Int("count", len(regs)))
	}

	return RenderedList{Lines: lines, Event: l.event}, nil
}

func (l *Ledger) storageError(log *slog.Logger, msg string, err error) {
	log.Error(msg, sl.Err(err))
	if l.storageErrs != nil {
		l.storageErrs.Inc()
	}
}

// capitalize upper-cases the first rune, like the original nickname
// normalization on /register.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
