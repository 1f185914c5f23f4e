package ledger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Maikai1er/la-baza-bot/internal/domain/models"
	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
)

// Open announces a new game night and opens registration. Location and time
// override the previous values only when provided, matching how organizers
// reuse the usual spot and hour.
func (l *Ledger) Open(dateInput, location, timeLabel string, now time.Time) (models.Event, error) {
	const op = "ledger.Open"
	log := l.log.With(slog.String("op", op))

	l.mu.Lock()
	defer l.mu.Unlock()

	date, err := l.resolver.Resolve(dateInput, now)
	if err != nil {
		log.Warn("failed to resolve date", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	l.event.Date = date
	if location != "" {
		l.event.Location = location
	}
	if timeLabel != "" {
		l.event.Time = timeLabel
	}
	l.event.Open = true

	log.Info("registration opened", slog.String("date", date))

	return l.event, nil
}

// Close shuts registration. Idempotent.
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.event.Open = false
}

// Event returns the current event snapshot.
func (l *Ledger) Event() models.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.event
}
