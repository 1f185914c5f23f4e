// Package datefmt resolves short "day.month" inputs into the long Russian
// date label used in announcements, e.g. "24.12" -> "24 декабря 2026 (среда)".
package datefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// Resolver adapts the package function to the ledger's DateResolver.
type Resolver struct{}

func (Resolver) Resolve(input string, now time.Time) (string, error) {
	return Resolve(input, now)
}

// Month names in genitive case, as they read after a day number.
var months = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

var weekdays = [...]string{
	"воскресенье", "понедельник", "вторник", "среда", "четверг", "пятница", "суббота",
}

// Resolve parses a "d.m" string and renders it as a long-form date in the
// year of now. Malformed input or an impossible calendar date is reported
// as ErrInvalidDate.
func Resolve(input string, now time.Time) (string, error) {
	const op = "datefmt.Resolve"

	parts := strings.Split(strings.TrimSpace(input), ".")
	if len(parts) != 2 {
		return "", fmt.Errorf("%s: %q: %w", op, input, ErrInvalidDate)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("%s: %q: %w", op, input, ErrInvalidDate)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%s: %q: %w", op, input, ErrInvalidDate)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", fmt.Errorf("%s: %q: %w", op, input, ErrInvalidDate)
	}

	date := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31.02 becomes March), which means
	// the input named a day that does not exist in that month.
	if date.Day() != day || date.Month() != time.Month(month) {
		return "", fmt.Errorf("%s: %q: %w", op, input, ErrInvalidDate)
	}

	return fmt.Sprintf("%d %s %d (%s)", day, months[month-1], date.Year(), weekdays[date.Weekday()]), nil
}
