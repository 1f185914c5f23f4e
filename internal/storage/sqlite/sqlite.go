package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Maikai1er/la-baza-bot/internal/domain/models"
	"github.com/Maikai1er/la-baza-bot/internal/storage"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{db: db}
	if err := s.createTables(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	const op = "storage.sqlite.createTables"

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			telegram_id INTEGER UNIQUE,
			nickname TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id TEXT PRIMARY KEY,
			nickname TEXT UNIQUE NOT NULL,
			comment TEXT NOT NULL,
			registered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// SaveUser upserts the user row keyed by telegram id, latest nickname wins.
func (s *Storage) SaveUser(ctx context.Context, telegramID int64, nickname string) (models.User, error) {
	const op = "storage.sqlite.SaveUser"

	stmt, err := s.db.Prepare(`INSERT INTO users(id,telegram_id,nickname) VALUES(?,?,?)
		ON CONFLICT(telegram_id) DO UPDATE SET nickname=excluded.nickname
		RETURNING id,telegram_id,nickname`)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var user models.User
	row := stmt.QueryRowContext(ctx, uuid.New(), telegramID, nickname)
	if err := row.Scan(&user.ID, &user.TelegramID, &user.Nickname); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) User(ctx context.Context, telegramID int64) (models.User, error) {
	const op = "storage.sqlite.User"

	stmt, err := s.db.Prepare("SELECT id,telegram_id,nickname FROM users WHERE telegram_id=?")
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var user models.User
	row := stmt.QueryRowContext(ctx, telegramID)
	if err := row.Scan(&user.ID, &user.TelegramID, &user.Nickname); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// SaveRegistration upserts the registration row keyed by nickname. A repeat
// registration replaces the comment but keeps the original registered_at, so
// the list position does not move.
func (s *Storage) SaveRegistration(ctx context.Context, nickname, comment string) (models.Registration, error) {
	const op = "storage.sqlite.SaveRegistration"

	stmt, err := s.db.Prepare(`INSERT INTO registrations(id,nickname,comment,registered_at) VALUES(?,?,?,?)
		ON CONFLICT(nickname) DO UPDATE SET comment=excluded.comment
		RETURNING id,nickname,comment,registered_at`)
	if err != nil {
		return models.Registration{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var reg models.Registration
	row := stmt.QueryRowContext(ctx, uuid.New(), nickname, comment, time.Now().UTC())
	if err := row.Scan(&reg.ID, &reg.Nickname, &reg.Comment, &reg.RegisteredAt); err != nil {
		return models.Registration{}, fmt.Errorf("%s: %w", op, err)
	}

	return reg, nil
}

func (s *Storage) DeleteRegistration(ctx context.Context, nickname string) error {
	const op = "storage.sqlite.DeleteRegistration"

	res, err := s.db.ExecContext(ctx, "DELETE FROM registrations WHERE nickname=?", nickname)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrRegistrationNotFound)
	}

	return nil
}

func (s *Storage) Registrations(ctx context.Context) ([]models.Registration, error) {
	const op = "storage.sqlite.Registrations"

	rows, err := s.db.QueryContext(ctx,
		"SELECT id,nickname,comment,registered_at FROM registrations ORDER BY registered_at")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.Nickname, &reg.Comment, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return regs, nil
}

func (s *Storage) ClearRegistrations(ctx context.Context) error {
	const op = "storage.sqlite.ClearRegistrations"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM registrations"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
