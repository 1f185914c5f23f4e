package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Maikai1er/la-baza-bot/internal/domain/models"
	"github.com/Maikai1er/la-baza-bot/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	dbpool *pgxpool.Pool
}

func New(ctx context.Context, dbAddr string) (*Storage, error) {
	const op = "storage.postgres.New"

	dbpool, err := pgxpool.New(ctx, dbAddr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{dbpool: dbpool}
	if err := s.createTables(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	const op = "storage.postgres.createTables"

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			telegram_id BIGINT UNIQUE,
			nickname TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id TEXT PRIMARY KEY,
			nickname TEXT UNIQUE NOT NULL,
			comment TEXT NOT NULL,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, query := range queries {
		if _, err := s.dbpool.Exec(ctx, query); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) SaveUser(ctx context.Context, telegramID int64, nickname string) (models.User, error) {
	const op = "storage.postgres.SaveUser"

	query := `INSERT INTO users(id,telegram_id,nickname) VALUES(@userId,@telegramId,@nickname)
		ON CONFLICT(telegram_id) DO UPDATE SET nickname=excluded.nickname
		RETURNING id,telegram_id,nickname`
	args := pgx.NamedArgs{
		"userId":     uuid.New().String(),
		"telegramId": telegramID,
		"nickname":   nickname,
	}

	var user models.User
	err := s.dbpool.QueryRow(ctx, query, args).Scan(&user.ID, &user.TelegramID, &user.Nickname)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) User(ctx context.Context, telegramID int64) (models.User, error) {
	const op = "storage.postgres.User"

	query := "SELECT id,telegram_id,nickname FROM users WHERE telegram_id=$1"

	var user models.User
	err := s.dbpool.QueryRow(ctx, query, telegramID).Scan(&user.ID, &user.TelegramID, &user.Nickname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) SaveRegistration(ctx context.Context, nickname, comment string) (models.Registration, error) {
	const op = "storage.postgres.SaveRegistration"

	query := `INSERT INTO registrations(id,nickname,comment,registered_at)
		VALUES(@regId,@nickname,@comment,@registeredAt)
		ON CONFLICT(nickname) DO UPDATE SET comment=excluded.comment
		RETURNING id,nickname,comment,registered_at`
	args := pgx.NamedArgs{
		"regId":        uuid.New().String(),
		"nickname":     nickname,
		"comment":      comment,
		"registeredAt": time.Now().UTC(),
	}

	var reg models.Registration
	err := s.dbpool.QueryRow(ctx, query, args).Scan(&reg.ID, &reg.Nickname, &reg.Comment, &reg.RegisteredAt)
	if err != nil {
		return models.Registration{}, fmt.Errorf("%s: %w", op, err)
	}

	return reg, nil
}

func (s *Storage) DeleteRegistration(ctx context.Context, nickname string) error {
	const op = "storage.postgres.DeleteRegistration"

	tag, err := s.dbpool.Exec(ctx, "DELETE FROM registrations WHERE nickname=$1", nickname)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrRegistrationNotFound)
	}

	return nil
}

func (s *Storage) Registrations(ctx context.Context) ([]models.Registration, error) {
	const op = "storage.postgres.Registrations"

	rows, err := s.dbpool.Query(ctx,
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
	const op = "storage.postgres.ClearRegistrations"

	if _, err := s.dbpool.Exec(ctx, "DELETE FROM registrations"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	s.dbpool.Close()
	return nil
}
