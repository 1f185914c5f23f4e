package models

import "github.com/google/uuid"

type User struct {
	ID         uuid.UUID
	TelegramID int64
	Nickname   string
}
