package models

import (
	"time"

	"github.com/google/uuid"
)

type Registration struct {
	ID           uuid.UUID
	Nickname     string
	Comment      string
	RegisteredAt time.Time
}
