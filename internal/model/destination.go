package model

import (
	"time"

	"github.com/google/uuid"
)

// Destination представляет направление, к которому привязаны туры. Используется для фильтра и
// выбора изображения карточки.
type Destination struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
