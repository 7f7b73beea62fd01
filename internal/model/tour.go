package model

import (
	"time"

	"github.com/google/uuid"
)

// Tour представляет тур, доступный для бронирования.
type Tour struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	DestinationID *uuid.UUID   `json:"destination_id,omitempty"`
	Destination   *Destination `json:"destinations,omitempty"` // nil, если направление не найдено
	Location      string       `json:"location"`
	// Price хранится как есть: число или строка (например, "₹1,200"). Приводится через pricing.Normalize.
	Price       any       `json:"price"`
	Date        time.Time `json:"date"`
	MaxPeople   int       `json:"max_people"`
	Duration    int       `json:"duration,omitempty"` // в днях, 0 - не указано
	Description string    `json:"description"`
	Services    []string  `json:"services"`
	CreatedAt   time.Time `json:"created_at"`
}

// Capacity возвращает максимальный размер группы; некорректное значение трактуется как 1.
func (t Tour) Capacity() int {
	if t.MaxPeople < 1 {
		return 1
	}
	return t.MaxPeople
}

// DestinationName возвращает имя направления или пустую строку.
func (t Tour) DestinationName() string {
	if t.Destination == nil {
		return ""
	}
	return t.Destination.Name
}
