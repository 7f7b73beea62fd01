package model

import (
	"time"

	"github.com/google/uuid"
)

// StatusPending - единственный статус, который выставляет этот сервис при создании заявки.
const StatusPending = "pending"

// Booking представляет сохраненную заявку на бронирование тура.
type Booking struct {
	ID             uuid.UUID `db:"id" json:"id"`
	TourID         uuid.UUID `db:"tour_id" json:"tour_id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	LeaderName     string    `db:"leader_name" json:"leader_name"`
	Email          string    `db:"email" json:"email"`
	Phone          string    `db:"phone" json:"phone"`
	NumberOfPeople int       `db:"number_of_people" json:"number_of_people"`
	TotalCost      float64   `db:"total_cost" json:"total_cost"`
	Status         string    `db:"status" json:"status"` // "pending"
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
