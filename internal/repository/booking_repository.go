package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tourbook/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// BookingRepository обеспечивает доступ к данным бронирований в базе данных.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository создает новый репозиторий для бронирований.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create создает новую заявку на бронирование и возвращает ее идентификатор.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) (uuid.UUID, error) {
	query := `INSERT INTO bookings (tour_id, user_id, leader_name, email, phone, number_of_people, total_cost, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	var id uuid.UUID
	err := r.db.QueryRowxContext(ctx, query,
		b.TourID, b.UserID, b.LeaderName, b.Email, b.Phone, b.NumberOfPeople, b.TotalCost, b.Status, b.CreatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("не удалось создать бронирование: %w", err)
	}
	return id, nil
}

// GetByID возвращает бронирование по ID.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.GetContext(ctx, &b, `SELECT id, tour_id, user_id, leader_name, email, phone,
		number_of_people, total_cost, status, created_at FROM bookings WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бронирования %s: %w", id, err)
	}
	return &b, nil
}
