package repository

import (
	"context"

	"tourbook/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store объединяет репозитории в единый слой доступа к данным для сервисов.
type Store struct {
	Tours        *TourRepository
	Destinations *DestinationRepository
	Bookings     *BookingRepository
}

// NewStore создает Store поверх одного подключения.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		Tours:        NewTourRepository(db),
		Destinations: NewDestinationRepository(db),
		Bookings:     NewBookingRepository(db),
	}
}

// ListTours возвращает туры с присоединенными направлениями.
func (s *Store) ListTours(ctx context.Context, destination string) ([]model.Tour, error) {
	return s.Tours.FindAll(ctx, destination)
}

// GetTour возвращает тур по ID.
func (s *Store) GetTour(ctx context.Context, id uuid.UUID) (*model.Tour, error) {
	return s.Tours.GetByID(ctx, id)
}

// ListDestinations возвращает все направления.
func (s *Store) ListDestinations(ctx context.Context) ([]model.Destination, error) {
	return s.Destinations.FindAll(ctx)
}

// CreateBooking сохраняет бронирование и проставляет ему ID.
func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	id, err := s.Bookings.Create(ctx, b)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// GetBooking возвращает бронирование по ID.
func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}
