package service

import (
	"context"

	"tourbook/internal/model"

	"github.com/google/uuid"
)

// Store - слой доступа к данным, от которого зависят сервисы. Реализуется repository.Store.
type Store interface {
	ListTours(ctx context.Context, destination string) ([]model.Tour, error)
	GetTour(ctx context.Context, id uuid.UUID) (*model.Tour, error)
	ListDestinations(ctx context.Context) ([]model.Destination, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
}

// TourCache хранит снимки списков туров. Реализуется cache.TourCache.
type TourCache interface {
	Get(ctx context.Context, filter string) ([]model.Tour, bool, error)
	Set(ctx context.Context, filter string, tours []model.Tour) error
}
