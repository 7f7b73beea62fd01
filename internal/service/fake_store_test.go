package service

import (
	"context"
	"sync"

	"tourbook/internal/model"
	"tourbook/internal/repository"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu sync.Mutex

	tours     []model.Tour
	toursErr  error
	dests     []model.Destination
	destsErr  error
	createErr error
	getErr    error

	gotFilter string
	listCalls int
	created   []model.Booking
}

func (f *fakeStore) ListTours(_ context.Context, destination string) ([]model.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFilter = destination
	f.listCalls++
	return f.tours, f.toursErr
}

func (f *fakeStore) GetTour(_ context.Context, id uuid.UUID) (*model.Tour, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, t := range f.tours {
		if t.ID == id {
			t := t
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListDestinations(context.Context) ([]model.Destination, error) {
	return f.dests, f.destsErr
}

func (f *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = uuid.New()
	f.created = append(f.created, *b)
	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	for _, b := range f.created {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeCache struct {
	data map[string][]model.Tour
	sets int
}

func (c *fakeCache) Get(_ context.Context, filter string) ([]model.Tour, bool, error) {
	t, ok := c.data[filter]
	return t, ok, nil
}

func (c *fakeCache) Set(_ context.Context, filter string, tours []model.Tour) error {
	if c.data == nil {
		c.data = map[string][]model.Tour{}
	}
	c.data[filter] = tours
	c.sets++
	return nil
}
