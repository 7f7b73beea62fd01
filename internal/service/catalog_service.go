package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tourbook/internal/model"
	"tourbook/internal/repository"

	"github.com/google/uuid"
)

// Уведомления об ошибках загрузки страницы.
const (
	MsgFetchToursFailed        = "Failed to fetch tours"
	MsgFetchDestinationsFailed = "Failed to fetch destinations"
)

// ErrTourNotOnPage - выбранного тура нет среди туров страницы.
var ErrTourNotOnPage = errors.New("tour is not listed on this page")

// TourPage - данные страницы туров и состояние формы бронирования уровня страницы.
type TourPage struct {
	Filter       string
	Tours        []model.Tour
	Destinations []model.Destination
	Notices      []model.Notice

	// Selected - карточка тура, для которого открыта форма бронирования страницы.
	Selected *TourCard

	// lookup загружает тур, которого нет в списке (например, при другом фильтре).
	lookup func(ctx context.Context, id uuid.UUID) (*model.Tour, error)
}

// SelectTour открывает форму бронирования страницы. Тур ищется среди туров страницы, затем
// загружается отдельно. Неизвестный тур - ErrTourNotOnPage.
func (p *TourPage) SelectTour(ctx context.Context, id uuid.UUID, user *model.User, bookings *BookingService) error {
	tour, err := p.find(ctx, id)
	if err != nil {
		return err
	}
	card := NewTourCard(*tour, bookings)
	if err := card.BookNow(user); err != nil {
		return err
	}
	p.Selected = card
	return nil
}

func (p *TourPage) find(ctx context.Context, id uuid.UUID) (*model.Tour, error) {
	for i := range p.Tours {
		if p.Tours[i].ID == id {
			return &p.Tours[i], nil
		}
	}
	if p.lookup == nil {
		return nil, ErrTourNotOnPage
	}
	tour, err := p.lookup(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrTourNotOnPage, err)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить тур %s: %w", id, err)
	}
	return tour, nil
}

// SubmitBooking отправляет форму страницы тем же путем, что и карточка.
func (p *TourPage) SubmitBooking(ctx context.Context, user *model.User) (model.Notice, error) {
	if p.Selected == nil {
		return NoticeFor(ErrBookingClosed), ErrBookingClosed
	}
	notice, err := p.Selected.Submit(ctx, user)
	if err == nil {
		p.Selected = nil
	}
	return notice, err
}

// CatalogService загружает туры и направления для страницы каталога.
type CatalogService struct {
	store Store
	cache TourCache
	log   *slog.Logger
}

// NewCatalogService создает сервис каталога. cache может быть nil.
func NewCatalogService(store Store, cache TourCache, log *slog.Logger) *CatalogService {
	return &CatalogService{store: store, cache: cache, log: log}
}

// Page загружает направления и туры (с фильтром по направлению) параллельно. Ошибки загрузки
// превращаются в уведомления, страница строится из того, что удалось получить. Туры без
// найденного направления на страницу не попадают.
func (s *CatalogService) Page(ctx context.Context, filter string) *TourPage {
	page := &TourPage{Filter: strings.ToLower(strings.TrimSpace(filter)), lookup: s.store.GetTour}

	var (
		wg               sync.WaitGroup
		tours            []model.Tour
		tourErr, destErr error
		destinations     []model.Destination
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		destinations, destErr = s.store.ListDestinations(ctx)
	}()
	go func() {
		defer wg.Done()
		tours, tourErr = s.tours(ctx, page.Filter)
	}()
	wg.Wait()

	if destErr != nil {
		s.log.Error("[catalog] ошибка загрузки направлений", "err", destErr)
		page.Notices = append(page.Notices, model.Failure(MsgFetchDestinationsFailed))
		destinations = nil
	}
	if tourErr != nil {
		s.log.Error("[catalog] ошибка загрузки туров", "filter", page.Filter, "err", tourErr)
		page.Notices = append(page.Notices, model.Failure(MsgFetchToursFailed))
		tours = nil
	}
	page.Destinations = destinations
	if page.Destinations == nil {
		page.Destinations = []model.Destination{}
	}
	page.Tours = tours
	if page.Tours == nil {
		page.Tours = []model.Tour{}
	}
	return page
}

// Tour возвращает тур по ID.
func (s *CatalogService) Tour(ctx context.Context, id uuid.UUID) (*model.Tour, error) {
	return s.store.GetTour(ctx, id)
}

// Destinations возвращает все направления.
func (s *CatalogService) Destinations(ctx context.Context) ([]model.Destination, error) {
	return s.store.ListDestinations(ctx)
}

func (s *CatalogService) tours(ctx context.Context, filter string) ([]model.Tour, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, filter)
		if err != nil {
			s.log.Warn("[catalog] кэш туров недоступен", "err", err)
		} else if ok {
			return cached, nil
		}
	}

	all, err := s.store.ListTours(ctx, filter)
	if err != nil {
		return nil, err
	}
	resolved := make([]model.Tour, 0, len(all))
	for _, t := range all {
		if t.Destination != nil {
			resolved = append(resolved, t)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, filter, resolved); err != nil {
			s.log.Warn("[catalog] не удалось обновить кэш туров", "err", err)
		}
	}
	return resolved, nil
}
