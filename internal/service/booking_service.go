package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tourbook/internal/booking"
	"tourbook/internal/model"
	"tourbook/internal/receipt"

	"github.com/google/uuid"
)

var (
	// ErrAuthRequired - действие требует вошедшего пользователя.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden - бронирование принадлежит другому пользователю.
	ErrForbidden = errors.New("this booking belongs to another user")
)

// BookingService содержит бизнес-логику, связанную с бронированиями.
type BookingService struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewBookingService создает новый сервис бронирований.
func NewBookingService(store Store, log *slog.Logger) *BookingService {
	return &BookingService{store: store, log: log, now: time.Now}
}

// Submit - единая точка создания бронирования для всех каналов (карточка, страница, бот).
// Статус передается вызывающим кодом; сейчас все каналы используют model.StatusPending.
func (s *BookingService) Submit(ctx context.Context, user *model.User, tour model.Tour, sub booking.Submission, status string) (*model.Booking, error) {
	if user == nil {
		return nil, ErrAuthRequired
	}
	b := &model.Booking{
		TourID:         tour.ID,
		UserID:         user.ID,
		LeaderName:     sub.LeaderName,
		Email:          sub.Email,
		Phone:          sub.Phone,
		NumberOfPeople: sub.PartySize,
		TotalCost:      sub.TotalCost,
		Status:         status,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		s.log.Error("[booking] не удалось сохранить бронирование", "tour", tour.ID, "user", user.ID, "err", err)
		return nil, err
	}
	s.log.Info("[booking] бронирование создано", "booking", b.ID, "tour", tour.ID, "people", b.NumberOfPeople)
	return b, nil
}

// Receipt возвращает PDF-квитанцию бронирования. Доступна только владельцу.
func (s *BookingService) Receipt(ctx context.Context, user *model.User, bookingID uuid.UUID) (*model.Booking, []byte, error) {
	if user == nil {
		return nil, nil, ErrAuthRequired
	}
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.UserID != user.ID {
		return nil, nil, ErrForbidden
	}
	tour, err := s.store.GetTour(ctx, b.TourID)
	if err != nil {
		return nil, nil, fmt.Errorf("не найден тур бронирования: %w", err)
	}
	pdf, err := receipt.Generate(*b, *tour)
	if err != nil {
		return nil, nil, err
	}
	return b, pdf, nil
}

// MsgLoginRequired показывается, если бронирование пытается сделать анонимный посетитель.
const MsgLoginRequired = "Please login to book a tour"

// NoticeFor превращает ошибку в уведомление для пользователя.
func NoticeFor(err error) model.Notice {
	switch {
	case errors.Is(err, ErrAuthRequired):
		return model.Failure(MsgLoginRequired)
	case booking.IsValidation(err), errors.Is(err, ErrBookingClosed):
		return model.Failure(capitalize(err.Error()))
	}
	return model.Failure(FailureMessage(err))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FailureMessage возвращает исходное сообщение ошибки без обертки: его показывают пользователю.
func FailureMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
