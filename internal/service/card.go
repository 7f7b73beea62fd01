package service

import (
	"context"
	"errors"
	"fmt"

	"tourbook/internal/assets"
	"tourbook/internal/booking"
	"tourbook/internal/model"
	"tourbook/internal/pricing"
)

// Сообщения, которые видит пользователь.
const (
	MsgBookingSubmitted = "Booking submitted successfully!"
	MsgUnknownLocation  = "Unknown location"
	MsgNoDescription    = "No description available for this tour."
)

// ErrBookingClosed - форма бронирования не открыта, отправлять нечего.
var ErrBookingClosed = errors.New("booking form is not open")

// TourCard - состояние карточки тура: окно подробностей и окно бронирования открываются
// независимо друг от друга.
type TourCard struct {
	Tour        model.Tour
	DetailsOpen bool
	BookingOpen bool
	Form        *booking.Form
	// Booking - последнее созданное через карточку бронирование.
	Booking *model.Booking

	bookings *BookingService
}

// NewTourCard создает карточку тура.
func NewTourCard(tour model.Tour, bookings *BookingService) *TourCard {
	return &TourCard{Tour: tour, bookings: bookings}
}

// OpenDetails открывает окно подробностей.
func (c *TourCard) OpenDetails() { c.DetailsOpen = true }

// CloseDetails закрывает окно подробностей.
func (c *TourCard) CloseDetails() { c.DetailsOpen = false }

// BookNow открывает форму бронирования. Без пользователя форма не открывается.
func (c *TourCard) BookNow(user *model.User) error {
	if user == nil {
		return ErrAuthRequired
	}
	c.Form = booking.NewForm(c.Tour)
	c.BookingOpen = true
	return nil
}

// CloseBooking закрывает форму, черновик отбрасывается.
func (c *TourCard) CloseBooking() {
	c.BookingOpen = false
	c.Form = nil
}

// Submit проверяет форму и сохраняет бронирование. При успехе форма закрывается, при любой
// ошибке остается открытой. Уведомление возвращается всегда.
func (c *TourCard) Submit(ctx context.Context, user *model.User) (model.Notice, error) {
	if !c.BookingOpen || c.Form == nil {
		return NoticeFor(ErrBookingClosed), ErrBookingClosed
	}
	sub, err := c.Form.Submit()
	if err != nil {
		return NoticeFor(err), err
	}
	b, err := c.bookings.Submit(ctx, user, c.Tour, *sub, model.StatusPending)
	if err != nil {
		return NoticeFor(err), err
	}
	c.Booking = b
	c.CloseBooking()
	return model.Success(MsgBookingSubmitted), nil
}

// Thumbnail возвращает изображение карточки.
func (c *TourCard) Thumbnail(r *assets.Resolver) string {
	return r.Resolve(c.Tour.DestinationName())
}

// LocationLabel возвращает название направления для заголовка карточки.
func (c *TourCard) LocationLabel() string {
	if name := c.Tour.DestinationName(); name != "" {
		return name
	}
	return MsgUnknownLocation
}

// DescriptionText возвращает описание тура или текст-заглушку.
func (c *TourCard) DescriptionText() string {
	if c.Tour.Description != "" {
		return c.Tour.Description
	}
	return MsgNoDescription
}

// DurationLabel возвращает продолжительность ("3 days") или пустую строку.
func (c *TourCard) DurationLabel() string {
	if c.Tour.Duration <= 0 {
		return ""
	}
	return fmt.Sprintf("%d days", c.Tour.Duration)
}

// DateLabel возвращает дату тура для отображения.
func (c *TourCard) DateLabel() string {
	if c.Tour.Date.IsZero() {
		return ""
	}
	return c.Tour.Date.Format("02 Jan 2006")
}

// PriceLabel возвращает цену за человека в рупиях.
func (c *TourCard) PriceLabel() string {
	return pricing.FormatINR(pricing.Normalize(c.Tour.Price))
}
