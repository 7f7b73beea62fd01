package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"tourbook/internal/booking"
	"tourbook/internal/model"
	"tourbook/internal/repository"
	"tourbook/internal/service"
	"tourbook/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// noticeBooked - значение параметра notice после успешного бронирования.
const noticeBooked = "booked"

// pageView - данные шаблона страницы туров.
type pageView struct {
	Session      session.Session
	Filter       string
	Destinations []model.Destination
	Cards        []*service.TourCard
	Notices      []model.Notice
	// Active - карточка с открытым окном подробностей или бронирования.
	Active *service.TourCard
}

func (h *Handler) loadPage(ctx context.Context, c *gin.Context) (*service.TourPage, *pageView) {
	page := h.Catalog.Page(ctx, c.Query("location"))
	v := &pageView{
		Session:      session.FromContext(c),
		Filter:       page.Filter,
		Destinations: page.Destinations,
		Notices:      page.Notices,
	}
	for _, t := range page.Tours {
		v.Cards = append(v.Cards, service.NewTourCard(t, h.Bookings))
	}
	if c.Query("notice") == noticeBooked {
		v.Notices = append(v.Notices, model.Success(service.MsgBookingSubmitted))
	}
	return page, v
}

// ToursPage обработчик для GET /tours - страница туров с фильтром по направлению.
func (h *Handler) ToursPage(c *gin.Context) {
	_, v := h.loadPage(c.Request.Context(), c)
	c.HTML(http.StatusOK, "tours.html", v)
}

// activeCard находит тур для окна подробностей. Тур может отсутствовать на текущей странице
// (другой фильтр), тогда он загружается отдельно.
func (h *Handler) activeCard(c *gin.Context, v *pageView) (*service.TourCard, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "tours.html", v)
		return nil, false
	}
	for _, card := range v.Cards {
		if card.Tour.ID == id {
			return card, true
		}
	}
	tour, err := h.Catalog.Tour(c.Request.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
		} else {
			h.log.Error("[handler] ошибка загрузки тура", "tour", id, "err", err)
		}
		v.Notices = append(v.Notices, model.Failure(msgTourNotFound))
		c.HTML(status, "tours.html", v)
		return nil, false
	}
	return service.NewTourCard(*tour, h.Bookings), true
}

// TourDetailsPage обработчик для GET /tours/:id - окно подробностей тура.
func (h *Handler) TourDetailsPage(c *gin.Context) {
	_, v := h.loadPage(c.Request.Context(), c)
	card, ok := h.activeCard(c, v)
	if !ok {
		return
	}
	card.OpenDetails()
	v.Active = card
	c.HTML(http.StatusOK, "tours.html", v)
}

// openBooking открывает форму бронирования страницы. При ошибке страница уже отрисована.
func (h *Handler) openBooking(c *gin.Context, page *service.TourPage, v *pageView) bool {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		err = service.ErrTourNotOnPage
	} else {
		err = page.SelectTour(c.Request.Context(), id, v.Session.User, h.Bookings)
	}
	if err != nil {
		status := statusFor(err)
		notice := service.NoticeFor(err)
		switch status {
		case http.StatusNotFound:
			notice = model.Failure(msgTourNotFound)
		case http.StatusBadGateway:
			h.log.Error("[handler] ошибка загрузки тура", "tour", c.Param("id"), "err", err)
			notice = model.Failure("Failed to fetch tour")
		}
		v.Notices = append(v.Notices, notice)
		c.HTML(status, "tours.html", v)
		return false
	}
	v.Active = page.Selected
	return true
}

// BookingPage обработчик для GET /tours/:id/book - открывает форму бронирования.
// Анонимный посетитель получает страницу с уведомлением и статусом 401.
func (h *Handler) BookingPage(c *gin.Context) {
	page, v := h.loadPage(c.Request.Context(), c)
	if !h.openBooking(c, page, v) {
		return
	}
	c.HTML(http.StatusOK, "tours.html", v)
}

// SubmitBookingPage обработчик для POST /tours/:id/book. Поле step ("+" или "-") меняет
// количество человек без отправки формы.
func (h *Handler) SubmitBookingPage(c *gin.Context) {
	ctx := c.Request.Context()
	page, v := h.loadPage(ctx, c)
	if !h.openBooking(c, page, v) {
		return
	}
	form := page.Selected.Form

	var draft booking.Draft
	if err := c.ShouldBind(&draft); err != nil {
		h.log.Warn("[handler] не удалось разобрать форму бронирования", "err", err)
	}
	form.Fill(draft)

	switch c.PostForm("step") {
	case "+":
		form.Increment()
		c.HTML(http.StatusOK, "tours.html", v)
		return
	case "-":
		form.Decrement()
		c.HTML(http.StatusOK, "tours.html", v)
		return
	}

	notice, err := page.SubmitBooking(ctx, v.Session.User)
	if err != nil {
		v.Notices = append(v.Notices, notice)
		c.HTML(statusFor(err), "tours.html", v)
		return
	}
	q := url.Values{"notice": {noticeBooked}}
	if v.Filter != "" {
		q.Set("location", v.Filter)
	}
	c.Redirect(http.StatusSeeOther, "/tours?"+q.Encode())
}
