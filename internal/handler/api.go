package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tourbook/internal/booking"
	"tourbook/internal/model"
	"tourbook/internal/pricing"
	"tourbook/internal/receipt"
	"tourbook/internal/repository"
	"tourbook/internal/service"
	"tourbook/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgTourNotFound = "Tour not found"

// sessionTTL - срок жизни cookie, выставляемой при входе через токен.
const sessionTTL = 24 * time.Hour

// tourView - тур с вычисленными полями для клиента.
type tourView struct {
	model.Tour
	Thumbnail     string  `json:"thumbnail"`
	LocationLabel string  `json:"location_label"`
	UnitPrice     float64 `json:"unit_price"`
	PriceLabel    string  `json:"price_label"`
}

func (h *Handler) view(t model.Tour) tourView {
	card := service.NewTourCard(t, h.Bookings)
	return tourView{
		Tour:          t,
		Thumbnail:     card.Thumbnail(h.Resolver),
		LocationLabel: card.LocationLabel(),
		UnitPrice:     pricing.Normalize(t.Price),
		PriceLabel:    card.PriceLabel(),
	}
}

// ListTours обработчик для GET /api/tours - туры с фильтром по направлению.
func (h *Handler) ListTours(c *gin.Context) {
	page := h.Catalog.Page(c.Request.Context(), c.Query("location"))
	tours := make([]tourView, 0, len(page.Tours))
	for _, t := range page.Tours {
		tours = append(tours, h.view(t))
	}
	notices := page.Notices
	if notices == nil {
		notices = []model.Notice{}
	}
	c.JSON(http.StatusOK, gin.H{"filter": page.Filter, "tours": tours, "notices": notices})
}

// GetTour обработчик для GET /api/tours/:id.
func (h *Handler) GetTour(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tour, ok := h.lookupTour(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(*tour))
}

// lookupTour загружает тур; при ошибке ответ уже отправлен.
func (h *Handler) lookupTour(c *gin.Context, id uuid.UUID) (*model.Tour, bool) {
	tour, err := h.Catalog.Tour(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgTourNotFound})
			return nil, false
		}
		h.log.Error("[handler] ошибка загрузки тура", "tour", id, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch tour"})
		return nil, false
	}
	return tour, true
}

// ListDestinations обработчик для GET /api/destinations.
func (h *Handler) ListDestinations(c *gin.Context) {
	destinations, err := h.Catalog.Destinations(c.Request.Context())
	if err != nil {
		h.log.Error("[handler] ошибка загрузки направлений", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": service.MsgFetchDestinationsFailed})
		return
	}
	if destinations == nil {
		destinations = []model.Destination{}
	}
	c.JSON(http.StatusOK, destinations)
}

// partySize - количество человек из JSON: число или строка, как в поле ввода.
type partySize string

func (p *partySize) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = partySize(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("numberOfPeople: %w", err)
	}
	*p = partySize(n.String())
	return nil
}

type quoteRequest struct {
	NumberOfPeople *partySize `json:"numberOfPeople"`
	Step           string     `json:"step"`
}

type bookingRequest struct {
	LeaderName     string    `json:"leaderName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	NumberOfPeople partySize `json:"numberOfPeople"`
}

func (r bookingRequest) draft() booking.Draft {
	return booking.Draft{
		LeaderName:     r.LeaderName,
		Email:          r.Email,
		Phone:          r.Phone,
		NumberOfPeople: string(r.NumberOfPeople),
	}
}

// Quote обработчик для POST /api/tours/:id/quote - пересчет стоимости при изменении группы.
func (h *Handler) Quote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный запрос"})
		return
	}
	tour, ok := h.lookupTour(c, id)
	if !ok {
		return
	}

	form := booking.NewForm(*tour)
	if req.NumberOfPeople != nil {
		form.SetPartySize(string(*req.NumberOfPeople))
	}
	switch req.Step {
	case "+":
		form.Increment()
	case "-":
		form.Decrement()
	}
	c.JSON(http.StatusOK, gin.H{
		"numberOfPeople": form.PartySize(),
		"maxPeople":      form.MaxPeople(),
		"unitPrice":      form.UnitPrice(),
		"total":          form.Total(),
		"unitPriceLabel": pricing.FormatINR(form.UnitPrice()),
		"totalLabel":     pricing.FormatINR(form.Total()),
	})
}

// CreateBooking обработчик для POST /api/tours/:id/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный запрос"})
		return
	}
	tour, ok := h.lookupTour(c, id)
	if !ok {
		return
	}

	user := session.FromContext(c).User
	card := service.NewTourCard(*tour, h.Bookings)
	if err := card.BookNow(user); err != nil {
		n := service.NoticeFor(err)
		c.JSON(statusFor(err), gin.H{"error": n.Message, "notice": n})
		return
	}
	card.Form.Fill(req.draft())
	notice, err := card.Submit(c.Request.Context(), user)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": notice.Message, "notice": notice})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": card.Booking, "notice": notice})
}

// Receipt обработчик для GET /api/bookings/:id/receipt - PDF-квитанция владельца бронирования.
func (h *Handler) Receipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, pdf, err := h.Bookings.Receipt(c.Request.Context(), session.FromContext(c).User, id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadGateway {
			h.log.Error("[handler] не удалось сформировать квитанцию", "booking", id, "err", err)
		}
		msg := service.FailureMessage(err)
		if errors.Is(err, repository.ErrNotFound) {
			msg = "Booking not found"
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.FileName(*b)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type signInRequest struct {
	Token string `json:"token" binding:"required"`
}

// SignIn обработчик для POST /api/session - сохраняет токен доступа в cookie.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный запрос"})
		return
	}
	user, err := h.Auth.Parse(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}
	session.SignIn(c, req.Token, sessionTTL)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SignOut обработчик для DELETE /api/session.
func (h *Handler) SignOut(c *gin.Context) {
	session.SignOut(c)
	c.Status(http.StatusNoContent)
}
