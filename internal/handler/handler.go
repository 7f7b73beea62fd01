package handler

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"tourbook/internal/assets"
	"tourbook/internal/booking"
	"tourbook/internal/pricing"
	"tourbook/internal/repository"
	"tourbook/internal/service"
	"tourbook/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	Catalog  *service.CatalogService
	Bookings *service.BookingService
	Auth     *session.Authenticator
	Resolver *assets.Resolver
	log      *slog.Logger
}

// NewHandler создает новый Handler с внедрением зависимостей (сервисов).
func NewHandler(catalog *service.CatalogService, bookings *service.BookingService, auth *session.Authenticator,
	resolver *assets.Resolver, log *slog.Logger) *Handler {
	return &Handler{
		Catalog:  catalog,
		Bookings: bookings,
		Auth:     auth,
		Resolver: resolver,
		log:      log,
	}
}

// Router регистрирует маршруты страниц и API. assetsDir пустой - статика не раздается.
func (h *Handler) Router(assetsDir string) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(h.templates())
	router.Use(h.Auth.Middleware())

	if assetsDir != "" {
		router.Static("/assets", assetsDir)
	}
	// Health-check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/tours")
	})

	pages := router.Group("/tours")
	{
		pages.GET("", h.ToursPage)
		pages.GET("/:id", h.TourDetailsPage)
		pages.GET("/:id/book", h.BookingPage)
		pages.POST("/:id/book", h.SubmitBookingPage)
	}

	api := router.Group("/api")
	{
		api.GET("/tours", h.ListTours)
		api.GET("/tours/:id", h.GetTour)
		api.GET("/destinations", h.ListDestinations)
		api.POST("/tours/:id/quote", h.Quote)
		api.POST("/tours/:id/bookings", RequireUser(), h.CreateBooking)
		api.GET("/bookings/:id/receipt", RequireUser(), h.Receipt)
		api.POST("/session", h.SignIn)
		api.DELETE("/session", h.SignOut)
	}
	return router
}

// RequireUser прерывает запрос с 401, если в сессии нет пользователя.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.FromContext(c).SignedIn() {
			n := service.NoticeFor(service.ErrAuthRequired)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": n.Message, "notice": n})
			return
		}
		c.Next()
	}
}

func (h *Handler) templates() *template.Template {
	funcs := template.FuncMap{
		"inr":   pricing.FormatINR,
		"lower": strings.ToLower,
		"dict": func(kv ...any) map[string]any {
			m := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				k, _ := kv[i].(string)
				m[k] = kv[i+1]
			}
			return m
		},
		"thumb": func(c *service.TourCard) string {
			return c.Thumbnail(h.Resolver)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

// statusFor сопоставляет ошибку бронирования и HTTP-статус.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case booking.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrTourNotOnPage):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBookingClosed):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор"})
		return uuid.Nil, false
	}
	return id, true
}
