package main

import (
	"log"
	"os"

	"tourbook/internal/assets"
	"tourbook/internal/cache"
	"tourbook/internal/config"
	"tourbook/internal/handler"
	"tourbook/internal/logger"
	"tourbook/internal/repository"
	"tourbook/internal/service"
	"tourbook/internal/session"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	logg := logger.New(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}
	defer db.Close()
	// Выполняем миграции (если есть)
	repository.Migrate(db, cfg.MigrationsDir, logg)

	// Кэш туров включается, только если задан REDIS_URL
	var tourCache service.TourCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Ошибка настройки Redis: %v", err)
		}
		defer client.Close()
		tourCache = cache.NewTourCache(client, cfg.TourCacheTTL)
	}

	if cfg.JWTSecret == "" {
		logg.Warn("JWT_SECRET не задан: ни один токен не пройдет проверку")
	}

	// Инициализируем сервисы
	store := repository.NewStore(db)
	catalog := service.NewCatalogService(store, tourCache, logg)
	bookings := service.NewBookingService(store, logg)
	auth := session.NewAuthenticator(cfg.JWTSecret, logg)
	resolver := assets.NewResolver(os.DirFS(cfg.AssetsDir))

	// Создаем Handler и регистрируем маршруты
	h := handler.NewHandler(catalog, bookings, auth, resolver, logg)
	router := h.Router(cfg.AssetsDir)

	logg.Info("API запущен", "port", cfg.APIPort)
	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
