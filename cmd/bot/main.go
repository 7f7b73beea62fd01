package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tourbook/internal/cache"
	"tourbook/internal/config"
	"tourbook/internal/logger"
	"tourbook/internal/repository"
	"tourbook/internal/service"
	"tourbook/internal/session"
	"tourbook/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	logg := logger.New(cfg.LogLevel)

	// Подключение к базе данных
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer db.Close()

	var tourCache service.TourCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Ошибка настройки Redis: %v", err)
		}
		defer client.Close()
		tourCache = cache.NewTourCache(client, cfg.TourCacheTTL)
	}

	// Состояние диалогов
	state, err := telegram.OpenStateStore(cfg.BadgerDir)
	if err != nil {
		log.Fatalf("Ошибка открытия хранилища состояний: %v", err)
	}
	defer state.Close()

	// Инициализация Telegram Bot API
	if cfg.BotToken == "" {
		log.Fatal("Не указан токен бота (BOT_TOKEN)")
	}
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("Ошибка инициализации бота:", err)
	}
	logg.Info("Запущен бот", "username", api.Self.UserName)

	store := repository.NewStore(db)
	bot := telegram.NewBot(api,
		service.NewCatalogService(store, tourCache, logg),
		service.NewBookingService(store, logg),
		session.NewAuthenticator(cfg.JWTSecret, logg),
		state, logg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	bot.Run(ctx, updates)
	logg.Info("Бот остановлен")
}
