// Package config читает настройки сервиса из переменных окружения (и файла .env, если он есть).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config - параметры запуска API и бота.
type Config struct {
	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	APIPort       string
	MigrationsDir string
	AssetsDir     string

	JWTSecret string

	RedisURL     string
	TourCacheTTL time.Duration

	BotToken  string
	BadgerDir string

	LogLevel string
}

// Load загружает .env (при наличии) и читает конфигурацию со значениями по умолчанию.
func Load() (Config, error) {
	// .env нужен только локально, в контейнере переменные задаются окружением
	_ = godotenv.Load()

	cfg := Config{
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBName:        os.Getenv("DB_NAME"),
		APIPort:       getenv("API_PORT", "8080"),
		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),
		AssetsDir:     getenv("ASSETS_DIR", "public/assets"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisURL:      os.Getenv("REDIS_URL"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		BadgerDir:     getenv("BADGER_DIR", "/tmp/tourbook-bot"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}

	ttl, err := time.ParseDuration(getenv("TOUR_CACHE_TTL", "1m"))
	if err != nil {
		return cfg, fmt.Errorf("некорректное значение TOUR_CACHE_TTL: %w", err)
	}
	cfg.TourCacheTTL = ttl
	return cfg, nil
}

// DSN собирает строку подключения к PostgreSQL.
func (c Config) DSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser + " password=" + c.DBPass + " dbname=" + c.DBName + " sslmode=disable"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
