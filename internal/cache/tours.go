// Package cache хранит снимки списков туров в Redis, чтобы не ходить в базу на каждую загрузку
// страницы. Снимок может устареть не более чем на TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourbook/internal/model"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "tours:"

// TourCache - кэш списков туров по фильтру направления.
type TourCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает клиента Redis по адресу host:port или URL redis://.
// Пустой адрес означает localhost:6379.
func NewRedisClient(addr string) (*redis.Client, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if !strings.Contains(addr, "://") {
		return redis.NewClient(&redis.Options{Addr: addr}), nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес Redis: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewTourCache создает кэш с заданным временем жизни записей.
func NewTourCache(client *redis.Client, ttl time.Duration) *TourCache {
	return &TourCache{client: client, ttl: ttl}
}

// Get возвращает снимок для фильтра. ok == false, если снимка нет.
func (c *TourCache) Get(ctx context.Context, filter string) ([]model.Tour, bool, error) {
	raw, err := c.client.Get(ctx, key(filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения кэша туров: %w", err)
	}
	var tours []model.Tour
	if err := json.Unmarshal(raw, &tours); err != nil {
		return nil, false, fmt.Errorf("поврежденный снимок туров: %w", err)
	}
	return tours, true, nil
}

// Set сохраняет снимок для фильтра.
func (c *TourCache) Set(ctx context.Context, filter string, tours []model.Tour) error {
	raw, err := json.Marshal(tours)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать туры: %w", err)
	}
	if err := c.client.Set(ctx, key(filter), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи кэша туров: %w", err)
	}
	return nil
}

func key(filter string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(filter))
}
