// Package cache реализует реестр сессий поверх Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/bank-portal/internal/config"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Cache хранит JSON-значения в Redis.
type Cache struct {
	Db *redis.Client
}

type sessionEntry struct {
	AccountID int64 `json:"account_id"`
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get читает значение по ключу в result. Возвращает false, если ключа нет.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в JSON с временем жизни expiration.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, key, jsonData, expiration).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate удаляет ключ. Отсутствие ключа ошибкой не считается.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	const op = "cache.Invalidate"
	if err := c.Db.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveSession регистрирует сессию sessionID для учётной записи на время ttl.
func (c *Cache) SaveSession(ctx context.Context, sessionID string, accountID int64, ttl time.Duration) error {
	return c.Set(ctx, sessionKeyPrefix+sessionID, sessionEntry{AccountID: accountID}, ttl)
}

// SessionAccount возвращает учётную запись, к которой привязана сессия.
// Второе значение false означает, что сессия не зарегистрирована или истекла.
func (c *Cache) SessionAccount(ctx context.Context, sessionID string) (int64, bool, error) {
	var entry sessionEntry
	found, err := c.Get(ctx, sessionKeyPrefix+sessionID, &entry)
	if err != nil || !found {
		return 0, false, err
	}
	return entry.AccountID, true, nil
}

// DeleteSession отзывает сессию.
func (c *Cache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.Invalidate(ctx, sessionKeyPrefix+sessionID)
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}
