// Package cache кэширует чтение профилей пользователей в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "hallbooking:profile"

// DefaultTTL время жизни записи, если в конфиге не задано
const DefaultTTL = 5 * time.Minute

// ProfileCache cache-aside обёртка над store.Profiles.
// Без клиента Redis (nil) все вызовы идут напрямую в хранилище.
// Ошибки Redis не ломают чтение: логируем и читаем из хранилища.
type ProfileCache struct {
	inner  store.Profiles
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ store.Profiles = (*ProfileCache)(nil)

func NewProfileCache(inner store.Profiles, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileCache{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func uidKey(uid string) string {
	return keyPrefix + ":uid:" + uid
}

func chatKey(chatID int64) string {
	return keyPrefix + ":chat:" + strconv.FormatInt(chatID, 10)
}

// GetByUID получает профиль по uid
func (c *ProfileCache) GetByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	return c.cached(ctx, uidKey(uid), func(ctx context.Context) (*model.UserProfile, error) {
		return c.inner.GetByUID(ctx, uid)
	})
}

// GetByTelegramChatID получает профиль по привязанному чату Telegram
func (c *ProfileCache) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.UserProfile, error) {
	return c.cached(ctx, chatKey(chatID), func(ctx context.Context) (*model.UserProfile, error) {
		return c.inner.GetByTelegramChatID(ctx, chatID)
	})
}

func (c *ProfileCache) FindHeadOfDepartment(ctx context.Context, department string) (*model.UserProfile, error) {
	return c.inner.FindHeadOfDepartment(ctx, department)
}

func (c *ProfileCache) ListHallManagers(ctx context.Context, hall string) ([]*model.UserProfile, error) {
	return c.inner.ListHallManagers(ctx, hall)
}

// Flush удаляет из кэша все профили
func (c *ProfileCache) Flush(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}

	var keys []string
	iter := c.rdb.Scan(ctx, 0, keyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan profile cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("flush profile cache: %w", err)
	}
	return nil
}

// RunInvalidation сбрасывает кэш при каждом изменении коллекции users.
// Блокируется до отмены контекста.
func (c *ProfileCache) RunInvalidation(ctx context.Context, hub *feed.Hub) {
	if c.rdb == nil {
		return
	}

	sub := feed.Watch(ctx, hub, model.CollectionUsers, func(context.Context) (struct{}, error) {
		return struct{}{}, nil
	})
	defer sub.Close()

	for range sub.C {
		if err := c.Flush(ctx); err != nil {
			c.logger.Warn("Profile cache flush failed", zap.Error(err))
			continue
		}
		c.logger.Debug("Profile cache flushed after users change")
	}
}

func (c *ProfileCache) cached(ctx context.Context, key string, load func(context.Context) (*model.UserProfile, error)) (*model.UserProfile, error) {
	if c.rdb == nil {
		return load(ctx)
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var profile model.UserProfile
		if err := json.Unmarshal(raw, &profile); err == nil {
			return &profile, nil
		}
		c.logger.Warn("Corrupted profile cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Profile cache read failed", zap.String("key", key), zap.Error(err))
	}

	profile, err := load(ctx)
	if err != nil {
		return nil, err
	}
	// Отсутствующие профили не кэшируем: пользователь может зарегистрироваться в любой момент
	if profile == nil {
		return nil, nil
	}

	body, err := json.Marshal(profile)
	if err != nil {
		return profile, nil
	}
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Warn("Profile cache write failed", zap.String("key", key), zap.Error(err))
	}

	return profile, nil
}
