package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const daysKey = "salon:calendar:days"

// ErrDayNotCached конфигурации дня нет в закэшированной неделе
var ErrDayNotCached = errors.New("calendar.cache: day not cached")

// CachedStore read-through кэш конфигураций дней поверх репозитория.
// Неделя кэшируется одним ключом и сбрасывается при любом изменении.
// Ошибки Redis не ломают чтение: запрос уходит в репозиторий.
type CachedStore struct {
	store  DayStore
	client RedisClient
	ttl    time.Duration
	logger Logger
}

// NewCachedStore создает кэширующую обёртку над репозиторием
func NewCachedStore(store DayStore, client RedisClient, ttl time.Duration, logger Logger) *CachedStore {
	return &CachedStore{
		store:  store,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetAllDays возвращает сохранённые конфигурации из кэша или из репозитория
func (c *CachedStore) GetAllDays(ctx context.Context) ([]domain.DayConfiguration, error) {
	if days, ok := c.load(ctx); ok {
		return days, nil
	}

	days, err := c.store.GetAllDays(ctx)
	if err != nil {
		return nil, err
	}

	c.save(ctx, days)
	return days, nil
}

// UpsertDay сохраняет конфигурацию и сбрасывает кэш
func (c *CachedStore) UpsertDay(ctx context.Context, cfg *domain.DayConfiguration) error {
	if err := c.store.UpsertDay(ctx, cfg); err != nil {
		return err
	}

	c.Invalidate(ctx)
	return nil
}

// Invalidate удаляет закэшированную неделю
func (c *CachedStore) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, daysKey).Err(); err != nil {
		c.logger.Warn("calendar cache: failed to invalidate: %v", err)
	}
}

func (c *CachedStore) load(ctx context.Context) ([]domain.DayConfiguration, bool) {
	data, err := c.client.Get(ctx, daysKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("calendar cache: failed to read: %v", err)
		}
		return nil, false
	}

	var days []domain.DayConfiguration
	if err := json.Unmarshal(data, &days); err != nil {
		c.logger.Warn("calendar cache: corrupted entry: %v", err)
		return nil, false
	}

	return days, true
}

func (c *CachedStore) save(ctx context.Context, days []domain.DayConfiguration) {
	// Пустая неделя не кэшируется: при первом сохранении дефолтов кэш всё равно сбросится
	if len(days) == 0 {
		return
	}

	data, err := json.Marshal(days)
	if err != nil {
		c.logger.Warn("calendar cache: failed to encode: %v", err)
		return
	}

	if err := c.client.Set(ctx, daysKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("calendar cache: failed to write: %v", err)
	}
}
