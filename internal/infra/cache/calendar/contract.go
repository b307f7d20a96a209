package calendar

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// DayStore источник конфигураций дней (репозиторий календаря)
type DayStore interface {
	GetAllDays(ctx context.Context) ([]domain.DayConfiguration, error)
	UpsertDay(ctx context.Context, cfg *domain.DayConfiguration) error
}

// RedisClient подмножество *redis.Client, которое использует кэш
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
