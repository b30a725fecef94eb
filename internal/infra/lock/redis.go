package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
)

const retryInterval = 25 * time.Millisecond

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// RedisLocker блокировка дня врача через SET NX с токеном владельца.
// Работает между несколькими экземплярами сервиса.
type RedisLocker struct {
	client      redis.UniversalClient
	ttl         time.Duration
	waitTimeout time.Duration
	recorder    Recorder
	logger      Logger
}

// NewRedisLocker создает блокировку. ttl ограничивает время удержания ключа,
// waitTimeout ограничивает ожидание занятого ключа.
func NewRedisLocker(client redis.UniversalClient, ttl, waitTimeout time.Duration, recorder Recorder, logger Logger) *RedisLocker {
	return &RedisLocker{
		client:      client,
		ttl:         ttl,
		waitTimeout: waitTimeout,
		recorder:    recorder,
		logger:      logger,
	}
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// WithDoctorDayLock выполняет fn, удерживая блокировку (врач, дата)
func (l *RedisLocker) WithDoctorDayLock(ctx context.Context, doctorID int64, date time.Time, fn func(ctx context.Context) error) error {
	key := Key(doctorID, date)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		// освобождаем даже если контекст запроса уже отменен
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := l.release(releaseCtx, key, token); err != nil {
			l.logger.Warn("RedisLocker: failed to release %s: %v", key, err)
		}
	}()

	lockedCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockedCtx)
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.waitTimeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			l.recorder.RecordLock(resultError)
			return fmt.Errorf("%w: acquire %s: %w", ErrLockUnavailable, key, err)
		}
		if ok {
			l.recorder.RecordLock(resultAcquired)
			return nil
		}

		if time.Now().After(deadline) {
			l.recorder.RecordLock(resultBusy)
			return ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

// Key имя ключа блокировки дня врача
func Key(doctorID int64, date time.Time) string {
	return fmt.Sprintf("lock:doctor:%d:%s", doctorID, domain.DateOf(date).Format(domain.DateFormat))
}
