// Package slotlock serializes booking attempts for one (stylist, date, time).
// RedisLocker works across instances, LocalLocker within one process.
package slotlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL          = 10 * time.Second
	defaultWait         = 2 * time.Second
	defaultPollInterval = 50 * time.Millisecond
	defaultPrefix       = "slotlock"
)

var (
	// ErrLockTimeout лок не удалось взять за отведенное время
	ErrLockTimeout = errors.New("slotlock: timed out waiting for lock")

	// ErrLockBackend ошибка хранилища локов
	ErrLockBackend = errors.New("slotlock: backend error")
)

// ReleaseFunc освобождает взятый лок
type ReleaseFunc func(ctx context.Context) error

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker лок на SET NX PX
type RedisLocker struct {
	rdb          *redis.Client
	ttl          time.Duration
	wait         time.Duration
	pollInterval time.Duration
	prefix       string
}

// NewRedisLocker создает лок; нулевые значения заменяются значениями по умолчанию
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, prefix string) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if wait <= 0 {
		wait = defaultWait
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisLocker{
		rdb:          rdb,
		ttl:          ttl,
		wait:         wait,
		pollInterval: defaultPollInterval,
		prefix:       prefix,
	}
}

// Acquire ждет освобождения ключа не дольше wait
func (l *RedisLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	fullKey := l.prefix + ":" + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: SetNX %s: %v", ErrLockBackend, fullKey, err)
		}
		if ok {
			return func(ctx context.Context) error {
				if err := releaseScript.Run(ctx, l.rdb, []string{fullKey}, token).Err(); err != nil {
					return fmt.Errorf("%w: release %s: %v", ErrLockBackend, fullKey, err)
				}
				return nil
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

// LocalLocker лок в памяти процесса, когда Redis выключен.
// Защищает только в пределах одного инстанса
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*localEntry
	wait time.Duration
}

type localEntry struct {
	held chan struct{}
	refs int
}

// NewLocalLocker создает лок в памяти; wait <= 0 заменяется значением по умолчанию
func NewLocalLocker(wait time.Duration) *LocalLocker {
	if wait <= 0 {
		wait = defaultWait
	}
	return &LocalLocker{
		keys: make(map[string]*localEntry),
		wait: wait,
	}
}

// Acquire ждет освобождения ключа не дольше wait
func (l *LocalLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	entry := l.ref(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case entry.held <- struct{}{}:
	case <-timer.C:
		l.unref(key, entry)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		l.unref(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-entry.held
			l.unref(key, entry)
		})
		return nil
	}, nil
}

func (l *LocalLocker) ref(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.keys[key]
	if !ok {
		entry = &localEntry{held: make(chan struct{}, 1)}
		l.keys[key] = entry
	}
	entry.refs++
	return entry
}

func (l *LocalLocker) unref(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.keys, key)
	}
}

// NoopLocker ничего не блокирует
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}

// SlotKey ключ лока для слота мастера
func SlotKey(stylistID uuid.UUID, date time.Time, slot string) string {
	return fmt.Sprintf("%s:%s:%s", stylistID, date.Format("2006-01-02"), slot)
}
