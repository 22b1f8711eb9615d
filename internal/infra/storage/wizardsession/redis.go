package wizardsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

const (
	defaultTTL    = time.Hour
	defaultPrefix = "wizard:session:"
)

// RedisStore хранит черновики записи в Redis как JSON, TTL продлевается при каждом сохранении
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore создает хранилище; нулевой ttl заменяется часом
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: defaultPrefix}
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

// Get читает сессию
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*domain.WizardSession, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: Get - %v", ErrStorage, err)
	}

	var session domain.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %v", ErrEncode, err)
	}
	return &session, nil
}

// Save сохраняет сессию целиком
func (s *RedisStore) Save(ctx context.Context, session *domain.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal: %v", ErrEncode, err)
	}
	if err := s.rdb.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - %v", ErrStorage, err)
	}
	return nil
}

// Delete удаляет сессию; отсутствие ключа не ошибка
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - %v", ErrStorage, err)
	}
	return nil
}
