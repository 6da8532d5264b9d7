package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
)

// RedisStore はセッションを JSON として Redis に保存します。
// キーの TTL は Policy の失効時刻に合わせ、Get のたびに延長します。
type RedisStore struct {
	rdb    redis.UniversalClient
	policy Policy
	now    func() time.Time
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb redis.UniversalClient, policy Policy) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		policy: policy,
		now:    time.Now,
	}
}

// Create はセッションを保存します。
func (s *RedisStore) Create(ctx context.Context, sess *Session) (string, error) {
	now := s.now()
	record := prepare(sess, now)
	ttl, ok := s.policy.ttl(&record, now)
	if !ok {
		return "", fmt.Errorf("session already expired at creation")
	}

	payload, err := json.Marshal(&record)
	if err != nil {
		return "", err
	}

	token := NewToken()
	created, err := s.rdb.SetNX(ctx, sessionKey(token), payload, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !created {
		return "", fmt.Errorf("session token collision")
	}
	return token, nil
}

// Get はセッションを取得し、最終アクセス時刻と TTL を更新します。
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	key := sessionKey(token)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var record Session
	if err := json.Unmarshal(data, &record); err != nil {
		// 壊れたレコードは無効なセッションとして扱う
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, ErrNotFound
	}

	now := s.now()
	if s.policy.Expired(&record, now) {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, ErrNotFound
	}

	record.LastActiveAt = now
	ttl, _ := s.policy.ttl(&record, now)
	payload, err := json.Marshal(&record)
	if err != nil {
		return nil, err
	}
	// XX: 並行して Destroy されたセッションを復活させない
	updated, err := s.rdb.SetXX(ctx, key, payload, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !updated {
		return nil, ErrNotFound
	}
	return &record, nil
}

// Destroy はセッションを削除します。
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping は Redis への疎通を確認します。
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
