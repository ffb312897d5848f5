package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyCountPrefix = "smart:count:"
	historyLastPrefix  = "smart:last:"
)

// RedisHistoryStore backs the smart evaluator with Redis. INCR gives the
// atomic counter; TTLs take the place of explicit expiry purges.
type RedisHistoryStore struct {
	rdb *redis.Client
}

func NewRedisHistoryStore(rdb *redis.Client) *RedisHistoryStore {
	return &RedisHistoryStore{rdb: rdb}
}

func (s *RedisHistoryStore) Bump(ctx context.Context, addr string, window time.Duration) (int64, error) {
	n, err := s.rdb.Incr(ctx, historyCountPrefix+addr).Result()
	if err != nil {
		return 0, err
	}
	if n <= smartRedirectCap {
		// Refresh the window from this redirect; past the cap the key is
		// left to expire on the last redirect's schedule.
		s.rdb.Expire(ctx, historyCountPrefix+addr, window)
	}
	return n, nil
}

func (s *RedisHistoryStore) LastURL(ctx context.Context, addr string) (string, error) {
	val, err := s.rdb.Get(ctx, historyLastPrefix+addr).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisHistoryStore) SetLastURL(ctx context.Context, addr, url string, window time.Duration) error {
	return s.rdb.Set(ctx, historyLastPrefix+addr, url, window).Err()
}

func (s *RedisHistoryStore) PurgeExpired(ctx context.Context) error {
	return nil
}
