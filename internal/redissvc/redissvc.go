package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// RedisService carries the client and the channel events travel on.
type RedisService struct {
	rdb     *redis.Client
	channel string
}

// Connect dials addr and checks the server answers before returning.
func Connect(ctx context.Context, addr, channel string) (*RedisService, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return NewRedisService(rdb, channel), nil
}

func NewRedisService(rdb *redis.Client, channel string) *RedisService {
	return &RedisService{
		rdb:     rdb,
		channel: channel,
	}
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

func (a *RedisService) Channel() string {
	return a.channel
}

func (a *RedisService) Close() error {
	return a.rdb.Close()
}
