package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "token:"

// NewClient connects to Redis and pings it with a short timeout.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// TokenCache maps access tokens to user ids. Tokens never change once
// issued, so entries only need a TTL to bound memory.
type TokenCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewTokenCache(client *goredis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{client: client, ttl: ttl}
}

func (c *TokenCache) Get(ctx context.Context, token string) (uuid.UUID, bool, error) {
	val, err := c.client.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		// Corrupt entry, treat as a miss and let the caller overwrite it.
		return uuid.Nil, false, nil
	}
	return userID, true, nil
}

func (c *TokenCache) Set(ctx context.Context, token string, userID uuid.UUID) error {
	return c.client.Set(ctx, tokenKeyPrefix+token, userID.String(), c.ttl).Err()
}
