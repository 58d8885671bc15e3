package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type AuthRedisCache struct {
	rdb         *redis.Client
	tokenExpiry time.Duration
}

func (a *AuthRedisCache) GetEmailByToken(ctx context.Context, token string) (string, error) {
	email, err := a.rdb.GetEx(ctx, token, a.tokenExpiry).Result()
	if err != nil {
		return "", err
	}
	return email, nil
}

func NewAuthRedisCache(rdb *redis.Client, tokenExpiry time.Duration) *AuthRedisCache {
	return &AuthRedisCache{
		rdb:         rdb,
		tokenExpiry: tokenExpiry,
	}
}
