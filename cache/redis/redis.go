package redis

import (
	"time"
)

const (
	REDIS_ADDR              = "redis:6379"
	REDIS_MIN_RETRY_BACKOFF = 3 * time.Second
	REDIS_MAX_RETRY_BACKOFF = 5 * time.Second
	REDIS_DATABASE_AUTH     = 0
	REDIS_DATABASE_PROJECTS = 1
)
