package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/go-redis/redis/v8"
)

// ProjectRedisCache keeps the denormalized project document, mirror
// included, keyed by project id. It backs the cheap per-project task
// display path; every engine mutation invalidates the affected entry.
type ProjectRedisCache struct {
	rdb        *redis.Client
	dataExpiry time.Duration
}

func (c *ProjectRedisCache) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	data, err := c.rdb.GetEx(ctx, id, c.dataExpiry).Result()
	if err != nil {
		return nil, err
	}
	project := &domain.Project{}
	if err := json.Unmarshal([]byte(data), project); err != nil {
		return nil, err
	}
	return project, nil
}

func (c *ProjectRedisCache) Update(ctx context.Context, project *domain.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, project.ID, data, c.dataExpiry).Err()
}

func (c *ProjectRedisCache) Delete(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, id).Err()
}

func NewProjectRedisCache(rdb *redis.Client, dataExpiry time.Duration) *ProjectRedisCache {
	return &ProjectRedisCache{
		rdb:        rdb,
		dataExpiry: dataExpiry,
	}
}
