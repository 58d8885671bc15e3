package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_redis "github.com/ArtemSydun/KIT-GLOBAL/cache/redis"
	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	_pg "github.com/ArtemSydun/KIT-GLOBAL/repository/pg"
	"github.com/ArtemSydun/KIT-GLOBAL/util"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v4/pgxpool"
)

const LOOP_INTERVAL = 1 * time.Minute

// ReconcileProjectMirrors rebuilds every project's embedded mirror from
// the tasks collection. The tasks collection always commits first during
// a dual write, so after a crash between the two phases it is the one to
// trust; a drifted mirror is rewritten and its cached view refreshed.
func ReconcileProjectMirrors(
	pool *pgxpool.Pool,
	prRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	prCache domain.ProjectCache,
) error {
	log.Println("ReconcileProjectMirrors()")
	ctx, cancel := util.GetContextWithTimeout(context.Background())
	defer cancel()
	rows, err := pool.Query(ctx, "SELECT id FROM projects")
	if err != nil {
		return err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		ctx, cancel := util.GetContextWithTimeout(context.Background())
		defer cancel()
		project, err := prRepo.GetByID(ctx, id)
		if err != nil {
			log.Println(err)
			continue
		}

		ctx, cancel = util.GetContextWithTimeout(context.Background())
		defer cancel()
		taskList, err := taskRepo.GetAllFiltered(ctx, &domain.TaskQuery{
			ProjectID: id,
			SortBy:    "createdAt",
			SortOrder: "asc",
		})
		if err != nil {
			log.Println(err)
			continue
		}

		mirror := make([]domain.TaskMirror, 0, len(taskList))
		for i := range taskList {
			mirror = append(mirror, taskList[i].Mirror())
		}

		if !mirrorsEqual(project.Tasks, mirror) {
			log.Println("mirror drift detected for project:", id)
			ctx, cancel = util.GetContextWithTimeout(context.Background())
			defer cancel()
			project, err = prRepo.Update(ctx, id, &domain.ProjectUpdate{Tasks: &mirror})
			if err != nil {
				log.Println(err)
				continue
			}
		}

		ctx, cancel = util.GetContextWithTimeout(context.Background())
		defer cancel()
		if err := prCache.Update(ctx, project); err != nil {
			log.Println(err)
		}
	}
	return nil
}

func mirrorsEqual(a []domain.TaskMirror, b []domain.TaskMirror) bool {
	if len(a) != len(b) {
		return false
	}
	index := make(map[string]domain.TaskMirror, len(a))
	for _, m := range a {
		index[m.Name] = m
	}
	for _, m := range b {
		other, ok := index[m.Name]
		if !ok || other.Status != m.Status {
			return false
		}
		switch {
		case other.DateTo == nil && m.DateTo == nil:
		case other.DateTo == nil || m.DateTo == nil:
			return false
		case !other.DateTo.Equal(*m.DateTo):
			return false
		}
	}
	return true
}

func main() {
	poolConfig, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@db:5432/%s",
		os.Getenv("DATABASE_USER"),
		os.Getenv("DATABASE_PASSWORD"),
		os.Getenv("DATABASE_NAME"),
	))
	if err != nil {
		log.Fatalln("Unable to parse DATABASE_URL. error:", err)
	}

	ctx, cancel := util.GetContextWithTimeout(context.Background())
	defer cancel()
	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalln("Unable to create connection pool. error:", err)
	}
	defer pool.Close()

	prRepo := _pg.NewProjectPostgresRepository(pool)
	taskRepo := _pg.NewTaskPostgresRepository(pool)
	prCache := _redis.NewProjectRedisCache(redis.NewClient(&redis.Options{
		Addr:            _redis.REDIS_ADDR,
		DB:              _redis.REDIS_DATABASE_PROJECTS,
		MinRetryBackoff: _redis.REDIS_MIN_RETRY_BACKOFF,
		MaxRetryBackoff: _redis.REDIS_MAX_RETRY_BACKOFF,
	}), 24*time.Hour)

	for {
		if err := ReconcileProjectMirrors(pool, prRepo, taskRepo, prCache); err != nil {
			log.Println(err)
		}
		time.Sleep(LOOP_INTERVAL)
	}
}
