package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	_redis "github.com/ArtemSydun/KIT-GLOBAL/cache/redis"
	handler "github.com/ArtemSydun/KIT-GLOBAL/handler"
	_pg "github.com/ArtemSydun/KIT-GLOBAL/repository/pg"
	"github.com/ArtemSydun/KIT-GLOBAL/service"
	util "github.com/ArtemSydun/KIT-GLOBAL/util"
	"github.com/ArtemSydun/KIT-GLOBAL/util/middleware"
)

func initDatabase() *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@db:5432/%s",
		os.Getenv("DATABASE_USER"),
		os.Getenv("DATABASE_PASSWORD"),
		os.Getenv("DATABASE_NAME"),
	))

	if err != nil {
		log.Fatalln("Unable to parse DATABASE_URL. error:", err)
	}

	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.Logger = &util.DatabaseLogger{}
	poolConfig.ConnConfig.LogLevel = pgx.LogLevelDebug

	ctx, cancel := util.GetContextWithTimeout(context.Background())
	defer cancel()
	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalln("Unable to create connection pool. error:", err)
	}

	queries := []string{
		_pg.CreateProjectTable(),
		_pg.CreateTaskTable(),
	}

	for _, q := range queries {
		ctx, cancel = util.GetContextWithTimeout(context.Background())
		defer cancel()
		if _, err := pool.Exec(ctx, q); err != nil {
			log.Fatalln(err)
		}
	}

	return pool
}

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            _redis.REDIS_ADDR,
		DB:              db,
		MinRetryBackoff: _redis.REDIS_MIN_RETRY_BACKOFF,
		MaxRetryBackoff: _redis.REDIS_MAX_RETRY_BACKOFF,
	})
}

func main() {
	pool := initDatabase()
	defer pool.Close()

	projectRepo := _pg.NewProjectPostgresRepository(pool)
	taskRepo := _pg.NewTaskPostgresRepository(pool)

	projectCache := _redis.NewProjectRedisCache(newRedisClient(_redis.REDIS_DATABASE_PROJECTS), 24*time.Hour)
	authCache := _redis.NewAuthRedisCache(newRedisClient(_redis.REDIS_DATABASE_AUTH), 1*time.Hour)

	projectService := service.NewProjectService(projectRepo, taskRepo, projectCache)
	taskService := service.NewTaskService(projectService, taskRepo)

	r := mux.NewRouter()
	r.Use(middleware.LoggerMiddleware)

	authMiddleware := middleware.AuthMiddleware(authCache, os.Getenv("API_ADMIN_EMAIL"))

	handler.NewProjectHandler(r, authMiddleware, projectService, projectCache)
	handler.NewTaskHandler(r, authMiddleware, taskService)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	http.Handle("/", r)
	log.Fatal(http.ListenAndServe(
		os.Getenv("API_LISTEN_ADDR"),
		handlers.CombinedLoggingHandler(os.Stdout, cors(r)),
	))
}
